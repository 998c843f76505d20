package output

import "io"

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Reply is one printed server response.
type Reply struct {
	Command  string `json:"command"`
	Argument string `json:"argument"`
	Response string `json:"response"`
}

// Formatter formats replies for output.
type Formatter interface {
	Format(w io.Writer, r Reply) error
}

// NewFormatter creates a formatter for the given format. Colour applies
// to text output only.
func NewFormatter(format Format, colorize bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return NewTextFormatter(colorize)
	}
}
