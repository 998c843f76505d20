package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// TextFormatter prints the raw response line.
type TextFormatter struct {
	ok    *color.Color
	warn  *color.Color
	faint *color.Color
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(colorize bool) *TextFormatter {
	f := &TextFormatter{
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgRed, color.Bold),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{f.ok, f.warn, f.faint} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format writes the response line.
func (f *TextFormatter) Format(w io.Writer, r Reply) error {
	_, err := fmt.Fprintln(w, f.paint(r.Response))
	return err
}

func (f *TextFormatter) paint(line string) string {
	switch {
	case line == "<blank>":
		return f.faint.Sprint(line)
	case strings.HasPrefix(line, "ROLE_UPDATED"):
		return f.ok.Sprint(line)
	case line == "AUTH_FAILED", strings.HasPrefix(line, "ERROR"):
		return f.warn.Sprint(line)
	default:
		return line
	}
}

// ShouldColor reports whether output to w should be coloured: never when
// disabled or NO_COLOR is set, otherwise only on a terminal.
func ShouldColor(w io.Writer, disabled bool) bool {
	if disabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
