package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats replies as JSON lines.
type JSONFormatter struct{}

// Format writes r as a single-line JSON object.
func (f *JSONFormatter) Format(w io.Writer, r Reply) error {
	return json.NewEncoder(w).Encode(r)
}
