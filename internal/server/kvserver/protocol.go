package kvserver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/nskv/internal/core/domain"
)

// MaxLineLen limits the length of one request line.
const MaxLineLen = 64 * 1024

// Response literals.
const (
	RespOK         = "OK"
	RespBlank      = "<blank>"
	RespRoleUpdate = "ROLE_UPDATED: You are now a Manager"
	RespAuthFailed = "AUTH_FAILED"
	RespUnknown    = "UNKNOWN_COMMAND"

	errorPrefix = "ERROR: "
)

// Command names.
const (
	CmdPut  = "put"
	CmdGet  = "get"
	CmdAuth = "auth"
)

// ErrLineTooLong is returned when a request line exceeds MaxLineLen.
var ErrLineTooLong = errors.New("kvserver: line too long")

// Command is one parsed request line.
type Command struct {
	// Name is the lower-cased first token.
	Name string
	// Args are the remaining tokens, verbatim.
	Args []string
}

// ParseLine splits a request line into a Command. It reports false for
// lines that contain only whitespace.
func ParseLine(line string) (Command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}

// ReadLine reads one newline-terminated line, without the terminator.
// maxLen bounds the line content; the LF or CRLF terminator is not counted.
//
// A final line that ends at EOF without a newline is returned together
// with io.EOF, so callers should process a non-empty line before looking
// at the error.
func ReadLine(r *bufio.Reader, maxLen int) (string, error) {
	tooLong := fmt.Errorf("%w: limit %d", ErrLineTooLong, maxLen)

	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		buf = append(buf, frag...)
		// Room for the content plus a CRLF terminator.
		if len(buf) > maxLen+2 {
			return "", tooLong
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			line := bytes.TrimRight(buf, "\r")
			if len(line) > maxLen {
				return "", tooLong
			}
			return string(line), io.EOF
		}
		return "", err
	}

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLen {
		return "", tooLong
	}
	return string(buf), nil
}

// WriteLine writes s followed by a newline.
func WriteLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// FormatError renders a malformed-command error as a protocol line.
func FormatError(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return errorPrefix + de.Message
	}
	return errorPrefix + err.Error()
}

// FormatValue renders a GET result. Absent keys and empty values both
// render as <blank>.
func FormatValue(value string, ok bool) string {
	if !ok || value == "" {
		return RespBlank
	}
	return value
}
