package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/nskv/internal/cli/output"
)

// DefaultPrompt is printed before each input line.
const DefaultPrompt = "nskv> "

// Executor sends one request line and returns the response line.
type Executor interface {
	Execute(ctx context.Context, line string) (string, error)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	exec      Executor
	formatter output.Formatter
	input     io.Reader
	output    io.Writer
	prompt    string
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithPrompt sets the prompt.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// New creates a REPL sending lines through exec.
func New(exec Executor, formatter output.Formatter, opts ...Option) *REPL {
	r := &REPL{
		exec:      exec,
		formatter: formatter,
		input:     strings.NewReader(""),
		output:    io.Discard,
		prompt:    DefaultPrompt,
		completer: NewCompleter(),
		history:   NewFileHistory("", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit, EOF or context cancellation. A transport
// error ends the loop and is returned.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		atEOF := err == io.EOF

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			stop, execErr := r.execute(ctx, line)
			if execErr != nil {
				return execErr
			}
			if stop {
				return nil
			}
		}

		if atEOF {
			fmt.Fprintln(r.output)
			return nil
		}
	}
}

// execute handles one line and reports whether the loop should stop.
func (r *REPL) execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])

	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		r.printHelp()
		return false, nil
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false, nil
	}

	resp, err := r.exec.Execute(ctx, line)
	if err != nil {
		return true, err
	}

	var arg string
	if len(fields) > 1 {
		arg = fields[1]
	}
	if err := r.formatter.Format(r.output, output.Reply{Command: name, Argument: arg, Response: resp}); err != nil {
		return true, err
	}

	if resp == "UNKNOWN_COMMAND" {
		first, _ := utf8.DecodeRuneInString(name)
		if s := r.completer.Complete(string(first)); len(s) > 0 {
			fmt.Fprintf(r.output, "did you mean: %s\n", strings.Join(s, ", "))
		}
	}
	return false, nil
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, `Commands:
  put <key> <value>          store a value in your namespace
  get <key>                  read a value from your namespace
  get <identity>:<key>       read another client's value (Manager only)
  auth <token>               become a Manager
  history                    show command history
  help                       show this help
  exit, quit                 leave`)
}
