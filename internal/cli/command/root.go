package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	clicfg "github.com/yndnr/nskv/internal/cli/config"
	"github.com/yndnr/nskv/internal/cli/connection"
	"github.com/yndnr/nskv/internal/cli/output"
	"github.com/yndnr/nskv/internal/cli/repl"
	"github.com/yndnr/nskv/internal/infra/buildinfo"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// App creates the CLI application writing replies to stdout and
// diagnostics to stderr.
func App(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:            "nskv-cli",
		Usage:           "send commands to an nskv server",
		UsageText:       "nskv-cli [options] <host> <port> [put <key> <value> | get <key> | auth <token>]...",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		HideHelpCommand: true,
		Reader:          os.Stdin,
		Writer:          stdout,
		ErrWriter:       stderr,
		Action:          runAction,
		// Exit codes are returned from Run; main decides how to exit.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI defaults file",
			EnvVars: []string{"NSKV_CLI_CONFIG"},
			Value:   clicfg.DefaultPath(),
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "Disable coloured output",
			EnvVars: []string{"NSKV_CLI_NO_COLOR"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Dial and per-command I/O timeout (0 disables)",
			EnvVars: []string{"NSKV_CLI_TIMEOUT"},
			Value:   10 * time.Second,
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Start an interactive prompt after any given commands",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json",
			Value:   string(output.FormatText),
		},
	}
}

// GlobalFlags holds parsed global flags.
type GlobalFlags struct {
	NoColor     bool
	Interactive bool
	Timeout     time.Duration
	Output      output.Format
}

// ParseGlobalFlags extracts global flags from context. Flags that were
// not set fall back to cfg.
func ParseGlobalFlags(c *cli.Context, cfg *clicfg.CLIConfig) (*GlobalFlags, error) {
	f := &GlobalFlags{
		NoColor:     cfg.NoColor,
		Interactive: c.Bool("interactive"),
		Timeout:     cfg.Timeout,
		Output:      output.Format(strings.ToLower(cfg.Output)),
	}
	if c.IsSet("no-color") {
		f.NoColor = c.Bool("no-color")
	}
	if c.IsSet("timeout") {
		f.Timeout = c.Duration("timeout")
	}
	if c.IsSet("output") {
		f.Output = output.Format(strings.ToLower(c.String("output")))
	}
	switch f.Output {
	case output.FormatText, output.FormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q", f.Output)
	}
	if f.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}
	return f, nil
}

func runAction(c *cli.Context) error {
	stderr := c.App.ErrWriter

	args := c.Args().Slice()
	if len(args) < 2 {
		fmt.Fprintln(stderr, "Usage: "+c.App.UsageText)
		fmt.Fprintln(stderr, "Example: nskv-cli localhost 4000 put city Kolkata get city")
		return cli.Exit("", ExitUsage)
	}

	cfg, err := clicfg.Load(c.String("config"))
	if err != nil {
		fmt.Fprintln(stderr, "Error: "+err.Error())
		return cli.Exit("", ExitUsage)
	}
	flags, err := ParseGlobalFlags(c, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "Error: "+err.Error())
		return cli.Exit("", ExitUsage)
	}

	host, port := args[0], args[1]
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		fmt.Fprintf(stderr, "Error: invalid port %q\n", port)
		return cli.Exit("", ExitUsage)
	}

	r := &Runner{
		Client:    connection.NewLineClient(host, port, flags.Timeout),
		Formatter: output.NewFormatter(flags.Output, output.ShouldColor(c.App.Writer, flags.NoColor)),
		Stdout:    c.App.Writer,
		Stderr:    stderr,
		Host:      host,
		Port:      port,
	}
	if flags.Interactive || (len(args) == 2 && isTerminal(c.App.Reader)) {
		r.Stdin = c.App.Reader
		r.History = repl.NewFileHistory(cfg.HistoryFile, cfg.HistorySize)
	}
	return Run(c.Context, r, args[2:])
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Client is the transport used by Runner.
type Client interface {
	Connect(ctx context.Context) error
	Execute(ctx context.Context, line string) (string, error)
	Close() error
}

// Runner executes a parsed script against one connection.
type Runner struct {
	Client    Client
	Formatter output.Formatter
	Stdout    io.Writer
	Stderr    io.Writer
	Host      string
	Port      string

	// Stdin, when set, starts an interactive prompt after the script.
	Stdin   io.Reader
	History *repl.History
}

// Run connects, executes every complete step in order and reports a
// trailing incomplete command.
func Run(ctx context.Context, r *Runner, words []string) error {
	steps, parseErr := ParseScript(words)

	if err := r.Client.Connect(ctx); err != nil {
		var ce *connection.ConnectError
		if errors.As(err, &ce) && ce.Refused() {
			fmt.Fprintf(r.Stderr, "Error: Could not connect to server at %s:%s\n", r.Host, r.Port)
		} else {
			fmt.Fprintf(r.Stderr, "An error occurred: %v\n", err)
		}
		return cli.Exit("", ExitFailure)
	}
	defer r.Client.Close()

	for _, st := range steps {
		resp, err := r.Client.Execute(ctx, st.Line())
		if err != nil {
			fmt.Fprintf(r.Stderr, "An error occurred: %v\n", err)
			return cli.Exit("", ExitFailure)
		}

		if !st.Printed() {
			if strings.HasPrefix(resp, "ERROR") {
				fmt.Fprintln(r.Stderr, resp)
			}
			continue
		}
		reply := output.Reply{Command: st.Name, Argument: st.Args[0], Response: resp}
		if err := r.Formatter.Format(r.Stdout, reply); err != nil {
			return cli.Exit("", ExitFailure)
		}
	}

	if parseErr != nil {
		fmt.Fprintln(r.Stderr, parseErr.Error())
		return cli.Exit("", ExitUsage)
	}

	if r.Stdin != nil {
		opts := []repl.Option{repl.WithIO(r.Stdin, r.Stdout)}
		if r.History != nil {
			opts = append(opts, repl.WithHistory(r.History))
		}
		if err := repl.New(r.Client, r.Formatter, opts...).Run(ctx); err != nil {
			fmt.Fprintf(r.Stderr, "An error occurred: %v\n", err)
			return cli.Exit("", ExitFailure)
		}
	}
	return nil
}
