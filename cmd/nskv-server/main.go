package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nskv/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "nskv-server",
		Usage:           "namespaced multi-client key-value server",
		Version:         buildinfo.String(),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"NSKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host for the line protocol",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port for the line protocol",
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "Shared AUTH secret",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, c.String("config"), flagOverrides(c))
		},
	}
}

// flagOverrides maps explicitly set flags onto configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("host") {
		m["server.kv.host"] = c.String("host")
	}
	if c.IsSet("port") {
		m["server.kv.port"] = c.Int("port")
	}
	if c.IsSet("secret") {
		m["auth.secret"] = c.String("secret")
	}
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	return m
}
