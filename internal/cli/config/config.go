package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yndnr/nskv/internal/infra/confloader"
)

// EnvPrefix is the environment prefix for CLI settings.
const EnvPrefix = "NSKV_CLI_"

// CLIConfig holds nskv-cli defaults.
type CLIConfig struct {
	// Output is the reply format (text, json).
	Output  string        `koanf:"output"`
	Timeout time.Duration `koanf:"timeout"`
	NoColor bool          `koanf:"no_color"`

	// HistoryFile is where interactive history is kept. Empty keeps it
	// in memory only.
	HistoryFile string `koanf:"history_file"`
	HistorySize int    `koanf:"history_size"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	cfg := &CLIConfig{
		Output:      "text",
		Timeout:     10 * time.Second,
		HistorySize: 1000,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".nskv", "history")
	}
	return cfg
}

// DefaultPath returns ~/.nskv/cli.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nskv", "cli.yaml")
}

// Load reads path over the defaults, then the environment. A missing
// file is not an error.
func Load(path string) (*CLIConfig, error) {
	cfg := Default()

	opts := []confloader.Option{confloader.WithEnvPrefix(EnvPrefix)}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			opts = append(opts, confloader.WithConfigFile(path))
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Verify validates the configuration.
func Verify(cfg *CLIConfig) error {
	switch strings.ToLower(cfg.Output) {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", cfg.Output)
	}
	if cfg.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if cfg.HistorySize < 0 {
		return errors.New("history_size must not be negative")
	}
	return nil
}
