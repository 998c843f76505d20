package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output != "text" {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.HistoryFile != "" && !strings.HasSuffix(cfg.HistoryFile, filepath.Join(".nskv", "history")) {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := DefaultPath(), filepath.Join(home, ".nskv", "cli.yaml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "cli.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "text" {
		t.Errorf("Output = %q, want default", cfg.Output)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	body := "output: json\ntimeout: 3s\nhistory_file: \"\"\nhistory_size: 50\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NSKV_CLI_NO_COLOR", "true")
	t.Setenv("NSKV_CLI_HISTORY_SIZE", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
	}
	if !cfg.NoColor {
		t.Error("NoColor should come from the environment")
	}
	if cfg.HistorySize != 20 {
		t.Errorf("HistorySize = %d, want env value 20", cfg.HistorySize)
	}
	if cfg.HistoryFile != "" {
		t.Errorf("HistoryFile = %q, want empty", cfg.HistoryFile)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("output: table\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "output") {
		t.Errorf("Load() error = %v, want output validation error", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CLIConfig)
		ok     bool
	}{
		{"default", func(*CLIConfig) {}, true},
		{"json upper", func(c *CLIConfig) { c.Output = "JSON" }, true},
		{"bad output", func(c *CLIConfig) { c.Output = "yaml" }, false},
		{"negative timeout", func(c *CLIConfig) { c.Timeout = -time.Second }, false},
		{"negative history", func(c *CLIConfig) { c.HistorySize = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Verify(cfg); (err == nil) != tt.ok {
				t.Errorf("Verify() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
