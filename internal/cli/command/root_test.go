package command

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nskv/internal/core/service"
	"github.com/yndnr/nskv/internal/server/kvserver"
	"github.com/yndnr/nskv/internal/storage/memory"
	"github.com/yndnr/nskv/internal/telemetry/logger"
)

func startServer(t *testing.T) (host, port string) {
	t.Helper()
	auth, err := service.NewAuthenticator("admin123")
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}
	h := kvserver.NewCommandHandler(memory.NewRegistry(), auth, kvserver.WithLogger(logger.NewNop()))
	srv := kvserver.New(&kvserver.Config{Address: "127.0.0.1:0"}, h, kvserver.WithServerLogger(logger.NewNop()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	host, port, err = net.SplitHostPort(srv.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	return host, port
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	return runCLIInput(t, "", args...)
}

func runCLIInput(t *testing.T, stdin string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	// Keep the user's cli.yaml and history out of the test.
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	app := App(&out, &errOut)
	app.Reader = strings.NewReader(stdin)

	err := app.Run(append([]string{"nskv-cli", "--no-color"}, args...))
	if err != nil {
		var ec cli.ExitCoder
		if !errors.As(err, &ec) {
			t.Fatalf("Run() error = %v", err)
		}
		code = ec.ExitCode()
	}
	return out.String(), errOut.String(), code
}

func TestApp(t *testing.T) {
	app := App(&bytes.Buffer{}, &bytes.Buffer{})
	if app.Name != "nskv-cli" {
		t.Errorf("Name = %q, want nskv-cli", app.Name)
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"no-color", "timeout", "output", "interactive"} {
		if !flagNames[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestRun_Scenario(t *testing.T) {
	host, port := startServer(t)

	stdout, stderr, code := runCLI(t, host, port,
		"put", "city", "Kolkata", "put", "country", "India",
		"get", "country", "get", "city", "get", "Institute")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != "India\nKolkata\n<blank>\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_AuthAndQualifiedGet(t *testing.T) {
	host, port := startServer(t)

	runCLI(t, host, port, "put", "secret", "Hidden")
	stdout, _, code := runCLI(t, host, port,
		"get", "127.0.0.1:secret",
		"auth", "wrong",
		"auth", "admin123",
		"get", "127.0.0.1:secret")
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}

	want := "<blank>\nAUTH_FAILED\nROLE_UPDATED: You are now a Manager\nHidden\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRun_IncompleteCommand(t *testing.T) {
	host, port := startServer(t)

	stdout, stderr, code := runCLI(t, host, port, "put", "k", "v", "get", "k", "put", "x")
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if stdout != "v\n" {
		t.Errorf("stdout = %q, want earlier steps executed", stdout)
	}
	if !strings.Contains(stderr, "Invalid PUT arguments") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_JSONOutput(t *testing.T) {
	host, port := startServer(t)

	var out, errOut bytes.Buffer
	err := App(&out, &errOut).Run([]string{"nskv-cli", "-o", "json", host, port, "put", "a", "1", "get", "a"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != `{"command":"get","argument":"a","response":"1"}` {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRun_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	_, stderr, code := runCLI(t, host, port, "get", "k")
	if code != ExitFailure {
		t.Errorf("exit code = %d, want %d", code, ExitFailure)
	}
	want := "Error: Could not connect to server at " + host + ":" + port
	if !strings.Contains(stderr, want) {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
}

func TestRun_Usage(t *testing.T) {
	_, stderr, code := runCLI(t, "localhost")
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr = %q", stderr)
	}

	_, stderr, code = runCLI(t, "localhost", "notaport", "get", "k")
	if code != ExitUsage || !strings.Contains(stderr, "invalid port") {
		t.Errorf("bad port: code = %d, stderr = %q", code, stderr)
	}
}

func TestRun_Interactive(t *testing.T) {
	host, port := startServer(t)

	stdout, stderr, code := runCLIInput(t, "get city\nauth admin123\nexit\n",
		"-i", host, port, "put", "city", "Kolkata")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	for _, want := range []string{"nskv> ", "Kolkata\n", "ROLE_UPDATED: You are now a Manager\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestRun_NoCommandsNotTerminal(t *testing.T) {
	host, port := startServer(t)

	// Piped stdin without -i runs the empty script and exits.
	stdout, _, code := runCLIInput(t, "get city\n", host, port)
	if code != ExitOK || stdout != "" {
		t.Errorf("code = %d, stdout = %q, want 0 and no output", code, stdout)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	host, port := startServer(t)
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("output: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, code := runCLI(t, "--config", path, host, port, "put", "a", "1", "get", "a")
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, `"response":"1"`) {
		t.Errorf("stdout = %q, want JSON from the config file", stdout)
	}

	// An explicit flag wins over the file.
	stdout, _, _ = runCLI(t, "--config", path, "-o", "text", host, port, "get", "a")
	if stdout != "1\n" {
		t.Errorf("stdout = %q, want text output", stdout)
	}
}

func TestRun_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("output: table\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := runCLI(t, "--config", path, "127.0.0.1", "4000")
	if code != ExitUsage || !strings.Contains(stderr, "output") {
		t.Errorf("code = %d, stderr = %q", code, stderr)
	}
}
