// Package tests holds end-to-end tests that run the protocol server over
// real loopback connections.
package tests

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/internal/core/service"
	"github.com/yndnr/nskv/internal/server/kvserver"
	"github.com/yndnr/nskv/internal/storage/memory"
	"github.com/yndnr/nskv/internal/telemetry/logger"
)

type lineConn struct {
	conn net.Conn
	br   *bufio.Reader
}

func dialFrom(ctx context.Context, local net.IP, addr string) (*lineConn, error) {
	d := net.Dialer{LocalAddr: &net.TCPAddr{IP: local}, Timeout: 5 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &lineConn{conn: conn, br: bufio.NewReader(conn)}, nil
}

func (c *lineConn) do(line string) (string, error) {
	_ = c.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\n", line); err != nil {
		return "", err
	}
	resp, err := c.br.ReadString('\n')
	return strings.TrimRight(resp, "\r\n"), err
}

func startServer(t *testing.T) (*memory.Registry, string) {
	t.Helper()
	auth, err := service.NewAuthenticator("admin123")
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}
	reg := memory.NewRegistry()
	h := kvserver.NewCommandHandler(reg, auth, kvserver.WithLogger(logger.NewNop()))
	srv := kvserver.New(&kvserver.Config{Address: "127.0.0.1:0"}, h, kvserver.WithServerLogger(logger.NewNop()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return reg, srv.Addr().String()
}

// Many identities write the same key concurrently; each reads back its own
// value and a Manager sees every namespace.
func TestConcurrentIdentities_Isolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	reg, addr := startServer(t)

	const clients = 16
	const rounds = 50

	// Namespaces are created by the first command, not by connecting.
	extra, err := dialFrom(context.Background(), net.IPv4(127, 0, 0, 2), addr)
	if err != nil {
		t.Skipf("cannot dial from extra loopback addresses: %v", err)
	}
	if resp, err := extra.do("get x"); err != nil || resp != "<blank>" {
		t.Fatalf("get x from 127.0.0.2 = %q, %v", resp, err)
	}
	extra.conn.Close()

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < clients; i++ {
		ip := net.IPv4(127, 0, 0, byte(10+i))
		g.Go(func() error {
			c, err := dialFrom(ctx, ip, addr)
			if err != nil {
				return err
			}
			defer c.conn.Close()

			for r := 0; r < rounds; r++ {
				want := fmt.Sprintf("%s-%d", ip, r)
				if resp, err := c.do("put city " + want); err != nil || resp != "OK" {
					return fmt.Errorf("%s put: %q, %v", ip, resp, err)
				}
				if resp, err := c.do("get city"); err != nil || resp != want {
					return fmt.Errorf("%s get = %q, want %q (err %v)", ip, resp, want, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := reg.Len(); got != clients+1 {
		t.Errorf("namespaces = %d, want %d (clients plus 127.0.0.2)", got, clients+1)
	}
	if _, ok := reg.Lookup(domain.Identity("127.0.0.2")); !ok {
		t.Error("namespace for 127.0.0.2 missing")
	}

	mgr, err := dialFrom(context.Background(), net.IPv4(127, 0, 0, 1), addr)
	if err != nil {
		t.Fatalf("dial manager: %v", err)
	}
	defer mgr.conn.Close()
	if resp, _ := mgr.do("auth admin123"); resp != "ROLE_UPDATED: You are now a Manager" {
		t.Fatalf("auth = %q", resp)
	}
	for i := 0; i < clients; i++ {
		ip := net.IPv4(127, 0, 0, byte(10+i)).String()
		want := fmt.Sprintf("%s-%d", ip, rounds-1)
		if resp, _ := mgr.do("get " + ip + ":city"); resp != want {
			t.Errorf("manager get %s:city = %q, want %q", ip, resp, want)
		}
	}

	// The manager's own namespace was never written.
	if resp, _ := mgr.do("get city"); resp != "<blank>" {
		t.Errorf("manager own get = %q, want <blank>", resp)
	}
}

// Two connections from one identity share a namespace but not a role.
func TestSameIdentity_SharedNamespace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	reg, addr := startServer(t)
	local := net.IPv4(127, 0, 0, 1)

	a, err := dialFrom(context.Background(), local, addr)
	if err != nil {
		t.Fatal(err)
	}
	defer a.conn.Close()
	b, err := dialFrom(context.Background(), local, addr)
	if err != nil {
		t.Fatal(err)
	}
	defer b.conn.Close()

	if resp, _ := a.do("put lang go"); resp != "OK" {
		t.Fatalf("put = %q", resp)
	}
	if resp, _ := b.do("get lang"); resp != "go" {
		t.Errorf("second connection get = %q, want go", resp)
	}

	if resp, _ := a.do("auth admin123"); !strings.HasPrefix(resp, "ROLE_UPDATED") {
		t.Fatalf("auth = %q", resp)
	}
	// b is still a Guest: the qualified key is read literally from its own namespace.
	if resp, _ := b.do("get 127.0.0.1:lang"); resp != "<blank>" {
		t.Errorf("guest qualified get = %q, want <blank>", resp)
	}
	if resp, _ := a.do("get 127.0.0.1:lang"); resp != "go" {
		t.Errorf("manager qualified get = %q, want go", resp)
	}

	if _, ok := reg.Lookup(domain.Identity("127.0.0.1")); !ok {
		t.Error("namespace for 127.0.0.1 missing")
	}
	if reg.Len() != 1 {
		t.Errorf("namespaces = %d, want 1", reg.Len())
	}
}
