package connection

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

// echoServer replies "ECHO <line>" to every request line.
func echoServer(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				sc := bufio.NewScanner(c)
				for sc.Scan() {
					if _, err := c.Write([]byte("ECHO " + sc.Text() + "\r\n")); err != nil {
						return
					}
				}
			}(conn)
		}
	}()
	return ln
}

func splitAddr(t *testing.T, addr net.Addr) (string, string) {
	t.Helper()
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		t.Fatalf("split %s: %v", addr, err)
	}
	return host, port
}

func TestLineClient_Execute(t *testing.T) {
	ln := echoServer(t)
	host, port := splitAddr(t, ln.Addr())

	c := NewLineClient(host, port, 5*time.Second)
	defer c.Close()

	for _, line := range []string{"put city Kolkata", "get city"} {
		got, err := c.Execute(context.Background(), line)
		if err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
		if got != "ECHO "+line {
			t.Errorf("Execute(%q) = %q", line, got)
		}
	}
}

func TestLineClient_ConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port := splitAddr(t, ln.Addr())
	ln.Close()

	c := NewLineClient(host, port, time.Second)
	_, err = c.Execute(context.Background(), "get k")

	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConnectError", err)
	}
	if !ce.Refused() {
		t.Errorf("Refused() = false for %v", ce.Err)
	}
	if !strings.Contains(ce.Error(), ce.Address) {
		t.Errorf("Error() = %q, missing address", ce.Error())
	}
}

func TestLineClient_ServerClosed(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	host, port := splitAddr(t, ln.Addr())
	c := NewLineClient(host, port, time.Second)
	defer c.Close()

	if _, err := c.Execute(context.Background(), "get k"); err == nil {
		t.Error("Execute() against a closed connection should fail")
	}
}

func TestLineClient_CloseWithoutConnect(t *testing.T) {
	c := NewLineClient("127.0.0.1", "1", 0)
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if c.Address() != "127.0.0.1:1" {
		t.Errorf("Address() = %q", c.Address())
	}
}
