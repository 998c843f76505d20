package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"
)

// ConnectError reports that the server could not be reached.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Refused reports whether the server actively refused the connection.
func (e *ConnectError) Refused() bool {
	return errors.Is(e.Err, syscall.ECONNREFUSED)
}

// LineClient speaks the line protocol over one TCP connection.
type LineClient struct {
	address string
	timeout time.Duration
	conn    net.Conn
	br      *bufio.Reader
}

// NewLineClient creates a client for host:port. A zero timeout disables
// dial and I/O deadlines.
func NewLineClient(host, port string, timeout time.Duration) *LineClient {
	return &LineClient{
		address: net.JoinHostPort(host, port),
		timeout: timeout,
	}
}

// Address returns the server address.
func (c *LineClient) Address() string {
	return c.address
}

// Connect dials the server.
func (c *LineClient) Connect(ctx context.Context) error {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return &ConnectError{Address: c.address, Err: err}
	}
	c.conn = conn
	c.br = bufio.NewReader(conn)
	return nil
}

// Close closes the connection.
func (c *LineClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Execute sends one request line and returns the response line without
// its terminator.
func (c *LineClient) Execute(ctx context.Context, line string) (string, error) {
	if c.conn == nil {
		if err := c.Connect(ctx); err != nil {
			return "", err
		}
	}

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return "", err
		}
	}

	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}

	resp, err := c.br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return strings.TrimRight(resp, "\r\n"), nil
}
