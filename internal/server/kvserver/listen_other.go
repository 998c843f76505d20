//go:build !unix

package kvserver

import (
	"context"
	"net"
)

// listenTCP falls back to the standard listener; the backlog is left to
// the platform default.
func listenTCP(address string, _ int) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(context.Background(), "tcp", address)
}
