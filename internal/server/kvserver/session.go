package kvserver

import (
	"net"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/nskv/internal/core/domain"
)

// Session holds the state of one client connection. It is owned by the
// goroutine serving the connection and never shared.
type Session struct {
	// ID correlates log records of one connection.
	ID string
	// Identity is derived once from the peer address at accept time.
	Identity domain.Identity

	role domain.Role
}

// NewSession creates a Guest session for a peer address.
func NewSession(remote net.Addr) *Session {
	return &Session{
		ID:       ulid.Make().String(),
		Identity: domain.IdentityFromAddr(remote),
		role:     domain.RoleGuest,
	}
}

// Role returns the current role.
func (s *Session) Role() domain.Role {
	return s.role
}

// elevate moves the session to the Manager role.
func (s *Session) elevate() {
	s.role = s.role.Elevate()
}
