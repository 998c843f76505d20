package domain

// Role is the privilege level of a session.
type Role int

const (
	// RoleGuest reads and writes only its own namespace.
	RoleGuest Role = iota
	// RoleManager may additionally read foreign namespaces through
	// qualified keys.
	RoleManager
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleManager:
		return "manager"
	default:
		return "unknown"
	}
}

// IsManager reports whether the role unlocks qualified lookups.
func (r Role) IsManager() bool {
	return r == RoleManager
}

// Elevate returns the role after a successful authentication.
// There is no downgrade path.
func (r Role) Elevate() Role {
	return RoleManager
}
