package domain

import (
	"net"
	"net/netip"
	"strings"
)

// Identity names a namespace owner. It is the textual form of a peer's
// IP address with the port removed.
type Identity string

// String returns the identity as a plain string.
func (id Identity) String() string {
	return string(id)
}

// IdentityFromAddr derives the identity of a connected peer.
//
// IPv4-mapped IPv6 addresses collapse to their IPv4 form so that a client
// reaching a dual-stack listener keeps the same namespace as over IPv4.
// Zones are dropped.
func IdentityFromAddr(addr net.Addr) Identity {
	if addr == nil {
		return ""
	}

	switch a := addr.(type) {
	case *net.TCPAddr:
		return identityFromIP(a.IP)
	case *net.UDPAddr:
		return identityFromIP(a.IP)
	}

	return IdentityFromString(addr.String())
}

// IdentityFromString derives an identity from a "host:port" or bare host
// string, as found in http.Request.RemoteAddr.
func IdentityFromString(s string) Identity {
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if ap, err := netip.ParseAddr(host); err == nil {
		return Identity(ap.Unmap().WithZone("").String())
	}
	return Identity(host)
}

func identityFromIP(ip net.IP) Identity {
	if ip == nil {
		return ""
	}
	if v4 := ip.To4(); v4 != nil {
		return Identity(v4.String())
	}
	return Identity(ip.String())
}

// QualifiedKey is a key of the form "identity:key" addressing another
// identity's namespace.
type QualifiedKey struct {
	Target Identity
	Key    string
}

// ParseQualifiedKey splits raw at its first ':'. It reports false when raw
// carries no separator. IPv6 targets cannot be expressed this way because
// their textual form contains ':' itself.
func ParseQualifiedKey(raw string) (QualifiedKey, bool) {
	target, key, ok := strings.Cut(raw, ":")
	if !ok {
		return QualifiedKey{}, false
	}
	return QualifiedKey{Target: Identity(target), Key: key}, true
}
