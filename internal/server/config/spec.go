package config

import (
	"net"
	"strconv"
)

// ServerConfig is the root configuration for nskv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Auth   AuthSection   `koanf:"auth"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	KV   KVConfig   `koanf:"kv"`
	HTTP HTTPConfig `koanf:"http"`
}

// KVConfig configures the line protocol listener.
type KVConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Backlog is the listen queue length.
	Backlog int `koanf:"backlog"`

	// MaxConnections caps concurrently served connections. 0 = unbounded.
	MaxConnections int `koanf:"max_connections"`

	// RateLimit is the number of commands per second per identity. 0 = disabled.
	RateLimit int `koanf:"rate_limit"`
}

// Addr returns the host:port listen address.
func (c KVConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// HTTPConfig configures the optional HTTP surface (/api, /metrics, /health).
type HTTPConfig struct {
	Enabled bool      `koanf:"enabled"`
	Addr    string    `koanf:"addr"`
	TLS     TLSConfig `koanf:"tls"`
}

// TLSConfig enables HTTPS on the HTTP surface when CertFile is set.
type TLSConfig struct {
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
	// ClientCAFile requires client certificates signed by these CAs.
	ClientCAFile string `koanf:"client_ca_file"`
}

// Enabled reports whether TLS material is configured.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != ""
}

// AuthSection configures the AUTH command.
type AuthSection struct {
	// Secret is the shared token that elevates a session to Manager.
	Secret string `koanf:"secret"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
