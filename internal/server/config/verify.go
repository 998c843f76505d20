package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyAuth(&cfg.Auth); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	kv := cfg.KV
	if kv.Port < 1 || kv.Port > 65535 {
		return fmt.Errorf("server.kv.port must be between 1 and 65535, got %d", kv.Port)
	}
	if kv.Host != "" && net.ParseIP(kv.Host) == nil && strings.ContainsAny(kv.Host, " /") {
		return fmt.Errorf("server.kv.host is not a valid host: %q", kv.Host)
	}
	if kv.Backlog < 1 {
		return errors.New("server.kv.backlog must be at least 1")
	}
	if kv.MaxConnections < 0 {
		return errors.New("server.kv.max_connections must not be negative")
	}
	if kv.RateLimit < 0 {
		return errors.New("server.kv.rate_limit must not be negative")
	}

	if cfg.HTTP.Enabled {
		if cfg.HTTP.Addr == "" {
			return errors.New("server.http.addr is required when server.http.enabled is true")
		}
		if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
			return fmt.Errorf("server.http.addr: %w", err)
		}
	}

	tls := cfg.HTTP.TLS
	if (tls.CertFile == "") != (tls.KeyFile == "") {
		return errors.New("server.http.tls.cert_file and server.http.tls.key_file must be set together")
	}
	if tls.ClientCAFile != "" && tls.CertFile == "" {
		return errors.New("server.http.tls.client_ca_file requires cert_file and key_file")
	}
	return nil
}

func verifyAuth(cfg *AuthSection) error {
	if cfg.Secret == "" {
		return errors.New("auth.secret is required")
	}
	if strings.ContainsAny(cfg.Secret, " \t\r\n") {
		return errors.New("auth.secret must not contain whitespace")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Format)
	}
	return nil
}
