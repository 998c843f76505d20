package tlsroots

import (
	"crypto/tls"
	"log/slog"
)

// Options describes the TLS material for a server.
type Options struct {
	CertFile string
	KeyFile  string
	// ClientCAFile enables mutual TLS when set.
	ClientCAFile string
}

// ServerConfig builds a server tls.Config backed by a Reloader. The
// caller owns the Reloader and should Stop it on shutdown.
func ServerConfig(opts Options, logger *slog.Logger) (*tls.Config, *Reloader, error) {
	var ropts []ReloaderOption
	if logger != nil {
		ropts = append(ropts, WithLogger(logger))
	}
	reloader, err := NewReloader(opts.CertFile, opts.KeyFile, ropts...)
	if err != nil {
		return nil, nil, err
	}

	cfg := &tls.Config{
		GetCertificate: reloader.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}

	if opts.ClientCAFile != "" {
		pool, err := LoadCAPool(opts.ClientCAFile)
		if err != nil {
			return nil, nil, err
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, reloader, nil
}
