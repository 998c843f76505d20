package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/nskv/internal/core/service"
	"github.com/yndnr/nskv/internal/infra/buildinfo"
	"github.com/yndnr/nskv/internal/infra/confloader"
	"github.com/yndnr/nskv/internal/infra/shutdown"
	"github.com/yndnr/nskv/internal/infra/tlsroots"
	"github.com/yndnr/nskv/internal/server/config"
	"github.com/yndnr/nskv/internal/server/httpserver"
	"github.com/yndnr/nskv/internal/server/kvserver"
	"github.com/yndnr/nskv/internal/storage/memory"
	"github.com/yndnr/nskv/internal/telemetry/logger"
	"github.com/yndnr/nskv/internal/telemetry/metric"
)

const (
	shutdownTimeout        = 10 * time.Second
	limiterJanitorInterval = time.Minute
)

// run is the server lifecycle: load, start, wait for a signal, stop.
func run(ctx context.Context, configFile string, overrides map[string]any) error {
	cfg, loader, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting nskv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config_file", configFile,
		"config", config.Sanitize(cfg))

	app, err := newServerApp(cfg, log)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	if configFile != "" {
		stopWatch, err := app.WatchConfig(loader, overrides)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			defer stopWatch()
		}
	}

	sh := shutdown.NewHandler(shutdownTimeout)
	app.RegisterShutdown(sh)

	log.Info("server started, press Ctrl+C to stop")
	if err := sh.WaitContext(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}

// loadConfig layers defaults, file, environment and flag overrides.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, *confloader.Loader, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg, overrides); err != nil {
		return nil, nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, loader, nil
}

// initLogger creates the process logger and installs it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// serverApp wires the shared registry into both listeners.
type serverApp struct {
	cfg *config.ServerConfig
	log logger.Logger

	registry *memory.Registry
	auth     *service.Authenticator
	limiter  *service.RateLimiterRegistry
	metrics  *metric.Registry

	kv    *kvserver.Server
	http  *httpserver.Server
	certs *tlsroots.Reloader

	stopJanitor context.CancelFunc
}

func newServerApp(cfg *config.ServerConfig, log logger.Logger) (*serverApp, error) {
	auth, err := service.NewAuthenticator(cfg.Auth.Secret)
	if err != nil {
		return nil, fmt.Errorf("init authenticator: %w", err)
	}

	a := &serverApp{
		cfg:      cfg,
		log:      log,
		registry: memory.NewRegistry(),
		auth:     auth,
		limiter:  service.NewRateLimiterRegistry(cfg.Server.KV.RateLimit),
		metrics:  metric.NewRegistry(),
	}
	a.metrics.RegisterNamespaceCount(a.registry.Len)

	handler := kvserver.NewCommandHandler(a.registry, a.auth,
		kvserver.WithRateLimiter(a.limiter),
		kvserver.WithMetrics(a.metrics),
		kvserver.WithLogger(log))
	a.kv = kvserver.New(&kvserver.Config{
		Address:        cfg.Server.KV.Addr(),
		Backlog:        cfg.Server.KV.Backlog,
		MaxConnections: cfg.Server.KV.MaxConnections,
	}, handler,
		kvserver.WithServerLogger(log),
		kvserver.WithServerMetrics(a.metrics))

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Store:       a.registry,
			Auth:        a.auth,
			Metrics:     a.metrics,
			Logger:      log,
			RateLimiter: a.limiter,
		})

		var opts []httpserver.Option
		if tc := cfg.Server.HTTP.TLS; tc.Enabled() {
			tlsCfg, certs, err := tlsroots.ServerConfig(tlsroots.Options{
				CertFile:     tc.CertFile,
				KeyFile:      tc.KeyFile,
				ClientCAFile: tc.ClientCAFile,
			}, log.Slog())
			if err != nil {
				return nil, fmt.Errorf("init http tls: %w", err)
			}
			a.certs = certs
			opts = append(opts, httpserver.WithTLSConfig(tlsCfg))
		}
		a.http = httpserver.New(cfg.Server.HTTP.Addr, router, opts...)
	}
	return a, nil
}

// Start binds every enabled listener. A bind failure stops the ones
// already started.
func (a *serverApp) Start(ctx context.Context) error {
	if err := a.kv.Start(ctx); err != nil {
		return err
	}

	if a.http != nil {
		err := a.http.Start(func(err error) {
			a.log.Error("HTTP server error", "error", err)
		})
		if err != nil {
			_ = a.kv.Shutdown(context.Background())
			return fmt.Errorf("listen %s: %w", a.cfg.Server.HTTP.Addr, err)
		}
		if a.certs != nil {
			a.certs.StartAsync()
		}
		a.log.Info("HTTP server listening", "address", a.http.Addr().String(), "tls", a.http.TLS())
	}

	if a.limiter.Enabled() {
		jctx, cancel := context.WithCancel(context.Background())
		a.stopJanitor = cancel
		go a.limiter.RunJanitor(jctx, limiterJanitorInterval, service.DefaultLimiterIdle)
	}
	return nil
}

// RegisterShutdown adds the listener shutdown hooks to h.
func (a *serverApp) RegisterShutdown(h *shutdown.Handler) {
	h.OnShutdown(func(ctx context.Context) error {
		if a.stopJanitor != nil {
			a.stopJanitor()
		}
		a.log.Info("closing protocol listener")
		return a.kv.Shutdown(ctx)
	})
	if a.http != nil {
		h.OnShutdown(func(ctx context.Context) error {
			a.log.Info("shutting down HTTP server")
			if a.certs != nil {
				a.certs.Stop()
			}
			return a.http.Shutdown(ctx)
		})
	}
}

// WatchConfig reloads the config file on change and applies the
// settings that can change at runtime.
func (a *serverApp) WatchConfig(loader *confloader.Loader, overrides map[string]any) (func(), error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(a.log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(loader.FilePath()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		next := config.Default()
		if err := loader.Reload(next, overrides); err != nil {
			a.log.Error("config reload failed", "path", path, "error", err)
			return
		}
		if err := config.Verify(next); err != nil {
			a.log.Error("reloaded config rejected", "path", path, "error", err)
			return
		}
		if err := a.Apply(next); err != nil {
			a.log.Error("config apply failed", "error", err)
		}
	})
	w.StartAsync()

	return func() { _ = w.Stop() }, nil
}

// Apply updates the runtime-tunable settings from cfg. Listener and
// limit settings need a restart and only produce a warning.
func (a *serverApp) Apply(cfg *config.ServerConfig) error {
	var errs []error

	if cfg.Log.Level != logger.GetLevel() {
		logger.SetLevel(cfg.Log.Level)
		a.log.Info("log level changed", "level", cfg.Log.Level)
	}

	if cfg.Auth.Secret != a.cfg.Auth.Secret {
		if err := a.auth.SetSecret(cfg.Auth.Secret); err != nil {
			errs = append(errs, fmt.Errorf("update secret: %w", err))
		} else {
			a.log.Info("auth secret rotated")
		}
	}

	if cfg.Server != a.cfg.Server {
		a.log.Warn("server settings changed; restart required to apply")
	}

	// Keep the listener settings that are still in effect.
	applied := *cfg
	applied.Server = a.cfg.Server
	a.cfg = &applied
	return errors.Join(errs...)
}
