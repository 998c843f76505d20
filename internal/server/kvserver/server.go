package kvserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/yndnr/nskv/internal/telemetry/logger"
	"github.com/yndnr/nskv/internal/telemetry/metric"
)

// Config holds the protocol server configuration.
type Config struct {
	// Address is the host:port to bind.
	Address string
	// Backlog is the listen queue length (default: 10).
	Backlog int
	// MaxConnections caps concurrently served connections. 0 means unlimited.
	MaxConnections int
	// MaxLineLen limits request line length (default: MaxLineLen).
	MaxLineLen int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:    "0.0.0.0:4000",
		Backlog:    10,
		MaxLineLen: MaxLineLen,
	}
}

// Server accepts protocol connections and serves each on its own goroutine.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	logger  logger.Logger
	metrics *metric.Registry

	ln      net.Listener
	slots   *semaphore.Weighted
	running atomic.Bool
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the server logger.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithServerMetrics records connection metrics in m.
func WithServerMetrics(m *metric.Registry) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new protocol server.
func New(cfg *Config, handler *CommandHandler, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = 10
	}
	if cfg.MaxLineLen <= 0 {
		cfg.MaxLineLen = MaxLineLen
	}

	s := &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.MaxConnections > 0 {
		s.slots = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}
	return s
}

// Start binds the listener and starts the accept loop in the background.
// Bind errors are returned to the caller.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("kvserver: already started")
	}

	ln, err := listenTCP(s.cfg.Address, s.cfg.Backlog)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	s.ln = ln

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stop = cancel

	s.logger.Info("protocol server listening",
		"address", ln.Addr().String(),
		"backlog", s.cfg.Backlog,
		"max_connections", s.cfg.MaxConnections)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(loopCtx, ln); err != nil {
			s.logger.Error("accept loop stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown closes the listener and waits for the accept loop to exit.
// Connections already being served are left to finish on their own.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.stop()
	err := s.ln.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		if s.slots != nil {
			if err := s.slots.Acquire(ctx, 1); err != nil {
				return nil
			}
		}

		c, err := ln.Accept()
		if err != nil {
			s.release()
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn("temporary accept error", "error", err)
				continue
			}
			return err
		}

		go func() {
			defer s.release()
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) release() {
	if s.slots != nil {
		s.slots.Release(1)
	}
}

func (s *Server) serveConn(ctx context.Context, c net.Conn) {
	sess := NewSession(c.RemoteAddr())
	log := s.logger.WithContext(ctx).With(
		"conn_id", sess.ID,
		"identity", sess.Identity.String(),
		"remote", c.RemoteAddr().String())

	s.metrics.ConnOpened()
	log.Info("client connected")

	defer func() {
		_ = c.Close()
		s.metrics.ConnClosed()
		log.Info("client disconnected", "role", sess.Role().String())
	}()
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while serving connection",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()

	br := bufio.NewReader(c)
	bw := bufio.NewWriter(c)

	for {
		line, err := ReadLine(br, s.cfg.MaxLineLen)
		if line != "" {
			if cmd, ok := ParseLine(line); ok {
				resp := s.handler.Handle(sess, cmd)
				log.Debug("command handled", "command", metricLabel(cmd.Name), "role", sess.Role().String())
				if werr := WriteLine(bw, resp); werr != nil {
					return
				}
				if werr := bw.Flush(); werr != nil {
					log.Debug("write failed", "error", werr)
					return
				}
			}
		}
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
		case errors.Is(err, ErrLineTooLong):
			log.Warn("request line too long", "limit", s.cfg.MaxLineLen)
			_ = WriteLine(bw, errorPrefix+"line too long")
			_ = bw.Flush()
		default:
			log.Debug("connection read error", "error", err)
		}
		return
	}
}
