package kvserver

import (
	"unicode/utf8"

	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/internal/core/service"
	"github.com/yndnr/nskv/internal/storage/memory"
	"github.com/yndnr/nskv/internal/telemetry/logger"
	"github.com/yndnr/nskv/internal/telemetry/metric"
)

// Store is the namespace registry used by the dispatcher.
type Store interface {
	GetOrCreate(id domain.Identity) *memory.Namespace
	Lookup(id domain.Identity) (*memory.Namespace, bool)
}

// Verifier checks AUTH tokens.
type Verifier interface {
	Verify(token string) bool
}

// CommandHandler interprets parsed commands against a session and the
// namespace registry.
type CommandHandler struct {
	store   Store
	auth    Verifier
	limiter *service.RateLimiterRegistry
	metrics *metric.Registry
	logger  logger.Logger
}

// HandlerOption configures a CommandHandler.
type HandlerOption func(*CommandHandler)

// WithRateLimiter enables per-identity rate limiting.
func WithRateLimiter(rl *service.RateLimiterRegistry) HandlerOption {
	return func(h *CommandHandler) {
		h.limiter = rl
	}
}

// WithMetrics records command outcomes in m.
func WithMetrics(m *metric.Registry) HandlerOption {
	return func(h *CommandHandler) {
		h.metrics = m
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) HandlerOption {
	return func(h *CommandHandler) {
		h.logger = l
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store, auth Verifier, opts ...HandlerOption) *CommandHandler {
	h := &CommandHandler{
		store:  store,
		auth:   auth,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle executes cmd for sess and returns the response line without its
// terminator.
func (h *CommandHandler) Handle(sess *Session, cmd Command) string {
	if !h.limiter.Allow(sess.Identity) {
		h.metrics.ObserveCommand(metricLabel(cmd.Name), metric.ResultRateLimited)
		h.reject(sess, domain.ErrRateLimited)
		return FormatError(domain.ErrRateLimited)
	}

	switch cmd.Name {
	case CmdPut:
		return h.handlePut(sess, cmd.Args)
	case CmdGet:
		return h.handleGet(sess, cmd.Args)
	case CmdAuth:
		return h.handleAuth(sess, cmd.Args)
	default:
		h.metrics.ObserveCommand("other", metric.ResultUnknown)
		h.reject(sess, domain.ErrUnknownCommand.WithDetails(truncate(cmd.Name, maxLoggedName)))
		return RespUnknown
	}
}

func (h *CommandHandler) handlePut(sess *Session, args []string) string {
	if len(args) < 2 {
		h.metrics.ObserveCommand(CmdPut, metric.ResultMalformed)
		h.reject(sess, domain.ErrInvalidPut)
		return FormatError(domain.ErrInvalidPut)
	}

	// Writes always land in the caller's own namespace, whatever the role.
	h.store.GetOrCreate(sess.Identity).Put(args[0], args[1])
	h.metrics.ObserveCommand(CmdPut, metric.ResultOK)
	return RespOK
}

func (h *CommandHandler) handleGet(sess *Session, args []string) string {
	if len(args) < 1 {
		h.metrics.ObserveCommand(CmdGet, metric.ResultMalformed)
		h.reject(sess, domain.ErrInvalidGet)
		return FormatError(domain.ErrInvalidGet)
	}
	key := args[0]

	// A Guest's "a:b" is a literal key in its own namespace.
	if sess.Role().IsManager() {
		if qk, ok := domain.ParseQualifiedKey(key); ok {
			h.metrics.ObserveCommand(CmdGet, metric.ResultOK)
			ns, found := h.store.Lookup(qk.Target)
			if !found {
				return RespBlank
			}
			return FormatValue(ns.Get(qk.Key))
		}
	}

	h.metrics.ObserveCommand(CmdGet, metric.ResultOK)
	return FormatValue(h.store.GetOrCreate(sess.Identity).Get(key))
}

func (h *CommandHandler) handleAuth(sess *Session, args []string) string {
	if len(args) < 1 || !h.auth.Verify(args[0]) {
		h.metrics.ObserveCommand(CmdAuth, metric.ResultDenied)
		h.metrics.ObserveAuth(false)
		h.logger.Warn("authentication failed",
			"identity", sess.Identity.String(),
			"conn_id", sess.ID,
			"role", sess.Role().String(),
			"error_code", domain.GetErrorCode(domain.ErrAuthFailed))
		return RespAuthFailed
	}

	if !sess.Role().IsManager() {
		h.logger.Info("session elevated to manager",
			"identity", sess.Identity.String(),
			"conn_id", sess.ID)
	}
	sess.elevate()
	h.metrics.ObserveCommand(CmdAuth, metric.ResultOK)
	h.metrics.ObserveAuth(true)
	return RespRoleUpdate
}

// maxLoggedName caps how much of an unknown command name reaches the log.
const maxLoggedName = 32

// reject logs a command refused with a protocol-level error.
func (h *CommandHandler) reject(sess *Session, err error) {
	h.logger.Debug("command rejected",
		"identity", sess.Identity.String(),
		"conn_id", sess.ID,
		"error_code", domain.GetErrorCode(err),
		"error", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// metricLabel bounds label cardinality to the known command names.
func metricLabel(name string) string {
	switch name {
	case CmdPut, CmdGet, CmdAuth:
		return name
	default:
		return "other"
	}
}
