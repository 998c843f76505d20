package httpserver

import (
	"net/http"

	"github.com/yndnr/nskv/internal/core/service"
	"github.com/yndnr/nskv/internal/server/httpserver/handler"
	"github.com/yndnr/nskv/internal/telemetry/logger"
	"github.com/yndnr/nskv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Store is the shared namespace registry.
	Store handler.Store

	// Auth verifies the secret and issues manager tokens.
	Auth handler.Authenticator

	// Metrics records request counters and serves /metrics.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger

	// RateLimiter limits API requests per identity. Nil disables it.
	RateLimiter *service.RateLimiterRegistry
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	h := handler.New(cfg.Store, cfg.Auth, cfg.Metrics, log)

	// Order: RequestID -> Recover -> AccessLog -> [RateLimit] -> Handler
	base := []Middleware{
		RequestID(log),
		Recover(),
		AccessLog(cfg.Metrics),
	}
	api := append(base[:len(base):len(base)], RateLimit(cfg.RateLimiter))

	mux := http.NewServeMux()

	// Operational endpoints are never rate limited.
	mux.Handle("GET /health", Chain(h, base...))
	mux.Handle("GET /metrics", Chain(h, base...))

	mux.Handle("POST /api/auth", Chain(h, api...))
	mux.Handle("POST /api/put", Chain(h, api...))
	mux.Handle("GET /api/get", Chain(h, api...))

	return mux
}
