package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/internal/storage/memory"
	"github.com/yndnr/nskv/internal/telemetry/logger"
	"github.com/yndnr/nskv/internal/telemetry/metric"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// HeaderAuthToken carries the manager token on foreign reads.
const HeaderAuthToken = "X-Auth-Token"

// Store is the namespace registry used by the handlers.
type Store interface {
	GetOrCreate(id domain.Identity) *memory.Namespace
	Lookup(id domain.Identity) (*memory.Namespace, bool)
}

// Authenticator verifies the shared secret and issues the manager token.
type Authenticator interface {
	Verify(secret string) bool
	ManagerToken() string
	VerifyManagerToken(token string) bool
}

// Handler routes API requests to the namespace registry.
type Handler struct {
	store   Store
	auth    Authenticator
	metrics *metric.Registry
	logger  logger.Logger
	mux     *http.ServeMux
}

// New creates a new Handler.
func New(store Store, auth Authenticator, m *metric.Registry, l logger.Logger) *Handler {
	if l == nil {
		l = logger.Default()
	}
	h := &Handler{
		store:   store,
		auth:    auth,
		metrics: m,
		logger:  l,
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.Handle("GET /metrics", h.metrics.Handler())

	h.mux.HandleFunc("POST /api/auth", h.handleAuth)
	h.mux.HandleFunc("POST /api/put", h.handlePut)
	h.mux.HandleFunc("GET /api/get", h.handleGet)
}

// writeJSON writes v as a JSON response body.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// ClientIdentity returns the namespace identity of the request peer.
// Forwarding headers are ignored; they are client controlled.
func ClientIdentity(r *http.Request) domain.Identity {
	return domain.IdentityFromString(r.RemoteAddr)
}
