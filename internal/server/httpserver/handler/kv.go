package handler

import (
	"errors"
	"net/http"

	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/internal/telemetry/logger"
)

const blank = "<blank>"

// handleAuth handles POST /api/auth.
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rejectBody(r, err)
		h.writeJSON(w, http.StatusBadRequest, StatusResponse{Message: "Invalid JSON body"})
		return
	}

	id := ClientIdentity(r)
	log := logger.L(r.Context()).With("identity", id.String())

	if !h.auth.Verify(req.Password) {
		h.metrics.ObserveAuth(false)
		log.Warn("http authentication failed")
		h.writeJSON(w, http.StatusUnauthorized, AuthResponse{
			Status:  StatusFail,
			Message: "Incorrect Password",
		})
		return
	}

	h.metrics.ObserveAuth(true)
	log.Info("manager token issued")
	h.writeJSON(w, http.StatusOK, AuthResponse{
		Status:  StatusSuccess,
		Token:   h.auth.ManagerToken(),
		Message: "You are now a Manager",
	})
}

// handlePut handles POST /api/put.
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	var req PutRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		h.rejectBody(r, err)
	}
	if err != nil || req.Key == "" || req.Value == "" {
		h.writeJSON(w, http.StatusBadRequest, StatusResponse{Message: "Missing data"})
		return
	}

	id := ClientIdentity(r)
	h.store.GetOrCreate(id).Put(req.Key, req.Value)
	logger.L(r.Context()).Debug("http put", "identity", id.String(), "key", req.Key)

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status:  StatusOK,
		Message: "Stored " + req.Key,
	})
}

// handleGet handles GET /api/get?key=K[&target=ID].
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	if key == "" {
		h.writeJSON(w, http.StatusBadRequest, StatusResponse{Message: "Key is required"})
		return
	}

	target := q.Get("target")
	if target == "" {
		target = q.Get("targetIp")
	}

	if target == "" {
		value, ok := h.store.GetOrCreate(ClientIdentity(r)).Get(key)
		h.writeJSON(w, http.StatusOK, GetResponse{Value: render(value, ok)})
		return
	}

	if !h.auth.VerifyManagerToken(r.Header.Get(HeaderAuthToken)) {
		h.writeJSON(w, http.StatusForbidden, GetResponse{
			Value: "ACCESS DENIED: " + domain.ErrManagerRequired.Message,
		})
		return
	}

	targetID := domain.IdentityFromString(target)
	logger.L(r.Context()).Info("manager foreign read",
		"identity", ClientIdentity(r).String(),
		"target", targetID.String())

	ns, found := h.store.Lookup(targetID)
	if !found {
		h.writeJSON(w, http.StatusOK, GetResponse{Value: blank})
		return
	}
	value, ok := ns.Get(key)
	h.writeJSON(w, http.StatusOK, GetResponse{Value: render(value, ok)})
}

// rejectBody logs a request whose body could not be decoded.
func (h *Handler) rejectBody(r *http.Request, cause error) {
	err := domain.ErrInvalidBody.WithCause(cause)
	h.logger.Debug("request body rejected",
		"path", r.URL.Path,
		"identity", ClientIdentity(r).String(),
		"error_code", domain.GetErrorCode(err),
		"error", err,
		"cause", errors.Unwrap(err))
}

func render(value string, ok bool) string {
	if !ok || value == "" {
		return blank
	}
	return value
}
