package handler

import "net/http"

type counter interface {
	Len() int
}

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if c, ok := h.store.(counter); ok {
		resp.Namespaces = c.Len()
	}
	h.writeJSON(w, http.StatusOK, resp)
}
