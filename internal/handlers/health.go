package handlers

import (
	"context"
	"net/http"
)

// HealthHandler reports whether the configured storage engine can serve requests.
type HealthHandler struct {
	Storage string
	// Check probes the storage engine. Nil means always healthy.
	Check func(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Check != nil {
		if err := h.Check(ctx); err != nil {
			respondJSON(ctx, w, http.StatusServiceUnavailable, healthResponse{
				Status: "unavailable", Storage: h.Storage, Error: err.Error(),
			})
			return
		}
	}
	respondJSON(ctx, w, http.StatusOK, healthResponse{Status: "ok", Storage: h.Storage})
}
