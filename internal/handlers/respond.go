package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/repositories"
	"github.com/filmorate/backend/internal/services"
)

type errorResponse struct {
	Error       string   `json:"error"`
	FieldErrors []string `json:"fieldErrors,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError maps service and repository errors onto HTTP statuses.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, repositories.ErrAlreadyExists):
		respondJSON(ctx, w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrSelfFriendship):
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logging.FromContext(ctx).Error("request handling failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func respondValidation(ctx context.Context, w http.ResponseWriter, fieldErrors []string) {
	respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "validation failed", FieldErrors: fieldErrors})
}

func respondBadRequest(ctx context.Context, w http.ResponseWriter, message string) {
	respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: message})
}

// pathID reads a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
