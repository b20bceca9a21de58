package handlers

import (
	"context"
	"net/http"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	storage HealthChecker
}

func NewHealthHandler(storage HealthChecker) *HealthHandler {
	return &HealthHandler{storage: storage}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.HealthCheck(r.Context()); err != nil {
		respondError(w, err, "health_check")
		return
	}
	responseWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
