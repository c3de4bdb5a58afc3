package handlers

import (
	"context"
	"net/http"
	"time"

	"todo-api/application/ports"
	"todo-api/pkg/common"

	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// HealthHandler reports process liveness and store readiness
type HealthHandler struct {
	store     ports.HealthChecker
	responder *common.Responder
	logger    *zap.Logger
	version   string
}

// NewHealthHandler creates a health handler; store may be nil
func NewHealthHandler(store ports.HealthChecker, responder *common.Responder, logger *zap.Logger, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		responder: responder,
		logger:    logger,
		version:   version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.responder.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.responder.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		h.responder.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"store":  "unreachable",
		})
		return
	}

	h.responder.JSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"store":  "ok",
	})
}
