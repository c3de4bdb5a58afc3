package handlers

import (
	"net/http"

	"todo-api/pkg/common"

	"go.uber.org/zap"
)

// IndexHandler serves the liveness ping
type IndexHandler struct {
	responder *common.Responder
	logger    *zap.Logger
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(responder *common.Responder, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{responder: responder, logger: logger}
}

// Ping answers any method on /ping with "pong"
func (h *IndexHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	h.logger.Info("api.controller.index.ping", zap.String("result", "send result ping"))
	h.responder.Text(w, http.StatusOK, "pong")
}
