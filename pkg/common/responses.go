package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Responder writes successful responses. Errors go through errors.ErrorHandler.
type Responder struct {
	logger *zap.Logger
}

// NewResponder creates a new responder
func NewResponder(logger *zap.Logger) *Responder {
	return &Responder{logger: logger}
}

// JSON sends data as the JSON body
func (r *Responder) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		r.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Text sends a plain text body
func (r *Responder) Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(body)); err != nil {
		r.logger.Debug("Failed to write response", zap.Error(err))
	}
}
