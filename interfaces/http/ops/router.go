package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"todo-api/application/ports"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// NewRouter serves /metrics from registry and /healthz backed by store.
// Either may be nil.
func NewRouter(registry *prometheus.Registry, store ports.HealthChecker, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	if registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			ErrorLog: zap.NewStdLog(logger),
		})).Methods(http.MethodGet)
	}

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, map[string]string{"status": "ok"}

		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.Warn("Store health check failed", zap.Error(err))
				status, body = http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}).Methods(http.MethodGet)

	return router
}
