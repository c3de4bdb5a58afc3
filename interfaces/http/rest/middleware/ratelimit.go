package middleware

import (
	"net"
	"net/http"

	"todo-api/pkg/auth"
	"todo-api/pkg/errors"

	"go.uber.org/zap"
)

// RateLimit rejects clients that exceed their per-IP token bucket with a 429
func RateLimit(limiter auth.RateLimiter, errHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + getClientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// fail open
				logger.Warn("Rate limiter failed", zap.Error(err), zap.String("key", key))
				allowed = true
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				errHandler.Handle(w, r, errors.NewRateLimitError("rate limit exceeded").
					WithMethodPath("api.middleware.rateLimit"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host of r.RemoteAddr. Forwarding headers are only
// honoured through chi's RealIP, which the router installs for trusted proxies.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
