package middleware

import (
	"net/http"
	"strings"

	"todo-api/pkg/auth"
	"todo-api/pkg/errors"

	"go.uber.org/zap"
)

const authMethodPath = "api.middleware.authenticate"

// AuthConfig selects how the acting user is resolved
type AuthConfig struct {
	// Validator checks bearer tokens; nil disables token auth.
	Validator *auth.JWTValidator

	// TrustGatewayHeaders accepts the user headers set by an API Gateway
	// authorizer (X-API-Gateway-Authorized, X-User-ID).
	TrustGatewayHeaders bool
}

// Authenticate resolves the acting user and stores it in the request context.
// Requests without a usable identity get a 401.
func Authenticate(cfg AuthConfig, errHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.TrustGatewayHeaders {
				if user, ok := gatewayUser(r); ok {
					next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
					return
				}
			}

			if cfg.Validator == nil {
				unauthorized(w, r, errHandler, "missing authentication context")
				return
			}

			token := extractToken(r)
			if token == "" {
				unauthorized(w, r, errHandler, "missing authorization header")
				return
			}

			claims, err := cfg.Validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				unauthorized(w, r, errHandler, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), auth.UserFromClaims(claims))))
		})
	}
}

// gatewayUser reads the identity forwarded by an upstream authorizer
func gatewayUser(r *http.Request) (*auth.UserContext, bool) {
	if r.Header.Get("X-API-Gateway-Authorized") != "true" {
		return nil, false
	}
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return nil, false
	}

	user := &auth.UserContext{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
	}
	if roles := r.Header.Get("X-User-Roles"); roles != "" {
		user.Roles = strings.Split(roles, ",")
	}
	return user, true
}

// extractToken reads the bearer token from the Authorization header or the auth_token cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, errHandler *errors.ErrorHandler, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="todo-api"`)
	errHandler.Handle(w, r, errors.NewUnauthorizedError(message).WithMethodPath(authMethodPath))
}
