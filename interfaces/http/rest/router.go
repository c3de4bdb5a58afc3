package rest

import (
	"net/http"

	"todo-api/interfaces/http/rest/handlers"
	"todo-api/interfaces/http/rest/middleware"
	"todo-api/pkg/auth"
	apperrors "todo-api/pkg/errors"
	"todo-api/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig carries the cross-cutting pieces of the API router
type RouterConfig struct {
	Auth middleware.AuthConfig

	// Limiter is optional; nil disables rate limiting.
	Limiter auth.RateLimiter

	// Tracer and Observer are optional.
	Tracer   *observability.Tracer
	Observer middleware.HTTPObserver

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only set it behind a proxy that overwrites them.
	TrustProxyHeaders bool

	EnableCORS  bool
	CORSOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	todo   *handlers.TodoHandler
	index  *handlers.IndexHandler
	health *handlers.HealthHandler
	errors *apperrors.ErrorHandler
	config RouterConfig
	logger *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	todo *handlers.TodoHandler,
	index *handlers.IndexHandler,
	health *handlers.HealthHandler,
	errHandler *apperrors.ErrorHandler,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		todo:   todo,
		index:  index,
		health: health,
		errors: errHandler,
		config: config,
		logger: logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	if rt.config.TrustProxyHeaders {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(middleware.Logger(rt.logger, rt.config.Observer))
	router.Use(rt.errors.Middleware)
	router.Use(rt.config.Tracer.Middleware)
	router.Use(versionMiddleware)

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(rt.notFound)
	router.MethodNotAllowed(rt.methodNotAllowed)

	// Health check
	router.Get("/health", rt.health.Health)
	router.Get("/ready", rt.health.Ready)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.config.Limiter != nil {
			r.Use(middleware.RateLimit(rt.config.Limiter, rt.errors, rt.logger))
		}

		r.HandleFunc("/ping", rt.index.Ping)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.config.Auth, rt.errors, rt.logger))

			r.Route("/todos", func(r chi.Router) {
				r.Post("/", rt.todo.CreateTodo)
				r.Get("/{id}", rt.todo.GetTodo)
				r.Put("/{id}", rt.todo.UpdateTodo)
				r.Patch("/{id}", rt.todo.UpdateTodo)
				r.Delete("/{id}", rt.todo.DeleteTodo)
			})
		})
	})

	return router
}

func (rt *Router) notFound(w http.ResponseWriter, r *http.Request) {
	rt.errors.Handle(w, r, apperrors.NewNotFoundError("route not found").WithDetail("path", r.URL.Path))
}

func (rt *Router) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	appErr := apperrors.NewValidationError("method not allowed").WithDetail("method", r.Method)
	appErr.HTTPStatus = http.StatusMethodNotAllowed
	rt.errors.Handle(w, r, appErr)
}

// versionMiddleware adds the API version header to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		next.ServeHTTP(w, r)
	})
}
