package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"todo-api/application/adapters"
	"todo-api/application/ports"
	"todo-api/domain/core/entities"
	"todo-api/domain/core/validators"
	"todo-api/infrastructure/config"
	"todo-api/infrastructure/logging"
	"todo-api/infrastructure/messaging/eventbridge"
	badgerstore "todo-api/infrastructure/persistence/badger"
	"todo-api/infrastructure/persistence/dynamodb"
	"todo-api/infrastructure/persistence/resilience"
	"todo-api/infrastructure/persistence/tracing"
	"todo-api/interfaces/http/ops"
	"todo-api/interfaces/http/rest"
	"todo-api/interfaces/http/rest/handlers"
	"todo-api/interfaces/http/rest/middleware"
	"todo-api/pkg/auth"
	"todo-api/pkg/common"
	apperrors "todo-api/pkg/errors"
	"todo-api/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Version is reported by /health
var Version = "dev"

const limiterIdleTTL = 10 * time.Minute

// TodoBackend is the raw document store selected by STORE_DRIVER
type TodoBackend interface {
	ports.TodoStore
	ports.HealthChecker
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", cfg.AppName)), nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DYNAMODB_ENDPOINT when set
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideTodoBackend opens the configured document store. The cleanup closes it.
func ProvideTodoBackend(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (TodoBackend, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreBadger:
		badgerCfg := badgerstore.Config{Path: cfg.BadgerPath, InMemory: cfg.BadgerPath == "", SyncWrites: cfg.IsProduction()}
		db, err := badgerstore.Open(badgerCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close badger", zap.Error(err))
			}
		}
		logger.Info("Using badger document store", zap.Bool("in_memory", badgerCfg.InMemory))
		return badgerstore.NewTodoStore(db, cfg.DynamoDBTable, logger), cleanup, nil
	case config.StoreDynamoDB:
		logger.Info("Using DynamoDB document store", zap.String("table", cfg.DynamoDBTable))
		return dynamodb.NewTodoStore(client, cfg.DynamoDBTable, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// ProvideHealthChecker probes the raw store, bypassing the circuit breaker
func ProvideHealthChecker(backend TodoBackend) ports.HealthChecker {
	return backend
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(cfg.AppName, cfg.EnableTracing)
}

// ProvideTodoStore decorates the backend with the circuit breaker and tracing
func ProvideTodoStore(backend TodoBackend, tracer *observability.Tracer, cfg *config.Config, logger *zap.Logger) ports.TodoStore {
	var store ports.TodoStore = backend

	if cfg.Breaker.Enabled {
		breakerCfg := resilience.DefaultBreakerConfig("todo-store")
		breakerCfg.MaxRequests = uint32(cfg.Breaker.MaxRequests)
		breakerCfg.Interval = cfg.Breaker.Interval
		breakerCfg.Timeout = cfg.Breaker.Timeout
		breakerCfg.FailureThreshold = cfg.Breaker.FailureThreshold
		breakerCfg.MinRequests = uint32(cfg.Breaker.MinRequests)
		store = resilience.NewBreakerStore[entities.Todo](store, breakerCfg, logger)
	}

	if tracer.Enabled() {
		store = tracing.NewTracedStore[entities.Todo](store, tracer, "todo-store")
	}
	return store
}

// ProvideCollector creates the Prometheus collector served on the ops port
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(metricsPrefix(cfg.AppName))
}

// ProvideMetrics records adapter operations in Prometheus and, when enabled, CloudWatch
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, collector *observability.Collector, logger *zap.Logger) ports.Metrics {
	recorders := observability.MultiRecorder{collector}
	if cfg.EnableMetrics {
		recorders = append(recorders, observability.NewMetrics(cfg.MetricsNamespace, client, logger))
	}
	return recorders
}

// ProvideAuditPublisher returns the EventBridge publisher, or nil when events are disabled
func ProvideAuditPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.AuditPublisher {
	if !cfg.EnableEvents {
		return nil
	}
	return eventbridge.NewAuditPublisher(client, cfg.EventBusName, logger)
}

// ProvideAuditLogger creates the audit logger. Lambda publishes inline; elsewhere
// publishing runs in the background and the cleanup waits for it.
func ProvideAuditLogger(cfg *config.Config, logger *zap.Logger, publisher ports.AuditPublisher) (ports.AuditLogger, func()) {
	var opts []logging.AuditOption
	if cfg.IsLambda {
		opts = append(opts, logging.WithSyncPublish())
	}
	audit := logging.NewAuditLogger(logger, publisher, opts...)
	return audit, audit.Flush
}

// ProvideTodoValidator creates the todo validator
func ProvideTodoValidator() *validators.TodoValidator {
	return validators.NewTodoValidator()
}

// ProvideTodoAdapter creates the todo adapter
func ProvideTodoAdapter(
	store ports.TodoStore,
	validator *validators.TodoValidator,
	audit ports.AuditLogger,
	metrics ports.Metrics,
	logger *zap.Logger,
) *adapters.TodoAdapter {
	return adapters.NewTodoAdapter(store, validator, audit, metrics, logger)
}

// ProvideErrorHandler creates the HTTP error renderer; stack traces are shown in development
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideResponder creates the success response writer
func ProvideResponder(logger *zap.Logger) *common.Responder {
	return common.NewResponder(logger)
}

// ProvideJWTValidator returns nil when no JWT secret is configured
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	jwtCfg := auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	}
	if cfg.JWTAudience != "" {
		jwtCfg.Audience = []string{cfg.JWTAudience}
	}
	return auth.NewJWTValidator(jwtCfg)
}

// ProvideRateLimiter returns nil when RATE_LIMIT_RPS is zero
func ProvideRateLimiter(cfg *config.Config) (auth.RateLimiter, func()) {
	if cfg.RateLimitRPS == 0 {
		return nil, func() {}
	}
	burst := max(cfg.RateLimitBurst, 1)
	limiter := auth.NewTokenBucketLimiter(cfg.RateLimitRPS, burst, limiterIdleTTL)
	return limiter, limiter.Close
}

// ProvideRouterConfig assembles the API router's cross-cutting middleware
func ProvideRouterConfig(
	cfg *config.Config,
	validator *auth.JWTValidator,
	limiter auth.RateLimiter,
	tracer *observability.Tracer,
	collector *observability.Collector,
) rest.RouterConfig {
	return rest.RouterConfig{
		Auth: middleware.AuthConfig{
			Validator: validator,
			// API Gateway authorizers forward identity headers; outside Lambda they are
			// only trusted in development without a secret.
			TrustGatewayHeaders: cfg.IsLambda || (cfg.IsDevelopment() && cfg.JWTSecret == ""),
		},
		Limiter:           limiter,
		Tracer:            tracer,
		Observer:          collector,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		EnableCORS:        cfg.EnableCORS,
		CORSOrigins:       cfg.CORSOrigins,
	}
}

// ProvideTodoHandler creates the todo handler
func ProvideTodoHandler(adapter *adapters.TodoAdapter, errHandler *apperrors.ErrorHandler, responder *common.Responder, logger *zap.Logger) *handlers.TodoHandler {
	return handlers.NewTodoHandler(adapter, errHandler, responder, logger)
}

// ProvideIndexHandler creates the index handler
func ProvideIndexHandler(responder *common.Responder, logger *zap.Logger) *handlers.IndexHandler {
	return handlers.NewIndexHandler(responder, logger)
}

// ProvideHealthHandler creates the health handler
func ProvideHealthHandler(checker ports.HealthChecker, responder *common.Responder, logger *zap.Logger) *handlers.HealthHandler {
	return handlers.NewHealthHandler(checker, responder, logger, Version)
}

// ProvideHTTPHandler builds the API router
func ProvideHTTPHandler(
	todo *handlers.TodoHandler,
	index *handlers.IndexHandler,
	health *handlers.HealthHandler,
	errHandler *apperrors.ErrorHandler,
	routerCfg rest.RouterConfig,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(todo, index, health, errHandler, routerCfg, logger).Setup()
}

// ProvideOpsRouter builds the metrics and health router
func ProvideOpsRouter(collector *observability.Collector, checker ports.HealthChecker, logger *zap.Logger) *mux.Router {
	return ops.NewRouter(collector.GetRegistry(), checker, logger)
}

// metricsPrefix turns an app name into a valid Prometheus namespace
func metricsPrefix(appName string) string {
	out := make([]rune, 0, len(appName))
	for _, r := range appName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
