//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"todo-api/application/adapters"
	"todo-api/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideTodoBackend,
	ProvideHealthChecker,
	ProvideTracer,
	ProvideTodoStore,
	ProvideCollector,
	ProvideMetrics,
	ProvideAuditPublisher,
	ProvideAuditLogger,
	ProvideTodoValidator,
	ProvideTodoAdapter,
	adapters.New,
	ProvideErrorHandler,
	ProvideResponder,
	ProvideJWTValidator,
	ProvideRateLimiter,
	ProvideRouterConfig,
	ProvideTodoHandler,
	ProvideIndexHandler,
	ProvideHealthHandler,
	ProvideHTTPHandler,
	ProvideOpsRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
