//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"meetgraph/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCacheStore,
	ProvideCacheMetrics,
	ProvideCacheEngine,
	ProvideInvalidator,
	ProvideUserRepository,
	ProvideConnectionRepository,
	ProvideChatRepository,
	ProvideEventPublisher,
	ProvideMetricsPublisher,
	ProvideRateLimiter,
	ProvideJWTValidator,
	ProvideFeedService,
	ProvideConnectionService,
	ProvideProfileService,
	ProvideChatService,
	ProvideFeedHandler,
	ProvideProfileHandler,
	ProvideConnectionHandler,
	ProvideChatHandler,
	ProvideCacheHandler,
	ProvidePaymentHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
