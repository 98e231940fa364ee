// Package di wires the application together with google/wire.
package di

import (
	"context"
	"time"

	"meetgraph/application/ports"
	"meetgraph/application/services"
	"meetgraph/infrastructure/cache"
	"meetgraph/infrastructure/config"
	"meetgraph/infrastructure/messaging/eventbridge"
	"meetgraph/infrastructure/persistence/dynamodb"
	"meetgraph/interfaces/http/rest/handlers"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client when metrics are
// enabled; a nil client disables publication downstream.
func ProvideCloudWatchClient(awsCfg aws.Config, cfg *config.Config) *awscloudwatch.Client {
	if !cfg.EnableMetrics {
		return nil
	}
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCacheStore selects the cache backend: Redis when configured, an
// in-process store otherwise.
func ProvideCacheStore(cfg *config.Config, logger *zap.Logger) cache.Store {
	if cfg.CacheEnabled() {
		return cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	}
	logger.Info("REDIS_ADDR not set, using in-process cache")
	return cache.NewMemoryStore()
}

// ProvideCacheMetrics creates the shared cache counters
func ProvideCacheMetrics() *cache.Metrics {
	return cache.NewMetrics()
}

// ProvideCacheEngine creates the cache engine
func ProvideCacheEngine(store cache.Store, metrics *cache.Metrics, logger *zap.Logger) *cache.Engine {
	return cache.NewEngine(store, metrics, logger)
}

// ProvideInvalidator creates the cache invalidator
func ProvideInvalidator(engine *cache.Engine, logger *zap.Logger) *cache.Invalidator {
	return cache.NewInvalidator(engine, logger)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideConnectionRepository creates the connection repository
func ProvideConnectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionRepository {
	return dynamodb.NewConnectionRepository(client, cfg.DynamoDBTable, cfg.GSI1IndexName, cfg.GSI2IndexName, logger)
}

// ProvideChatRepository creates the chat repository
func ProvideChatRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ChatRepository {
	return dynamodb.NewChatRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetricsPublisher creates the CloudWatch metrics publisher
func ProvideMetricsPublisher(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.MetricsPublisher {
	return observability.NewMetricsPublisher(cfg.MetricsNamespace, client, logger)
}

// ProvideRateLimiter creates the per-user request limiter
func ProvideRateLimiter() auth.RateLimiter {
	return auth.NewTokenBucketLimiter(100, time.Second)
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideFeedService creates the feed service
func ProvideFeedService(userRepo ports.UserRepository, connRepo ports.ConnectionRepository, engine *cache.Engine, logger *zap.Logger) *services.FeedService {
	return services.NewFeedService(userRepo, connRepo, engine, logger)
}

// ProvideConnectionService creates the connection service
func ProvideConnectionService(
	userRepo ports.UserRepository,
	connRepo ports.ConnectionRepository,
	engine *cache.Engine,
	invalidator *cache.Invalidator,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.ConnectionService {
	return services.NewConnectionService(userRepo, connRepo, engine, invalidator, publisher, logger)
}

// ProvideProfileService creates the profile service
func ProvideProfileService(
	userRepo ports.UserRepository,
	engine *cache.Engine,
	invalidator *cache.Invalidator,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.ProfileService {
	return services.NewProfileService(userRepo, engine, invalidator, publisher, logger)
}

// ProvideChatService creates the chat service
func ProvideChatService(
	chatRepo ports.ChatRepository,
	connections *services.ConnectionService,
	engine *cache.Engine,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *services.ChatService {
	return services.NewChatService(chatRepo, connections, engine, invalidator, logger)
}

// ProvideFeedHandler creates the feed handler
func ProvideFeedHandler(feed *services.FeedService, logger *zap.Logger) *handlers.FeedHandler {
	return handlers.NewFeedHandler(feed, logger)
}

// ProvideProfileHandler creates the profile handler
func ProvideProfileHandler(profiles *services.ProfileService, logger *zap.Logger) *handlers.ProfileHandler {
	return handlers.NewProfileHandler(profiles, logger)
}

// ProvideConnectionHandler creates the connection handler
func ProvideConnectionHandler(connections *services.ConnectionService, logger *zap.Logger) *handlers.ConnectionHandler {
	return handlers.NewConnectionHandler(connections, logger)
}

// ProvideChatHandler creates the chat handler
func ProvideChatHandler(chat *services.ChatService, logger *zap.Logger) *handlers.ChatHandler {
	return handlers.NewChatHandler(chat, logger)
}

// ProvideCacheHandler creates the cache metrics handler
func ProvideCacheHandler(engine *cache.Engine, logger *zap.Logger) *handlers.CacheHandler {
	return handlers.NewCacheHandler(engine, logger)
}

// ProvidePaymentHandler creates the payment webhook handler
func ProvidePaymentHandler(profiles *services.ProfileService, cfg *config.Config, logger *zap.Logger) *handlers.PaymentHandler {
	return handlers.NewPaymentHandler(profiles, cfg.PaymentWebhookSecret, logger)
}
