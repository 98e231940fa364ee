package di

import (
	"meetgraph/application/ports"
	"meetgraph/application/services"
	"meetgraph/infrastructure/cache"
	"meetgraph/infrastructure/config"
	"meetgraph/interfaces/http/rest/handlers"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	CacheStore  cache.Store
	CacheEngine *cache.Engine
	Invalidator *cache.Invalidator

	UserRepo ports.UserRepository
	ConnRepo ports.ConnectionRepository
	ChatRepo ports.ChatRepository

	EventPublisher   ports.EventPublisher
	MetricsPublisher *observability.MetricsPublisher
	JWTValidator     *auth.JWTValidator
	RateLimiter      auth.RateLimiter

	FeedService       *services.FeedService
	ConnectionService *services.ConnectionService
	ProfileService    *services.ProfileService
	ChatService       *services.ChatService

	FeedHandler       *handlers.FeedHandler
	ProfileHandler    *handlers.ProfileHandler
	ConnectionHandler *handlers.ConnectionHandler
	ChatHandler       *handlers.ChatHandler
	CacheHandler      *handlers.CacheHandler
	PaymentHandler    *handlers.PaymentHandler
}

// Close releases held resources
func (c *Container) Close() error {
	if c.CacheStore != nil {
		return c.CacheStore.Close()
	}
	return nil
}
