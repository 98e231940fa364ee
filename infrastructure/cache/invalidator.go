package cache

import (
	"context"

	"go.uber.org/zap"
)

// Invalidator maps mutating events to the cache keys they stale out.
// Invalidation is fire and forget: it runs after the write has committed,
// failures are logged, and callers never see an error from it.
type Invalidator struct {
	engine *Engine
	logger *zap.Logger
}

// NewInvalidator creates an Invalidator over the engine
func NewInvalidator(engine *Engine, logger *zap.Logger) *Invalidator {
	return &Invalidator{engine: engine, logger: logger}
}

// OnUserProfileChanged drops every per-user view that embeds profile
// data: the profile itself, both list views, and all cached feed pages.
// Other users' feeds that include the old profile expire by TTL.
func (i *Invalidator) OnUserProfileChanged(ctx context.Context, userID string) {
	i.engine.Forget(ctx, UserProfile(userID).Key)
	i.engine.Forget(ctx, UserConnections(userID).Key)
	i.engine.Forget(ctx, UserRequests(userID).Key)
	i.engine.ForgetPattern(ctx, FeedPattern(userID))
	i.logger.Debug("Invalidated profile caches", zap.String("userId", userID))
}

// OnConnectionMutated drops every list either endpoint could now see
// differently: both feeds, both connection lists, and both pending lists.
func (i *Invalidator) OnConnectionMutated(ctx context.Context, fromUserID, toUserID string) {
	for _, userID := range []string{fromUserID, toUserID} {
		i.engine.ForgetPattern(ctx, FeedPattern(userID))
		i.engine.Forget(ctx, UserConnections(userID).Key)
		i.engine.Forget(ctx, UserRequests(userID).Key)
	}
	i.logger.Debug("Invalidated connection caches",
		zap.String("fromUserId", fromUserID),
		zap.String("toUserId", toUserID),
	)
}

// ForgetConnection drops a single cached connection record
func (i *Invalidator) ForgetConnection(ctx context.Context, connectionID string) {
	i.engine.Forget(ctx, ConnectionByID(connectionID).Key)
}

// OnChatMessage drops both directions of the thread between two users
func (i *Invalidator) OnChatMessage(ctx context.Context, senderID, recipientID string) {
	i.engine.Forget(ctx, ChatThread(senderID, recipientID).Key)
	i.engine.Forget(ctx, ChatThread(recipientID, senderID).Key)
}
