// Package services holds the application services behind the HTTP layer.
// Services orchestrate repositories, the cache engine, invalidation and
// event publication; handlers stay thin.
package services

import (
	"context"

	"meetgraph/application/ports"
	"meetgraph/domain/user"
	"meetgraph/infrastructure/cache"
	"meetgraph/pkg/common"

	"go.uber.org/zap"
)

// FeedService builds discovery feeds: users the viewer has no edge with,
// in a stable order, paginated and cached per page.
type FeedService struct {
	userRepo ports.UserRepository
	connRepo ports.ConnectionRepository
	engine   *cache.Engine
	logger   *zap.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(
	userRepo ports.UserRepository,
	connRepo ports.ConnectionRepository,
	engine *cache.Engine,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		userRepo: userRepo,
		connRepo: connRepo,
		engine:   engine,
		logger:   logger,
	}
}

// GetFeed returns one page of the viewer's feed. Pages are cached per
// viewer and page number; invalidation on any edge mutation keeps cached
// pages from showing users the viewer has already acted on. Clamping
// happens here, not only at the HTTP layer, so a raw page or limit can
// never reach the repositories or leak an oversized page into the cache.
func (s *FeedService) GetFeed(ctx context.Context, userID string, page, limit int) ([]user.PublicProfile, error) {
	params := common.PaginationParams{Page: page, Limit: limit}.Clamp()
	return cache.ReadThrough(ctx, s.engine, cache.FeedPage(userID, params.Page),
		func(ctx context.Context) ([]user.PublicProfile, error) {
			return s.buildFeedPage(ctx, userID, params.Page, params.Limit)
		})
}

// buildFeedPage computes a feed page from the source of truth
func (s *FeedService) buildFeedPage(ctx context.Context, userID string, page, limit int) ([]user.PublicProfile, error) {
	excludeIDs, err := s.exclusionSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	skip := (page - 1) * limit
	profiles, err := s.userRepo.FindUsersExcluding(ctx, excludeIDs, skip, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Built feed page",
		zap.String("userID", userID),
		zap.Int("page", page),
		zap.Int("excluded", len(excludeIDs)),
		zap.Int("results", len(profiles)),
	)
	return profiles, nil
}

// exclusionSet returns the viewer plus every user they share an edge
// with. Status is deliberately ignored: ignored and rejected users stay
// hidden just like accepted and pending ones.
func (s *FeedService) exclusionSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	edges, err := s.connRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(edges)+1)
	exclude[userID] = struct{}{}
	for _, edge := range edges {
		exclude[edge.Counterpart(userID)] = struct{}{}
	}
	return exclude, nil
}
