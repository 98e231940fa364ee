package services

import (
	"context"

	"meetgraph/application/ports"
	"meetgraph/domain/events"
	"meetgraph/domain/user"
	"meetgraph/infrastructure/cache"
	apperrors "meetgraph/pkg/errors"

	"go.uber.org/zap"
)

const (
	minAge = 18
	maxAge = 120
)

// ProfileService reads and updates user profiles and handles membership
// upgrades confirmed by the payment provider.
type ProfileService struct {
	userRepo    ports.UserRepository
	engine      *cache.Engine
	invalidator *cache.Invalidator
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo ports.UserRepository,
	engine *cache.Engine,
	invalidator *cache.Invalidator,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		engine:      engine,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger,
	}
}

// GetProfile returns the user's own full profile, cached
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	return cache.ReadThrough(ctx, s.engine, cache.UserProfile(userID),
		func(ctx context.Context) (*user.User, error) {
			return s.userRepo.FindByID(ctx, userID)
		})
}

// UpdateProfile applies an edit to the user's own profile and drops the
// caches that could now serve stale profile data.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update user.ProfileUpdate) (*user.User, error) {
	if update.IsEmpty() {
		return nil, apperrors.NewValidationError("no editable fields provided")
	}
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.invalidator.OnUserProfileChanged(ctx, userID)
	return updated, nil
}

// UpgradeMembership marks the user premium after a verified payment and
// raises the upgrade event.
func (s *ProfileService) UpgradeMembership(ctx context.Context, userID string, membership user.MembershipType) error {
	if membership != user.MembershipSilver && membership != user.MembershipGold {
		return apperrors.NewValidationError("membership must be 'silver' or 'gold'")
	}

	if err := s.userRepo.SetPremium(ctx, userID, membership); err != nil {
		return err
	}

	s.invalidator.OnUserProfileChanged(ctx, userID)

	if s.publisher != nil {
		event := events.NewPremiumUpgraded(userID, string(membership))
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish upgrade event",
				zap.String("userID", userID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func validateProfileUpdate(update user.ProfileUpdate) error {
	if update.Age != nil && (*update.Age < minAge || *update.Age > maxAge) {
		return apperrors.NewValidationError("age must be between 18 and 120")
	}
	if update.FirstName != nil && *update.FirstName == "" {
		return apperrors.NewValidationError("first name cannot be empty")
	}
	if update.Skills != nil && len(*update.Skills) > 20 {
		return apperrors.NewValidationError("at most 20 skills are allowed")
	}
	return nil
}
