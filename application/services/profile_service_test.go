package services

import (
	"context"
	"testing"

	"meetgraph/domain/events"
	"meetgraph/domain/user"
	apperrors "meetgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestGetProfile_CachesSecondRead(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"))
	ctx := context.Background()

	first, err := env.profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)

	second, err := env.profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	snap := env.engine.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.profiles.GetProfile(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateProfile_AppliesFieldsAndFreshensCache(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"))
	ctx := context.Background()

	// Warm the cache with the old profile.
	_, err := env.profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)

	updated, err := env.profiles.UpdateProfile(ctx, "u1", user.ProfileUpdate{
		About:  strPtr("likes graphs"),
		Skills: &[]string{"go", "redis"},
	})
	require.NoError(t, err)
	assert.Equal(t, "likes graphs", updated.About)

	// The next read must not serve the stale cached profile.
	fresh, err := env.profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "likes graphs", fresh.About)
	assert.Equal(t, []string{"go", "redis"}, fresh.Skills)
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"))
	ctx := context.Background()

	tests := []struct {
		name   string
		update user.ProfileUpdate
	}{
		{"empty update", user.ProfileUpdate{}},
		{"under age", user.ProfileUpdate{Age: intPtr(15)}},
		{"over age", user.ProfileUpdate{Age: intPtr(150)}},
		{"blank first name", user.ProfileUpdate{FirstName: strPtr("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profiles.UpdateProfile(ctx, "u1", tt.update)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestUpgradeMembership(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"))
	ctx := context.Background()

	require.NoError(t, env.profiles.UpgradeMembership(ctx, "u1", user.MembershipGold))

	profile, err := env.profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, profile.IsPremium)
	assert.Equal(t, user.MembershipGold, profile.MembershipType)
	assert.Equal(t, []string{events.TypePremiumUpgraded}, env.publisher.types())
}

func TestUpgradeMembership_InvalidTier(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"))

	err := env.profiles.UpgradeMembership(context.Background(), "u1", "platinum")
	assert.True(t, apperrors.IsValidation(err))
}
