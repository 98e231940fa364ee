package services

import (
	"context"
	"fmt"
	"testing"

	"meetgraph/domain/connection"
	"meetgraph/domain/user"
	"meetgraph/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsOf(env *testEnv, t *testing.T, userID string, page, limit int) []string {
	t.Helper()
	profiles, err := env.feed.GetFeed(context.Background(), userID, page, limit)
	require.NoError(t, err)
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func TestGetFeed_ExcludesSelfAndAllEdges(t *testing.T) {
	env := newTestEnv(t,
		testUser("u1", "Asha"),
		testUser("u2", "Bela"),
		testUser("u3", "Cody"),
		testUser("u4", "Dana"),
		testUser("u5", "Egon"),
		testUser("u6", "Fern"),
	)
	ctx := context.Background()

	// u1 has edges in every status; all counterparts must disappear.
	_, err := env.connections.SendRequest(ctx, "u1", "u2", connection.StatusInterested)
	require.NoError(t, err)
	_, err = env.connections.SendRequest(ctx, "u1", "u3", connection.StatusIgnored)
	require.NoError(t, err)

	sent, err := env.connections.SendRequest(ctx, "u4", "u1", connection.StatusInterested)
	require.NoError(t, err)
	_, err = env.connections.ReviewRequest(ctx, "u1", sent.ID, connection.StatusAccepted)
	require.NoError(t, err)

	sent, err = env.connections.SendRequest(ctx, "u5", "u1", connection.StatusInterested)
	require.NoError(t, err)
	_, err = env.connections.ReviewRequest(ctx, "u1", sent.ID, connection.StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, []string{"u6"}, idsOf(env, t, "u1", 1, 10))
}

func TestGetFeed_Pagination(t *testing.T) {
	env := newTestEnv(t,
		testUser("u1", "Asha"),
		testUser("u2", "Bela"),
		testUser("u3", "Cody"),
		testUser("u4", "Dana"),
		testUser("u5", "Egon"),
	)

	page1 := idsOf(env, t, "u1", 1, 2)
	page2 := idsOf(env, t, "u1", 2, 2)
	page3 := idsOf(env, t, "u1", 3, 2)

	assert.Equal(t, []string{"u2", "u3"}, page1)
	assert.Equal(t, []string{"u4", "u5"}, page2)
	assert.Empty(t, page3)
}

func TestGetFeed_SecondReadServedFromCache(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"))

	first := idsOf(env, t, "u1", 1, 10)
	second := idsOf(env, t, "u1", 1, 10)

	assert.Equal(t, first, second)
	snap := env.engine.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
}

func TestGetFeed_EdgeMutationRefreshesCachedPages(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"), testUser("u3", "Cody"))
	ctx := context.Background()

	assert.Equal(t, []string{"u2", "u3"}, idsOf(env, t, "u1", 1, 10))
	before := env.engine.Metrics().Snapshot()

	// Acting on u2 must drop the cached page so the next read hides them.
	_, err := env.connections.SendRequest(ctx, "u1", "u2", connection.StatusInterested)
	require.NoError(t, err)

	assert.Equal(t, []string{"u3"}, idsOf(env, t, "u1", 1, 10))

	// The refreshed read is a recompute, not a stale hit.
	after := env.engine.Metrics().Snapshot()
	assert.Equal(t, before.Hits, after.Hits)
	assert.Equal(t, before.Misses+1, after.Misses)
	assert.Equal(t, before.Sets+1, after.Sets)
}

func TestGetFeed_ClampsPageAndLimit(t *testing.T) {
	users := make([]*user.User, 0, 60)
	for i := 1; i <= 60; i++ {
		id := fmt.Sprintf("u%02d", i)
		users = append(users, testUser(id, "User"+id))
	}
	env := newTestEnv(t, users...)

	// Page zero and negative pages fall back to the first page instead of
	// producing a negative offset.
	assert.Equal(t, idsOf(env, t, "u01", 1, 10), idsOf(env, t, "u01", 0, 10))
	assert.Equal(t, idsOf(env, t, "u01", 1, 10), idsOf(env, t, "u01", -3, 10))

	// An oversized limit is clamped to the maximum page size, so the entry
	// cached under (viewer, page) can never exceed it.
	page := idsOf(env, t, "u02", 1, 999)
	assert.Len(t, page, common.MaxLimit)
	assert.Equal(t, page, idsOf(env, t, "u02", 1, 10))
}

func TestGetFeed_EmptyGraphShowsEveryoneElse(t *testing.T) {
	env := newTestEnv(t, testUser("u1", "Asha"), testUser("u2", "Bela"), testUser("u3", "Cody"))

	assert.Equal(t, []string{"u2", "u3"}, idsOf(env, t, "u1", 1, 10))
}
