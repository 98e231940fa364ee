package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedKeys(t *testing.T, store Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.True(t, store.Set(context.Background(), key, []byte(`{}`), time.Minute))
	}
}

func assertGone(t *testing.T, store Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, ok := store.Get(context.Background(), key)
		assert.False(t, ok, "key %s should have been invalidated", key)
	}
}

func assertPresent(t *testing.T, store Store, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, ok := store.Get(context.Background(), key)
		assert.True(t, ok, "key %s should have survived", key)
	}
}

func newTestInvalidator(t *testing.T) (*Invalidator, Store) {
	t.Helper()
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	engine := NewEngine(store, NewMetrics(), zap.NewNop())
	return NewInvalidator(engine, zap.NewNop()), store
}

func TestInvalidator_OnUserProfileChanged(t *testing.T) {
	inv, store := newTestInvalidator(t)

	seedKeys(t, store,
		"user:u1:profile",
		"user:u1:connections",
		"user:u1:requests",
		"feed:u1:page:1",
		"feed:u1:page:2",
		"user:u2:profile",
		"feed:u2:page:1",
	)

	inv.OnUserProfileChanged(context.Background(), "u1")

	assertGone(t, store,
		"user:u1:profile", "user:u1:connections", "user:u1:requests",
		"feed:u1:page:1", "feed:u1:page:2",
	)
	assertPresent(t, store, "user:u2:profile", "feed:u2:page:1")
}

func TestInvalidator_OnConnectionMutated(t *testing.T) {
	inv, store := newTestInvalidator(t)

	seedKeys(t, store,
		"feed:u1:page:1",
		"user:u1:connections",
		"user:u1:requests",
		"feed:u2:page:1",
		"user:u2:connections",
		"user:u2:requests",
		"user:u1:profile",
		"feed:u3:page:1",
	)

	inv.OnConnectionMutated(context.Background(), "u1", "u2")

	assertGone(t, store,
		"feed:u1:page:1", "user:u1:connections", "user:u1:requests",
		"feed:u2:page:1", "user:u2:connections", "user:u2:requests",
	)
	assertPresent(t, store, "user:u1:profile", "feed:u3:page:1")
}

func TestInvalidator_OnChatMessage(t *testing.T) {
	inv, store := newTestInvalidator(t)

	seedKeys(t, store, "chats:u1:to:u2", "chats:u2:to:u1", "chats:u1:to:u3")

	inv.OnChatMessage(context.Background(), "u1", "u2")

	assertGone(t, store, "chats:u1:to:u2", "chats:u2:to:u1")
	assertPresent(t, store, "chats:u1:to:u3")
}

func TestInvalidator_ForgetConnection(t *testing.T) {
	inv, store := newTestInvalidator(t)

	seedKeys(t, store, "connection:c1", "connection:c2")

	inv.ForgetConnection(context.Background(), "c1")

	assertGone(t, store, "connection:c1")
	assertPresent(t, store, "connection:c2")
}
