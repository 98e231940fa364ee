package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	require.True(t, store.Set(ctx, "user:u1:profile", []byte(`{"id":"u1"}`), time.Minute))
	got, ok := store.Get(ctx, "user:u1:profile")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":"u1"}`), got)

	require.True(t, store.Delete(ctx, "user:u1:profile"))
	_, ok = store.Get(ctx, "user:u1:profile")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_StoresACopy(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	value := []byte("original")
	store.Set(ctx, "k", value, time.Minute)
	value[0] = 'X'

	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), got)
}

func TestMemoryStore_ExpiredEntriesAreDeadToReadsAndLen(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	store.Set(ctx, "gone", []byte("v"), time.Millisecond)
	store.Set(ctx, "live", []byte("v"), time.Minute)
	time.Sleep(10 * time.Millisecond)

	_, ok := store.Get(ctx, "gone")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_DeletePatternScopesToOneUser(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	store.Set(ctx, "feed:u1:page:1", []byte("a"), time.Minute)
	store.Set(ctx, "feed:u1:page:2", []byte("b"), time.Minute)
	store.Set(ctx, "feed:u2:page:1", []byte("c"), time.Minute)

	require.True(t, store.DeletePattern(ctx, "feed:u1:page:*"))

	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(ctx, "feed:u2:page:1")
	assert.True(t, ok)
}
