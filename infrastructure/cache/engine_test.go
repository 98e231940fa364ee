package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type profileDoc struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return NewEngine(store, NewMetrics(), zap.NewNop())
}

func TestReadThrough_MissThenHit(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	entry := UserProfile("u1")

	fetchCalls := 0
	fetch := func(ctx context.Context) (*profileDoc, error) {
		fetchCalls++
		return &profileDoc{ID: "u1", FirstName: "Asha"}, nil
	}

	first, err := ReadThrough(ctx, engine, entry, fetch)
	require.NoError(t, err)
	require.Equal(t, "Asha", first.FirstName)

	second, err := ReadThrough(ctx, engine, entry, fetch)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetchCalls, "second read must come from cache")

	snap := engine.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, int64(1), snap.Sets)
	assert.InDelta(t, 0.5, snap.HitRate, 0.001)
}

func TestReadThrough_FetchErrorPropagatesUncached(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	entry := UserProfile("u1")

	wantErr := errors.New("dynamodb unavailable")
	fetchCalls := 0
	fetch := func(ctx context.Context) (*profileDoc, error) {
		fetchCalls++
		return nil, wantErr
	}

	_, err := ReadThrough(ctx, engine, entry, fetch)
	require.ErrorIs(t, err, wantErr)

	// The error was not cached; the next read fetches again.
	_, err = ReadThrough(ctx, engine, entry, fetch)
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, fetchCalls)

	snap := engine.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.Misses)
	assert.Equal(t, int64(0), snap.Sets)
}

func TestReadThrough_NilResultNotCached(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	entry := UserProfile("ghost")

	fetchCalls := 0
	fetch := func(ctx context.Context) (*profileDoc, error) {
		fetchCalls++
		return nil, nil
	}

	value, err := ReadThrough(ctx, engine, entry, fetch)
	require.NoError(t, err)
	assert.Nil(t, value)

	_, err = ReadThrough(ctx, engine, entry, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetchCalls, "nil results must not shadow later writes")
}

func TestReadThrough_CorruptEntryTreatedAsMiss(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	engine := NewEngine(store, NewMetrics(), zap.NewNop())
	ctx := context.Background()
	entry := UserProfile("u1")

	store.Set(ctx, entry.Key, []byte("{not json"), time.Minute)

	value, err := ReadThrough(ctx, engine, entry, func(ctx context.Context) (*profileDoc, error) {
		return &profileDoc{ID: "u1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", value.ID)

	snap := engine.Metrics().Snapshot()
	assert.Equal(t, int64(0), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
}

func TestReadThrough_SliceValues(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	entry := FeedPage("u1", 1)

	fetch := func(ctx context.Context) ([]profileDoc, error) {
		return []profileDoc{{ID: "u2"}, {ID: "u3"}}, nil
	}

	first, err := ReadThrough(ctx, engine, entry, fetch)
	require.NoError(t, err)

	second, err := ReadThrough(ctx, engine, entry, fetch)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), engine.Metrics().Snapshot().Hits)
}

func TestEngine_ForgetCountsDeletes(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	engine.Forget(ctx, UserProfile("u1").Key)
	engine.ForgetPattern(ctx, FeedPattern("u1"))

	assert.Equal(t, int64(2), engine.Metrics().Snapshot().Deletes)
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordHit()
	m.RecordMiss()
	m.RecordSet()
	m.RecordDelete()

	m.Reset()

	snap := m.Snapshot()
	assert.Equal(t, MetricsSnapshot{}, snap)
	assert.Zero(t, snap.HitRate)
}
