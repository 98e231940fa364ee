package cache

import (
	"context"
	"encoding/json"
	"reflect"

	"go.uber.org/zap"
)

// Engine ties a Store to shared Metrics and a logger. Services hold one
// Engine and go through ReadThrough / Forget rather than touching the
// Store directly, so every access is counted.
type Engine struct {
	store   Store
	metrics *Metrics
	logger  *zap.Logger
}

// NewEngine creates an Engine over the given store
func NewEngine(store Store, metrics *Metrics, logger *zap.Logger) *Engine {
	return &Engine{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Metrics exposes the engine's counters
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Connected reports whether the underlying store is reachable
func (e *Engine) Connected() bool {
	return e.store.Connected()
}

// Forget removes a single key and records the delete
func (e *Engine) Forget(ctx context.Context, key string) {
	if e.store.Delete(ctx, key) {
		e.metrics.RecordDelete()
	}
}

// ForgetPattern removes every key matching a glob pattern
func (e *Engine) ForgetPattern(ctx context.Context, pattern string) {
	if e.store.DeletePattern(ctx, pattern) {
		e.metrics.RecordDelete()
	}
}

// ReadThrough returns the cached value for entry, or falls back to fetch
// and caches the result. Fetch errors propagate unchanged and nothing is
// cached for them. Nil fetch results are returned but never cached, so a
// later write is not shadowed by a cached absence.
func ReadThrough[T any](ctx context.Context, e *Engine, entry Entry, fetch func(ctx context.Context) (T, error)) (T, error) {
	if raw, ok := e.store.Get(ctx, entry.Key); ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			e.metrics.RecordHit()
			return value, nil
		}
		// A corrupt entry is dropped and treated as a miss.
		e.logger.Warn("Dropping undecodable cache entry", zap.String("key", entry.Key))
		e.store.Delete(ctx, entry.Key)
	}

	e.metrics.RecordMiss()

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	if isNil(value) {
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		e.logger.Warn("Skipping cache write, value not serializable",
			zap.String("key", entry.Key),
			zap.Error(err),
		)
		return value, nil
	}

	if e.store.Set(ctx, entry.Key, raw, entry.TTL) {
		e.metrics.RecordSet()
	}
	return value, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
