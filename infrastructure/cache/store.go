// Package cache implements the cache-aside layer: a Redis-backed key-value
// store with graceful degradation, a typed key registry with per-entity
// TTLs, a generic read-through engine with metrics, and the invalidation
// coordinator fired on graph mutations.
package cache

import (
	"context"
	"time"
)

// Store abstracts the remote key-value cache. Implementations never
// surface backend errors to callers: a failed Get behaves like a miss and
// mutations report success as a boolean. Absence of a key only ever means
// "ask the source of truth", never "no such data exists".
type Store interface {
	// Get returns the raw cached bytes and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with a TTL; false means the write did not happen
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes a key; false means the delete did not happen
	Delete(ctx context.Context, key string) bool

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) bool

	// Connected reports whether the backend is currently reachable
	Connected() bool

	// Close releases the underlying client
	Close() error
}
