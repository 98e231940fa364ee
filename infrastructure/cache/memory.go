package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when Redis is not configured and
// as a test double. Entries expire lazily on read and eagerly by a sweeper.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]memoryItem
	stopCh  chan struct{}
	stopped sync.Once
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore and starts its expiry sweeper
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		items:  make(map[string]memoryItem),
		stopCh: make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Connected always reports true; the store lives in process memory
func (s *MemoryStore) Connected() bool { return true }

// Get returns the cached bytes and whether the key was present and live
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Set stores a copy of value under key with the given TTL
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	buf := make([]byte, len(value))
	copy(buf, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryItem{
		value:     buf,
		expiresAt: time.Now().Add(ttl),
	}
	return true
}

// Delete removes a key
func (s *MemoryStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return true
}

// DeletePattern removes every key matching a glob pattern
func (s *MemoryStore) DeletePattern(_ context.Context, pattern string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.items, key)
		}
	}
	return true
}

// Len reports the number of live entries, for tests
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	n := 0
	for _, item := range s.items {
		if now.Before(item.expiresAt) {
			n++
		}
	}
	return n
}

// Close stops the sweeper
func (s *MemoryStore) Close() error {
	s.stopped.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, item := range s.items {
				if now.After(item.expiresAt) {
					delete(s.items, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
