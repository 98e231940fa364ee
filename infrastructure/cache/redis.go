package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Reconnection policy: delay grows linearly with the attempt count up to a
// cap; after the ceiling the cache stays offline until process restart.
const (
	reconnectBaseDelay   = 50 * time.Millisecond
	reconnectMaxDelay    = 3 * time.Second
	maxReconnectAttempts = 10
	healthCheckInterval  = 15 * time.Second
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// MergeDefaults fills unset fields with defaults
func (c RedisConfig) MergeDefaults() RedisConfig {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	return c
}

// RedisStore implements Store on top of go-redis. All operations degrade
// gracefully: when the backend is unreachable, reads report absence and
// writes report failure, and a background monitor attempts reconnection
// with bounded backoff.
type RedisStore struct {
	client    *redis.Client
	logger    *zap.Logger
	connected atomic.Bool
	abandoned atomic.Bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRedisStore connects to Redis and starts the connection monitor. A
// failed initial connection is not fatal: the store starts disconnected
// and the monitor keeps trying within the backoff budget.
func NewRedisStore(cfg RedisConfig, logger *zap.Logger) *RedisStore {
	cfg = cfg.MergeDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		// The monitor owns retry policy; per-command retries stay off.
		MaxRetries: -1,
	})

	s := &RedisStore{
		client: client,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable at startup, continuing without cache",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
	} else {
		s.connected.Store(true)
		logger.Info("Redis connected", zap.String("addr", cfg.Addr))
	}

	go s.monitor()

	return s
}

// Connected reports whether the backend is currently reachable
func (s *RedisStore) Connected() bool {
	return s.connected.Load()
}

// Get returns the raw cached bytes and whether the key was present
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if !s.connected.Load() {
		return nil, false
	}

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Redis GET failed", zap.String("key", key), zap.Error(err))
			s.markDisconnected()
		}
		return nil, false
	}
	return value, true
}

// Set stores a value with a TTL
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if !s.connected.Load() {
		return false
	}

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("Redis SET failed", zap.String("key", key), zap.Error(err))
		s.markDisconnected()
		return false
	}
	return true
}

// Delete removes a key
func (s *RedisStore) Delete(ctx context.Context, key string) bool {
	if !s.connected.Load() {
		return false
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("Redis DEL failed", zap.String("key", key), zap.Error(err))
		s.markDisconnected()
		return false
	}
	return true
}

// DeletePattern removes every key matching a glob pattern using SCAN so a
// large keyspace never blocks the server the way KEYS would.
func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) bool {
	if !s.connected.Load() {
		return false
	}

	var deleted int
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			deleted += s.deleteBatch(ctx, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("Redis SCAN failed", zap.String("pattern", pattern), zap.Error(err))
		s.markDisconnected()
		return false
	}
	if len(batch) > 0 {
		deleted += s.deleteBatch(ctx, batch)
	}

	if deleted > 0 {
		s.logger.Debug("Deleted keys by pattern",
			zap.String("pattern", pattern),
			zap.Int("count", deleted),
		)
	}
	return true
}

func (s *RedisStore) deleteBatch(ctx context.Context, keys []string) int {
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		s.logger.Warn("Redis DEL batch failed", zap.Error(err))
		return 0
	}
	return int(n)
}

// Close stops the monitor and releases the client
func (s *RedisStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return s.client.Close()
}

func (s *RedisStore) markDisconnected() {
	if s.connected.CompareAndSwap(true, false) {
		s.logger.Warn("Redis connection lost, degrading to direct reads")
	}
}

// monitor pings the backend periodically and drives reconnection with
// bounded backoff once the connection drops.
func (s *RedisStore) monitor() {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if s.abandoned.Load() {
				return
			}
			if s.connected.Load() {
				if err := s.ping(); err != nil {
					s.markDisconnected()
				}
				continue
			}
			s.reconnect()
		}
	}
}

func (s *RedisStore) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) reconnect() {
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		delay := time.Duration(attempt) * reconnectBaseDelay
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}

		select {
		case <-s.stopCh:
			return
		case <-time.After(delay):
		}

		if err := s.ping(); err == nil {
			s.connected.Store(true)
			s.logger.Info("Redis reconnected", zap.Int("attempt", attempt))
			return
		}

		s.logger.Debug("Redis reconnect attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("nextDelay", delay),
		)
	}

	s.abandoned.Store(true)
	s.logger.Error("Redis reconnection abandoned, cache disabled until restart",
		zap.Int("attempts", maxReconnectAttempts),
	)
}
