package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/campusops/ccrm-api/pkg/errors"
)

// CacheStore provides helpers around Redis for caching rendered
// transcripts and reports. A nil client degrades every operation to a
// no-op so the API runs without Redis.
type CacheStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheStore constructs a cache store.
func NewCacheStore(client *redis.Client, logger *zap.Logger) *CacheStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheStore{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached value into dest.
func (c *CacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the value and stores it with the given TTL.
func (c *CacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// InvalidateStudent removes every cached artifact for the student.
// Called after any ledger mutation so stale transcripts never serve.
func (c *CacheStore) InvalidateStudent(ctx context.Context, studentID string) {
	if c == nil || c.client == nil {
		return
	}

	pattern := fmt.Sprintf("transcript:%s:*", studentID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("cache invalidation failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// Close releases the underlying Redis connection if present.
func (c *CacheStore) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
