// Package cache stores JSON encoded values in Redis under a key prefix.
// A nil client turns every call into a miss or a no-op, so callers need
// no special casing when Redis is not configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent
var ErrMiss = errors.New("cache miss")

// ICache defines a typed cache
type ICache[T any] interface {
	Get(ctx context.Context, key string) (*T, error)
	Set(ctx context.Context, key string, value *T) error
	Delete(ctx context.Context, key string) error
}

// Cache implements ICache on Redis strings
type Cache[T any] struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCache creates a cache whose entries live for ttl, 0 meaning forever
func NewCache[T any](rc *redis.Client, prefix string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{rc: rc, prefix: prefix, ttl: ttl}
}

// Key returns the Redis key of an entry
func (c *Cache[T]) Key(key string) string {
	return c.prefix + ":" + key
}

// Get returns the cached value or ErrMiss
func (c *Cache[T]) Get(ctx context.Context, key string) (*T, error) {
	if c.rc == nil {
		return nil, ErrMiss
	}

	raw, err := c.rc.Get(ctx, c.Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &v, nil
}

// Set stores value
func (c *Cache[T]) Set(ctx context.Context, key string, value *T) error {
	if c.rc == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := c.rc.Set(ctx, c.Key(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes key
func (c *Cache[T]) Delete(ctx context.Context, key string) error {
	if c.rc == nil {
		return nil
	}
	if err := c.rc.Del(ctx, c.Key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
