// Package redis provides the cache-aside client for post read models.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/inkwell-backend/internal/config"
)

// Cache wraps a Redis client for read-aside caching. Entries live until the
// mutation worker invalidates them or the configured TTL expires, whichever
// comes first.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// NewCache creates a cache client and pings the server for fail-fast
// validation.
func NewCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{
		rdb: rdb,
		ttl: cfg.TTL,
		log: log.With("component", "cache"),
	}, nil
}

// Get returns the cached value for key. A miss is (nil, false, nil), not an
// error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Deleting absent keys is a no-op.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete %v: %w", keys, err)
	}
	return nil
}

// Ping probes the server connection. Used by the health endpoints.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
