// Package cache is a small JSON cache on top of Redis. A nil *Cache or a
// Cache without a client is a valid no-op cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "eshelf:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Connect parses a redis:// URL, verifies the connection and returns a cache.
func Connect(ctx context.Context, redisURL, password string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return New(rdb, ttl, logger), nil
}

func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the value at key into dst and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache_get_failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache_decode_failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores v under key with the cache TTL. Failures are logged only.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache_encode_failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache_set_failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.logger.Warn("cache_delete_failed", "keys", keys, "error", err)
	}
}

// DeletePrefix removes every key starting with prefix, scanning in batches.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) {
	if !c.enabled() {
		return
	}
	var batch []string
	iter := c.client.Scan(ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			c.del(ctx, prefix, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache_scan_failed", "prefix", prefix, "error", err)
	}
	if len(batch) > 0 {
		c.del(ctx, prefix, batch)
	}
}

func (c *Cache) del(ctx context.Context, prefix string, keys []string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache_delete_failed", "prefix", prefix, "error", err)
	}
}

func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}
