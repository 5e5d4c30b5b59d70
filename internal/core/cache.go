// AngelaMos | 2026
// cache.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON cache-aside layer over redis. A nil *Cache is valid and
// always falls through to the loader.
type Cache struct {
	client *redis.Client
	prefix string
}

func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) Key(parts ...string) string {
	if c == nil || c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Aside returns the cached value under key or calls load and stores its
// result for ttl. Redis failures are logged and never fail the request.
func Aside[T any](
	ctx context.Context,
	c *Cache,
	family, key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			CacheResults.WithLabelValues(family, "hit").Inc()
			return cached, nil
		}
		CacheResults.WithLabelValues(family, "error").Inc()
	case errors.Is(err, redis.Nil):
		CacheResults.WithLabelValues(family, "miss").Inc()
	default:
		CacheResults.WithLabelValues(family, "error").Inc()
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return value, nil
	}

	if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}

	return value, nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "cache invalidate failed", "keys", keys, "error", err)
	}
}
