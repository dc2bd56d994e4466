package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss is returned when the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

const (
	defaultTTL = 5 * time.Minute
	keyPrefix  = "storefront:"
)

// Cache stores JSON encoded values in Redis. A Cache without a client passes
// every lookup through to the loader.
type Cache struct {
	client  *redis.Client
	baseTTL time.Duration
	group   singleflight.Group
	logger  *slog.Logger
}

// New constructs Cache. client may be nil.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, baseTTL: ttl, logger: logger}
}

// Enabled reports whether values are actually cached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cached value: %w", err)
	}
	return nil
}

func (c *Cache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cached value: %w", err)
	}
	jitter := time.Duration(rand.Int63n(int64(c.baseTTL)/5 + 1))
	if err := c.client.Set(ctx, keyPrefix+key, data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached value for key. A failed delete is logged and
// leaves the value to expire with its TTL.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		c.logger.Warn("cache invalidate", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Fetch returns the cached value for key or calls load, caching its result.
// Concurrent misses for one key share a single load. Redis failures are
// logged and fall back to load.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var cached T
		err := c.get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("cache get", slog.String("key", key), slog.String("error", err.Error()))
		}

		fresh, err := load(ctx)
		if err != nil {
			return fresh, err
		}
		if err := c.set(ctx, key, fresh); err != nil {
			c.logger.Warn("cache set", slog.String("key", key), slog.String("error", err.Error()))
		}
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
