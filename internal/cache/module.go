package cache

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Module provides the shared registry Cache.
var Module = fx.Provide(newCache)

type cacheParams struct {
	fx.In

	Client *redis.Client `optional:"true"`
	Logger *slog.Logger
}

func newCache(p cacheParams) *Cache {
	return New(p.Client, defaultTTL, p.Logger)
}
