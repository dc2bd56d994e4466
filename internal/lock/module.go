package lock

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module provides the cart Locker.
var Module = fx.Provide(newLocker)

type lockerParams struct {
	fx.In

	Config *config.Config
	Client *redis.Client `optional:"true"`
	Logger *slog.Logger
}

func newLocker(p lockerParams) Locker {
	opts := Options{TTL: p.Config.CartLockTTL}
	if p.Client == nil {
		p.Logger.Info("redis not configured, using in-process cart locks")
		return NewLocalLocker(opts)
	}
	return NewRedisLocker(p.Client, opts, p.Logger)
}
