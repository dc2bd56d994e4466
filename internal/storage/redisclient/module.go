package redisclient

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module provides an optional *redis.Client shared by locks and caches.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Invoke(registerLifecycle),
)

func newClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	return New(Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}, logger)
}

func registerLifecycle(lc fx.Lifecycle, client *redis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return Ping(ctx, client)
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
