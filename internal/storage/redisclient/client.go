package redisclient

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options describe how to reach Redis.
type Options struct {
	Addr     string
	Password string
}

// New returns nil when no address is configured; callers treat a nil client
// as "Redis disabled".
func New(opts Options, logger *slog.Logger) *redis.Client {
	if opts.Addr == "" {
		return nil
	}
	logger.Info("redis configured", slog.String("addr", opts.Addr))
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Ping verifies connectivity; a nil client is always healthy.
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
