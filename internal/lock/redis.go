package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

const retryStep = 50 * time.Millisecond

// RedisLocker holds keys through redislock so that every replica sees them.
type RedisLocker struct {
	client *redislock.Client
	opts   Options
	logger *slog.Logger
}

// NewRedisLocker constructs RedisLocker on top of an existing client.
func NewRedisLocker(client *redis.Client, opts Options, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(client), opts: opts.normalize(), logger: logger}
}

// Acquire implements Locker.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	retries := int(l.opts.Wait / retryStep)
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.opts.TTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryStep), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domainErrors.ErrCartBusy
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domainErrors.ErrCartBusy, ctx.Err())
		}
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(lk, key, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.logger.Warn("release lock", slog.String("key", key), slog.String("error", err.Error()))
			}
		})
	}, nil
}

// keepAlive extends the lock every half TTL until stop is closed.
func (l *RedisLocker) keepAlive(lk *redislock.Lock, key string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.opts.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.opts.TTL/2)
			err := lk.Refresh(ctx, l.opts.TTL, nil)
			cancel()
			if errors.Is(err, redislock.ErrNotObtained) {
				l.logger.Warn("lock lost before release", slog.String("key", key))
				return
			}
			if err != nil {
				l.logger.Warn("refresh lock", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
	}
}
