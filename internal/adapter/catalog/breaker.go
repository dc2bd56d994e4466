package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

const (
	breakerName          = "catalog"
	breakerFailureStreak = 5
	breakerOpenTimeout   = 30 * time.Second
)

func defaultBreakerSettings(logger *slog.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureStreak
		},
		// A missing product is an answer, not a failure of the store.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domainErrors.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	}
}

func newBreaker(settings gobreaker.Settings) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](settings)
}

// execute runs fn through the breaker and reports a rejected call as
// ErrUnavailable.
func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: catalog: %v", domainErrors.ErrUnavailable, err)
		}
		return zero, err
	}
	typed, _ := result.(T)
	return typed, nil
}
