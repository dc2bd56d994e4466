package usecase

import (
	"context"
	"fmt"

	"github.com/polkiloo/storefront/internal/domain/repository"
)

const (
	orderNumberPrefixLayout = "060102"
	orderNumberPrefixLen    = len(orderNumberPrefixLayout)
)

// OrderSequencer mints order numbers of the form YYMMDD followed by a
// zero padded per-day counter.
type OrderSequencer struct {
	sequences repository.SequenceRepository
	clock     Clock
}

// NewOrderSequencer constructs OrderSequencer.
func NewOrderSequencer(sequences repository.SequenceRepository, clock Clock) *OrderSequencer {
	return &OrderSequencer{sequences: sequences, clock: clock}
}

// Next returns the next number for the current day.
func (s *OrderSequencer) Next(ctx context.Context) (string, error) {
	day := s.clock.Now().Format(orderNumberPrefixLayout)
	value, err := s.sequences.Next(ctx, day)
	if err != nil {
		return "", fmt.Errorf("next order sequence: %w", err)
	}
	return fmt.Sprintf("%s%04d", day, value), nil
}

// Resync moves the counter of the day that number belongs to past every
// persisted order of that day.
func (s *OrderSequencer) Resync(ctx context.Context, number string) error {
	if len(number) < orderNumberPrefixLen {
		return fmt.Errorf("resync order sequence: malformed number %q", number)
	}
	if err := s.sequences.Resync(ctx, number[:orderNumberPrefixLen]); err != nil {
		return fmt.Errorf("resync order sequence: %w", err)
	}
	return nil
}
