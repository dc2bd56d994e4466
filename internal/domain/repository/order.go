package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderMutator changes a locked order in place. Returning a nil event means
// nothing changed and no write happens.
type OrderMutator func(order *model.Order) (*model.OrderEvent, error)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Place stores the order together with its outbox event and empties the
	// customer's cart in the same transaction.
	Place(ctx context.Context, order *model.Order, event model.OrderEvent, cartVersion *int64) error
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, number string, mutate OrderMutator) (*model.Order, error)
	Delete(ctx context.Context, number string) error
	SelectPendingPayments(ctx context.Context, limit int) ([]model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus, event *model.OrderEvent) error
}

// SequenceRepository hands out per-day order counters.
type SequenceRepository interface {
	Next(ctx context.Context, day string) (int64, error)
	// Resync raises the day's counter to the highest persisted order number
	// carrying that day prefix.
	Resync(ctx context.Context, day string) error
}

// OutboxRepository gives the relay access to unsent order events.
type OutboxRepository interface {
	FetchPending(ctx context.Context, limit int) ([]model.OrderEvent, error)
	MarkSent(ctx context.Context, id int64) error
}
