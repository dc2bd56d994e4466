package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic after placement.
type OrderUseCase struct {
	orders  repository.OrderRepository
	clock   Clock
	metrics Recorder
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, clock Clock, metrics Recorder) *OrderUseCase {
	return &OrderUseCase{orders: orders, clock: clock, metrics: recorderOrNop(metrics)}
}

// Get returns the order when it belongs to the customer. Orders of other
// customers are reported as not found.
func (u *OrderUseCase) Get(ctx context.Context, customerID int64, number string) (*model.Order, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// List returns the customer's orders, newest first.
func (u *OrderUseCase) List(ctx context.Context, customerID int64) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// UpdateStatus moves the order to the requested status under a row lock.
// Repeating the current status is accepted without a write.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, number, rawStatus string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	changed := false
	order, err := u.orders.UpdateStatus(ctx, number, func(o *model.Order) (*model.OrderEvent, error) {
		now := u.clock.Now()
		ok, err := o.TransitionTo(next, now)
		if err != nil || !ok {
			return nil, err
		}
		changed = true
		event, err := model.NewOrderEvent(model.EventOrderStatusChanged, o, now)
		if err != nil {
			return nil, err
		}
		return &event, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		u.metrics.OrderTransitioned(string(next))
	}
	return order, nil
}

// Delete removes an order that is still placed or already cancelled.
func (u *OrderUseCase) Delete(ctx context.Context, number string) error {
	return u.orders.Delete(ctx, number)
}

// PendingPayments returns orders whose payment awaits confirmation.
func (u *OrderUseCase) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectPendingPayments(ctx, limit)
}

// UpdatePaymentStatus stores the processor's verdict, emitting an event when
// the status changed.
func (u *OrderUseCase) UpdatePaymentStatus(ctx context.Context, order model.Order, status model.PaymentStatus) error {
	if order.Payment.Status == status {
		return nil
	}
	order.Payment.Status = status
	event, err := model.NewOrderEvent(model.EventOrderPaymentUpdated, &order, u.clock.Now())
	if err != nil {
		return err
	}
	err = u.orders.UpdatePaymentStatus(ctx, order.ID, status, &event)
	if errors.Is(err, domainErrors.ErrNotFound) {
		// deleted while the processor was being polled
		return nil
	}
	return err
}
