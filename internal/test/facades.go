package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// PaymentUpdateCall stores information about UpdatePaymentStatus invocations.
type PaymentUpdateCall struct {
	OrderID int64
	Number  string
	Status  model.PaymentStatus
}

// PaymentFacadeStub mimics reconciler interactions with the storefront facade.
type PaymentFacadeStub struct {
	Orders          [][]model.Order
	OrdersFn        func(context.Context, int) ([]model.Order, error)
	CheckFn         func(context.Context, string) (*model.PaymentReport, error)
	UpdateFn        func(context.Context, model.Order, model.PaymentStatus) error
	Updates         []PaymentUpdateCall
	Checked         []string
	Disabled        bool
	mu              sync.Mutex
	ordersCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *PaymentFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PaymentFacadeStub) Unlock() { s.mu.Unlock() }

// PendingPayments returns batches from configured queue.
func (s *PaymentFacadeStub) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.ordersCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// PendingCalls reports how many times PendingPayments was served from the queue.
func (s *PaymentFacadeStub) PendingCalls() int {
	return int(atomic.LoadInt32(&s.ordersCallCount))
}

// PaymentsEnabled reports the processor as configured unless Disabled is set.
func (s *PaymentFacadeStub) PaymentsEnabled() bool { return !s.Disabled }

// CheckPayment returns configured report, paid by default.
func (s *PaymentFacadeStub) CheckPayment(ctx context.Context, transactionID string) (*model.PaymentReport, error) {
	s.mu.Lock()
	s.Checked = append(s.Checked, transactionID)
	s.mu.Unlock()
	if s.CheckFn != nil {
		return s.CheckFn(ctx, transactionID)
	}
	return &model.PaymentReport{TransactionID: transactionID, Status: model.PaymentStatusPaid}, nil
}

// UpdatePaymentStatus records update requests.
func (s *PaymentFacadeStub) UpdatePaymentStatus(ctx context.Context, order model.Order, status model.PaymentStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, order, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates = append(s.Updates, PaymentUpdateCall{OrderID: order.ID, Number: order.Number, Status: status})
	return nil
}

// PaymentClientStub answers payment status queries for tests.
type PaymentClientStub struct {
	StatusFn func(context.Context, string) (*model.PaymentReport, error)
	Report   *model.PaymentReport
	Err      error
	Disabled bool
}

// Enabled reports the stub as a configured processor unless Disabled is set.
func (s PaymentClientStub) Enabled() bool { return !s.Disabled }

// Status returns configured response or a paid report.
func (s PaymentClientStub) Status(ctx context.Context, transactionID string) (*model.PaymentReport, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, transactionID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Report != nil {
		return s.Report, nil
	}
	return &model.PaymentReport{TransactionID: transactionID, Status: model.PaymentStatusPaid}, nil
}

// PublisherStub records published events.
type PublisherStub struct {
	mu        sync.Mutex
	Published []model.OrderEvent
	// FailOn makes Publish fail for the event with this id.
	FailOn  int64
	Err     error
	Disable bool
}

// Publish stores events or fails as configured.
func (s *PublisherStub) Publish(ctx context.Context, events ...model.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		if s.Err != nil && (s.FailOn == 0 || s.FailOn == e.ID) {
			return s.Err
		}
		s.Published = append(s.Published, e)
	}
	return nil
}

// Enabled reports whether the stub behaves like a configured stream.
func (s *PublisherStub) Enabled() bool { return !s.Disable }

// Close is a no-op.
func (s *PublisherStub) Close() error { return nil }

// PublishedIDs returns a snapshot of published event ids.
func (s *PublisherStub) PublishedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.Published))
	for _, e := range s.Published {
		ids = append(ids, e.ID)
	}
	return ids
}
