package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/storefront/internal/adapter/payment"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the reconciler.
type PaymentFacade interface {
	PendingPayments(ctx context.Context, limit int) ([]model.Order, error)
	CheckPayment(ctx context.Context, transactionID string) (*model.PaymentReport, error)
	UpdatePaymentStatus(ctx context.Context, order model.Order, status model.PaymentStatus) error
	PaymentsEnabled() bool
}

// PaymentReconciler polls the payment processor for orders with pending
// payments and stores the settled status, using a fixed pool of workers.
type PaymentReconciler struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger
	metrics      Recorder

	jobs     chan model.Order
	inflight atomic.Int64
	wg       sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	// pauseUntil is set when the processor asks us to back off.
	pauseMu    sync.Mutex
	pauseUntil time.Time
}

// NewPaymentReconciler constructs the reconciler worker pool.
func NewPaymentReconciler(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger, metrics Recorder) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		metrics:      recorderOrNop(metrics),
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing. Without a configured payment
// processor nothing is started.
func (p *PaymentReconciler) Start(ctx context.Context) {
	if !p.facade.PaymentsEnabled() {
		p.logger.Info("payment processor not configured, reconciler not started")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.paused() || p.inflight.Load() > 0 {
				continue
			}
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.PendingPayments(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		p.inflight.Add(1)
		select {
		case <-ctx.Done():
			p.inflight.Add(-1)
			return
		case p.jobs <- order:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
			p.inflight.Add(-1)
		}
	}
}

func (p *PaymentReconciler) handleOrder(ctx context.Context, order model.Order) {
	txID := order.Payment.TransactionID
	if txID == "" {
		txID = order.Payment.Details.TransactionID
	}
	if txID == "" {
		p.logger.Warn("pending payment without transaction id", slog.String("order", order.Number))
		return
	}

	report, err := p.facade.CheckPayment(ctx, txID)
	if err != nil {
		var tooMany payment.TooManyRequestsError
		switch {
		case errors.As(err, &tooMany):
			p.logger.Warn("payment processor rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
			p.metrics.PaymentChecked(outcomeRateLimited)
			p.pause(tooMany.RetryAfter)
			sleep(ctx, tooMany.RetryAfter)
		case errors.Is(err, payment.ErrPaymentNotRegistered):
			p.metrics.PaymentChecked(outcomeNotRegistered)
			p.logger.Debug("payment not registered yet", slog.String("order", order.Number))
		default:
			p.metrics.PaymentChecked(outcomeError)
			p.logger.Error("payment status fetch failed", slog.String("order", order.Number), slog.String("error", err.Error()))
		}
		return
	}

	if report.Status == model.PaymentStatusPending {
		p.metrics.PaymentChecked(outcomePending)
		return
	}
	if err := p.facade.UpdatePaymentStatus(ctx, order, report.Status); err != nil {
		p.metrics.PaymentChecked(outcomeError)
		p.logger.Error("update payment status failed", slog.String("order", order.Number), slog.String("error", err.Error()))
		return
	}
	p.metrics.PaymentChecked(outcomeSettled)
	p.logger.Info("payment reconciled", slog.String("order", order.Number), slog.String("status", string(report.Status)))
}

func (p *PaymentReconciler) pause(d time.Duration) {
	p.pauseMu.Lock()
	defer p.pauseMu.Unlock()
	if until := time.Now().Add(d); until.After(p.pauseUntil) {
		p.pauseUntil = until
	}
}

func (p *PaymentReconciler) paused() bool {
	p.pauseMu.Lock()
	defer p.pauseMu.Unlock()
	return time.Now().Before(p.pauseUntil)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
