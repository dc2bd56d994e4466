package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/storefront/internal/adapter/events"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// EventRelay moves order events from the outbox to the event stream.
// Events are published in outbox order; a failed publish stops the batch so
// later events of the same order are not delivered ahead of it.
type EventRelay struct {
	outbox       repository.OutboxRepository
	publisher    events.Publisher
	pollInterval time.Duration
	batchSize    int
	logger       *slog.Logger
	metrics      Recorder

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventRelay constructs the outbox relay.
func NewEventRelay(outbox repository.OutboxRepository, publisher events.Publisher, pollInterval time.Duration, batchSize int, logger *slog.Logger, metrics Recorder) *EventRelay {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &EventRelay{
		outbox:       outbox,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
		metrics:      recorderOrNop(metrics),
	}
}

// Start launches the polling loop. Without an event stream the events stay
// in the outbox and nothing is started.
func (r *EventRelay) Start(ctx context.Context) {
	if !r.publisher.Enabled() {
		r.logger.Info("event stream not configured, order events stay in the outbox")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop waits for the loop to finish.
func (r *EventRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *EventRelay) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.relayBatch(ctx)
		}
	}
}

// relayBatch publishes one batch and reports how many events were delivered.
func (r *EventRelay) relayBatch(ctx context.Context) int {
	pending, err := r.outbox.FetchPending(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch outbox events failed", slog.String("error", err.Error()))
		return 0
	}

	delivered := 0
	for _, event := range pending {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.metrics.EventRelayed(outcomeFailed)
			r.logger.Error("publish order event failed",
				slog.Int64("id", event.ID), slog.String("type", event.Type), slog.String("error", err.Error()))
			return delivered
		}
		if err := r.outbox.MarkSent(ctx, event.ID); err != nil {
			r.logger.Error("mark order event sent failed", slog.Int64("id", event.ID), slog.String("error", err.Error()))
			return delivered
		}
		r.metrics.EventRelayed(outcomeSent)
		delivered++
	}
	return delivered
}
