package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/lock"
	"github.com/polkiloo/storefront/internal/metrics"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newClock,
	newRecorder,
	NewAuthUseCase,
	NewCartValidator,
	NewCartUseCase,
	NewOrderSequencer,
	newPlacementUseCase,
	NewOrderUseCase,
	NewRegistryUseCase,
)

func newClock(cfg *config.Config) Clock {
	return SystemClock{Location: cfg.Location}
}

func newRecorder(m *metrics.Metrics) Recorder {
	return m
}

type placementParams struct {
	fx.In

	Config    *config.Config
	Carts     repository.CartRepository
	Slots     repository.DeliverySlotRepository
	Modes     repository.PaymentModeRepository
	Addresses repository.AddressRepository
	Orders    repository.OrderRepository
	Sequencer *OrderSequencer
	Validator *CartValidator
	Locker    lock.Locker
	Clock     Clock
	Metrics   Recorder
	Logger    *slog.Logger
}

func newPlacementUseCase(p placementParams) *PlacementUseCase {
	return NewPlacementUseCase(PlacementDeps{
		Carts:     p.Carts,
		Slots:     p.Slots,
		Modes:     p.Modes,
		Addresses: p.Addresses,
		Orders:    p.Orders,
		Sequencer: p.Sequencer,
		Validator: p.Validator,
		Locker:    p.Locker,
		Clock:     p.Clock,
		Metrics:   p.Metrics,
		Logger:    p.Logger,
	}, PlacementOptions{
		Pricing: Pricing{
			TaxRate:        p.Config.TaxRate,
			DeliveryCharge: p.Config.DeliveryCharge,
		},
		Attempts:   p.Config.PlaceOrderAttempts,
		Revalidate: p.Config.RevalidateOnPlace,
	})
}
