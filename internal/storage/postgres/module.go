package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters. The catalog
// repository is chosen by the catalog adapter module.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(s *Storage) repository.CartRepository { return s.Carts() },
		func(s *Storage) repository.DeliverySlotRepository { return s.DeliverySlots() },
		func(s *Storage) repository.PaymentModeRepository { return s.PaymentModes() },
		func(s *Storage) repository.AddressRepository { return s.Addresses() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.SequenceRepository { return s.Sequences() },
		func(s *Storage) repository.OutboxRepository { return s.Outbox() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
