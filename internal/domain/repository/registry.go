package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// DeliverySlotRepository looks up delivery windows.
type DeliverySlotRepository interface {
	Get(ctx context.Context, id int64) (*model.DeliverySlot, error)
	ListByStore(ctx context.Context, storeCode string) ([]model.DeliverySlot, error)
}

// PaymentModeRepository looks up payment options.
type PaymentModeRepository interface {
	Get(ctx context.Context, id int64) (*model.PaymentMode, error)
	ListEnabled(ctx context.Context) ([]model.PaymentMode, error)
}

// AddressRepository manages customer address books.
type AddressRepository interface {
	Get(ctx context.Context, id int64) (*model.Address, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error)
	Create(ctx context.Context, address *model.Address) error
}
