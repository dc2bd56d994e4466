package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CartRepository persists one cart per customer. A non-nil expectedVersion
// makes the write conditional and fails with ErrCartVersionConflict when the
// stored version differs.
type CartRepository interface {
	Get(ctx context.Context, customerID int64) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart, expectedVersion *int64) error
	Clear(ctx context.Context, customerID int64, expectedVersion *int64) error
}

// CatalogRepository is the read side of the product catalog.
type CatalogRepository interface {
	Get(ctx context.Context, productCode, storeCode string) (*model.CatalogEntry, error)
}
