package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// CartValidator reconciles cart lines against the live catalog.
type CartValidator struct {
	catalog repository.CatalogRepository
	logger  *slog.Logger
}

// NewCartValidator constructs CartValidator.
func NewCartValidator(catalog repository.CatalogRepository, logger *slog.Logger) *CartValidator {
	return &CartValidator{catalog: catalog, logger: logger}
}

// Validate checks every line independently. A lookup failure on one line is
// reported as a validation error for that line only. Price drift alone keeps
// the verdict valid and is reported in UpdatedItems.
func (v *CartValidator) Validate(ctx context.Context, cart *model.Cart, storeCode string) model.ValidationVerdict {
	verdict := model.ValidationVerdict{
		Valid:        true,
		InvalidItems: []model.InvalidItem{},
		UpdatedItems: []model.PriceChange{},
	}
	if cart == nil || cart.IsEmpty() {
		return verdict
	}

	verdict.TotalItems = len(cart.Items)
	for _, item := range cart.Items {
		invalid, change := v.checkItem(ctx, item, storeCode)
		if invalid != nil {
			verdict.Valid = false
			verdict.InvalidItems = append(verdict.InvalidItems, *invalid)
			continue
		}
		verdict.ValidItems++
		if change != nil {
			verdict.UpdatedItems = append(verdict.UpdatedItems, *change)
		}
	}
	return verdict
}

func (v *CartValidator) checkItem(ctx context.Context, item model.CartItem, storeCode string) (invalid *model.InvalidItem, change *model.PriceChange) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("cart item validation panicked",
				slog.String("p_code", item.ProductCode),
				slog.String("error", fmt.Sprint(r)),
			)
			invalid = newInvalidItem(item, model.ReasonValidationError)
			change = nil
		}
	}()

	store := item.StoreCode
	if store == "" {
		store = storeCode
	}

	entry, err := v.catalog.Get(ctx, item.ProductCode, store)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return newInvalidItem(item, model.ReasonNotFoundOrInactive), nil
		}
		v.logger.Warn("catalog lookup failed",
			slog.String("p_code", item.ProductCode),
			slog.String("store_code", store),
			slog.String("error", err.Error()),
		)
		return newInvalidItem(item, model.ReasonValidationError), nil
	}
	if !entry.Active {
		return newInvalidItem(item, model.ReasonNotFoundOrInactive), nil
	}

	if entry.Stock < item.Quantity {
		invalid := newInvalidItem(item, model.ReasonInsufficientStock)
		available := entry.Stock
		invalid.Available = &available
		return invalid, nil
	}

	if entry.MaxQuantity > 0 && item.Quantity > entry.MaxQuantity {
		invalid := newInvalidItem(item, model.ReasonExceedsMaxQuantity)
		maxAllowed := entry.MaxQuantity
		invalid.MaxAllowed = &maxAllowed
		return invalid, nil
	}

	if !entry.Price.Equal(item.UnitPrice) {
		return nil, &model.PriceChange{
			ProductCode: item.ProductCode,
			Name:        item.Name,
			OldPrice:    item.UnitPrice,
			NewPrice:    entry.Price,
			Delta:       entry.Price.Sub(item.UnitPrice),
		}
	}
	return nil, nil
}

func newInvalidItem(item model.CartItem, reason model.InvalidReason) *model.InvalidItem {
	return &model.InvalidItem{
		ProductCode: item.ProductCode,
		Name:        item.Name,
		Requested:   item.Quantity,
		Reason:      reason,
	}
}
