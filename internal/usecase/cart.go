package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/lock"
)

// CartUseCase manages customer carts. Every mutation runs under the
// customer's cart lock.
type CartUseCase struct {
	carts     repository.CartRepository
	validator *CartValidator
	locker    lock.Locker
	metrics   Recorder
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, validator *CartValidator, locker lock.Locker, metrics Recorder) *CartUseCase {
	return &CartUseCase{carts: carts, validator: validator, locker: locker, metrics: recorderOrNop(metrics)}
}

// SaveCartInput replaces the lines of a cart.
type SaveCartInput struct {
	CustomerID      int64
	StoreCode       string
	ProjectCode     string
	Items           []model.CartItem
	ExpectedVersion *int64
}

// GetCart returns the stored cart or an empty one.
func (u *CartUseCase) GetCart(ctx context.Context, customerID int64) (*model.Cart, error) {
	cart, err := u.carts.Get(ctx, customerID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return model.NewCart(customerID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem inserts the line or replaces the one with the same product code.
func (u *CartUseCase) AddItem(ctx context.Context, customerID int64, storeCode, projectCode string, item model.CartItem) (*model.Cart, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	release, err := u.locker.Acquire(ctx, lock.CartKey(customerID))
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := u.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	applyCodes(cart, storeCode, projectCode)
	if item.StoreCode == "" {
		item.StoreCode = cart.StoreCode
	}
	cart.Upsert(item)

	expected := cart.Version
	if err := u.carts.Save(ctx, cart, &expected); err != nil {
		return nil, err
	}
	return cart, nil
}

// SaveCart replaces every line of the cart. A stale ExpectedVersion is
// rejected with ErrCartVersionConflict.
func (u *CartUseCase) SaveCart(ctx context.Context, in SaveCartInput) (*model.Cart, error) {
	seen := make(map[string]struct{}, len(in.Items))
	for i, item := range in.Items {
		if err := item.Validate(); err != nil {
			return nil, indexedFieldError(i, err)
		}
		if _, dup := seen[item.ProductCode]; dup {
			return nil, domainErrors.InvalidField(fmt.Sprintf("items[%d].p_code", i))
		}
		seen[item.ProductCode] = struct{}{}
	}

	release, err := u.locker.Acquire(ctx, lock.CartKey(in.CustomerID))
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := u.GetCart(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	expected := cart.Version
	if in.ExpectedVersion != nil {
		expected = *in.ExpectedVersion
	}

	applyCodes(cart, in.StoreCode, in.ProjectCode)
	cart.Items = make([]model.CartItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.StoreCode == "" {
			item.StoreCode = cart.StoreCode
		}
		cart.Items = append(cart.Items, item)
	}
	cart.Recalculate()

	if err := u.carts.Save(ctx, cart, &expected); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the cart.
func (u *CartUseCase) ClearCart(ctx context.Context, customerID int64) error {
	release, err := u.locker.Acquire(ctx, lock.CartKey(customerID))
	if err != nil {
		return err
	}
	defer release()

	return u.carts.Clear(ctx, customerID, nil)
}

// ValidateCart reconciles the customer's saved cart with the store catalog.
func (u *CartUseCase) ValidateCart(ctx context.Context, customerID int64, storeCode, projectCode string) (model.ValidationVerdict, error) {
	if strings.TrimSpace(storeCode) == "" {
		return model.ValidationVerdict{}, domainErrors.MissingField("store_code")
	}
	if strings.TrimSpace(projectCode) == "" {
		return model.ValidationVerdict{}, domainErrors.MissingField("project_code")
	}

	cart, err := u.GetCart(ctx, customerID)
	if err != nil {
		return model.ValidationVerdict{}, err
	}

	verdict := u.validator.Validate(ctx, cart, storeCode)
	u.metrics.ValidationCompleted(verdict.Result())
	return verdict, nil
}

func applyCodes(cart *model.Cart, storeCode, projectCode string) {
	if storeCode != "" {
		cart.StoreCode = storeCode
	}
	if projectCode != "" {
		cart.ProjectCode = projectCode
	}
}

func indexedFieldError(index int, err error) error {
	var fieldErr *domainErrors.FieldError
	if errors.As(err, &fieldErr) {
		return &domainErrors.FieldError{Field: fmt.Sprintf("items[%d].%s", index, fieldErr.Field), Err: fieldErr.Err}
	}
	return err
}
