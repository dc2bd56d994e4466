package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/polkiloo/storefront/internal/cache"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// RegistryUseCase serves delivery slots, payment modes and address books.
type RegistryUseCase struct {
	slots     repository.DeliverySlotRepository
	modes     repository.PaymentModeRepository
	addresses repository.AddressRepository
	cache     *cache.Cache
}

// NewRegistryUseCase constructs RegistryUseCase.
func NewRegistryUseCase(
	slots repository.DeliverySlotRepository,
	modes repository.PaymentModeRepository,
	addresses repository.AddressRepository,
	c *cache.Cache,
) *RegistryUseCase {
	return &RegistryUseCase{slots: slots, modes: modes, addresses: addresses, cache: c}
}

// DeliverySlots lists active slots of a store by sort order, then start time.
func (u *RegistryUseCase) DeliverySlots(ctx context.Context, storeCode string) ([]model.DeliverySlot, error) {
	return cache.Fetch(ctx, u.cache, "slots:"+storeCode, func(ctx context.Context) ([]model.DeliverySlot, error) {
		slots, err := u.slots.ListByStore(ctx, storeCode)
		if err != nil {
			return nil, err
		}
		active := make([]model.DeliverySlot, 0, len(slots))
		for _, s := range slots {
			if s.Active {
				active = append(active, s)
			}
		}
		sort.SliceStable(active, func(i, j int) bool {
			if active[i].SortOrder != active[j].SortOrder {
				return active[i].SortOrder < active[j].SortOrder
			}
			return active[i].StartTime < active[j].StartTime
		})
		return active, nil
	})
}

// PaymentModes lists enabled payment modes by sort order, then name.
func (u *RegistryUseCase) PaymentModes(ctx context.Context) ([]model.PaymentMode, error) {
	return cache.Fetch(ctx, u.cache, "payment_modes", func(ctx context.Context) ([]model.PaymentMode, error) {
		modes, err := u.modes.ListEnabled(ctx)
		if err != nil {
			return nil, err
		}
		enabled := make([]model.PaymentMode, 0, len(modes))
		for _, m := range modes {
			if m.Enabled {
				enabled = append(enabled, m)
			}
		}
		sort.SliceStable(enabled, func(i, j int) bool {
			if enabled[i].SortOrder != enabled[j].SortOrder {
				return enabled[i].SortOrder < enabled[j].SortOrder
			}
			return enabled[i].Name < enabled[j].Name
		})
		return enabled, nil
	})
}

func addressesKey(customerID int64) string {
	return "addresses:" + strconv.FormatInt(customerID, 10)
}

// Addresses lists the customer's address book, default entry first.
func (u *RegistryUseCase) Addresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	return cache.Fetch(ctx, u.cache, addressesKey(customerID), func(ctx context.Context) ([]model.Address, error) {
		addresses, err := u.addresses.ListByCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(addresses, func(i, j int) bool {
			if addresses[i].IsDefault != addresses[j].IsDefault {
				return addresses[i].IsDefault
			}
			return addresses[i].ID < addresses[j].ID
		})
		return addresses, nil
	})
}

// CreateAddress adds an entry to the customer's address book.
func (u *RegistryUseCase) CreateAddress(ctx context.Context, customerID int64, address model.Address) (*model.Address, error) {
	address.ID = 0
	address.CustomerID = customerID
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if err := u.addresses.Create(ctx, &address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	u.cache.Invalidate(ctx, addressesKey(customerID))
	return &address, nil
}
