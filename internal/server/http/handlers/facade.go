package handlers

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/usecase"
)

// AuthFacade resolves request credentials.
type AuthFacade interface {
	ParseToken(token string) (int64, error)
	AuthorizeAdmin(key string) error
}

// CartFacade exposes cart maintenance and validation.
type CartFacade interface {
	Cart(ctx context.Context, customerID int64) (*model.Cart, error)
	AddCartItem(ctx context.Context, customerID int64, storeCode, projectCode string, item model.CartItem) (*model.Cart, error)
	SaveCart(ctx context.Context, in usecase.SaveCartInput) (*model.Cart, error)
	ClearCart(ctx context.Context, customerID int64) error
	ValidateCart(ctx context.Context, customerID int64, storeCode, projectCode string) (model.ValidationVerdict, error)
}

// OrderFacade exposes placement, history and administration of orders.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) (*model.Order, error)
	Orders(ctx context.Context, customerID int64) ([]model.Order, error)
	Order(ctx context.Context, customerID int64, number string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, number, status string) (*model.Order, error)
	DeleteOrder(ctx context.Context, number string) error
}

// RegistryFacade exposes delivery slots, payment modes and addresses.
type RegistryFacade interface {
	DeliverySlots(ctx context.Context, storeCode string) ([]model.DeliverySlot, error)
	PaymentModes(ctx context.Context) ([]model.PaymentMode, error)
	Addresses(ctx context.Context, customerID int64) ([]model.Address, error)
	CreateAddress(ctx context.Context, customerID int64, address model.Address) (*model.Address, error)
}

// HealthFacade reports readiness of backing stores.
type HealthFacade interface {
	Ping(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CartFacade
	OrderFacade
	RegistryFacade
	HealthFacade
}
