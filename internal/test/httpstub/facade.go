// Package httpstub holds facade stubs for HTTP handler and router tests.
package httpstub

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/test"
	"github.com/polkiloo/storefront/internal/usecase"
)

// CartFacadeStub simulates cart operations.
type CartFacadeStub struct {
	CartFn     func(context.Context, int64) (*model.Cart, error)
	AddFn      func(context.Context, int64, string, string, model.CartItem) (*model.Cart, error)
	SaveFn     func(context.Context, usecase.SaveCartInput) (*model.Cart, error)
	ClearFn    func(context.Context, int64) error
	ValidateFn func(context.Context, int64, string, string) (model.ValidationVerdict, error)
}

// Cart returns an empty cart unless overridden.
func (s CartFacadeStub) Cart(ctx context.Context, customerID int64) (*model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, customerID)
	}
	return model.NewCart(customerID), nil
}

// AddCartItem returns a cart holding only item unless overridden.
func (s CartFacadeStub) AddCartItem(ctx context.Context, customerID int64, storeCode, projectCode string, item model.CartItem) (*model.Cart, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, customerID, storeCode, projectCode, item)
	}
	cart := model.NewCart(customerID)
	cart.StoreCode, cart.ProjectCode = storeCode, projectCode
	cart.Upsert(item)
	cart.Version = 1
	return cart, nil
}

// SaveCart echoes the input as a stored cart unless overridden.
func (s CartFacadeStub) SaveCart(ctx context.Context, in usecase.SaveCartInput) (*model.Cart, error) {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, in)
	}
	cart := model.NewCart(in.CustomerID)
	cart.StoreCode, cart.ProjectCode = in.StoreCode, in.ProjectCode
	cart.Items = append(cart.Items, in.Items...)
	cart.Recalculate()
	cart.Version = 1
	return cart, nil
}

// ClearCart succeeds unless overridden.
func (s CartFacadeStub) ClearCart(ctx context.Context, customerID int64) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, customerID)
	}
	return nil
}

// ValidateCart reports a valid empty cart unless overridden.
func (s CartFacadeStub) ValidateCart(ctx context.Context, customerID int64, storeCode, projectCode string) (model.ValidationVerdict, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, customerID, storeCode, projectCode)
	}
	return model.ValidationVerdict{Valid: true}, nil
}

// OrderFacadeStub simulates order operations.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, usecase.PlaceOrderInput) (*model.Order, error)
	OrdersFn func(context.Context, int64) ([]model.Order, error)
	OrderFn  func(context.Context, int64, string) (*model.Order, error)
	UpdateFn func(context.Context, string, string) (*model.Order, error)
	DeleteFn func(context.Context, string) error
}

// PlaceOrder returns SampleOrder unless overridden.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, in)
	}
	order := SampleOrder(in.CustomerID)
	return &order, nil
}

// Orders returns no orders unless overridden.
func (s OrderFacadeStub) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, customerID)
	}
	return nil, nil
}

// Order returns SampleOrder with the requested number unless overridden.
func (s OrderFacadeStub) Order(ctx context.Context, customerID int64, number string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, customerID, number)
	}
	order := SampleOrder(customerID)
	order.Number = number
	return &order, nil
}

// UpdateOrderStatus applies status to SampleOrder unless overridden.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, number, status string) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, number, status)
	}
	order := SampleOrder(1)
	order.Number = number
	order.Status = model.OrderStatus(status)
	return &order, nil
}

// DeleteOrder succeeds unless overridden.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, number string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, number)
	}
	return nil
}

// RegistryFacadeStub simulates reference data lookups.
type RegistryFacadeStub struct {
	SlotsFn     func(context.Context, string) ([]model.DeliverySlot, error)
	ModesFn     func(context.Context) ([]model.PaymentMode, error)
	AddressesFn func(context.Context, int64) ([]model.Address, error)
	CreateFn    func(context.Context, int64, model.Address) (*model.Address, error)
}

// DeliverySlots returns nothing unless overridden.
func (s RegistryFacadeStub) DeliverySlots(ctx context.Context, storeCode string) ([]model.DeliverySlot, error) {
	if s.SlotsFn != nil {
		return s.SlotsFn(ctx, storeCode)
	}
	return nil, nil
}

// PaymentModes returns nothing unless overridden.
func (s RegistryFacadeStub) PaymentModes(ctx context.Context) ([]model.PaymentMode, error) {
	if s.ModesFn != nil {
		return s.ModesFn(ctx)
	}
	return nil, nil
}

// Addresses returns nothing unless overridden.
func (s RegistryFacadeStub) Addresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	if s.AddressesFn != nil {
		return s.AddressesFn(ctx, customerID)
	}
	return nil, nil
}

// CreateAddress assigns id 1 unless overridden.
func (s RegistryFacadeStub) CreateAddress(ctx context.Context, customerID int64, address model.Address) (*model.Address, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customerID, address)
	}
	address.ID = 1
	address.CustomerID = customerID
	return &address, nil
}

// HealthFacadeStub reports Err from Ping.
type HealthFacadeStub struct {
	Err error
}

// Ping returns the configured error.
func (s HealthFacadeStub) Ping(context.Context) error {
	return s.Err
}

// StorefrontFacadeStub combines every facade stub used by the router.
type StorefrontFacadeStub struct {
	test.AuthFacadeStub
	CartFacadeStub
	OrderFacadeStub
	RegistryFacadeStub
	HealthFacadeStub
}

// SampleOrder builds a placed order owned by customerID.
func SampleOrder(customerID int64) model.Order {
	placed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(18)
	return model.Order{
		ID:          1,
		Number:      "2403010001",
		CustomerID:  customerID,
		StoreCode:   "S1",
		ProjectCode: "P1",
		Status:      model.OrderStatusPlaced,
		Items: []model.CartItem{{
			ProductCode: "2390", Name: "Milk", Quantity: 2, UnitPrice: price, TotalPrice: price.Mul(decimal.NewFromInt(2)),
		}},
		Delivery: model.DeliveryInfo{SlotID: 3, SlotLabel: "Morning", StartTime: "08:00", EndTime: "11:00", Date: "2024-03-02", AddressID: 7},
		Payment:  model.PaymentInfo{ModeID: 2, ModeCode: "cod", ModeName: "Cash on delivery", Status: model.PaymentStatusUnpaid},
		Summary: model.OrderSummary{
			Subtotal:       decimal.NewFromInt(36),
			DeliveryCharge: decimal.Zero,
			Tax:            decimal.RequireFromString("1.8"),
			Discount:       decimal.Zero,
			Total:          decimal.RequireFromString("37.8"),
			TotalItems:     1,
			TotalQuantity:  2,
		},
		PlacedAt:  placed,
		UpdatedAt: placed,
	}
}
