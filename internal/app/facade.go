package app

import (
	"context"
	"fmt"

	"github.com/polkiloo/storefront/internal/adapter/payment"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/usecase"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// FacadeDeps lists the use cases and adapters behind the facade.
type FacadeDeps struct {
	Auth      *usecase.AuthUseCase
	Carts     *usecase.CartUseCase
	Placement *usecase.PlacementUseCase
	Orders    *usecase.OrderUseCase
	Registry  *usecase.RegistryUseCase
	Payments  payment.Client
	Health    []HealthChecker
}

// StorefrontFacade is the single entry point used by HTTP handlers and workers.
type StorefrontFacade struct {
	deps FacadeDeps
}

func NewStorefrontFacade(deps FacadeDeps) *StorefrontFacade {
	return &StorefrontFacade{deps: deps}
}

func (f *StorefrontFacade) ParseToken(token string) (int64, error) {
	return f.deps.Auth.ParseToken(token)
}

func (f *StorefrontFacade) AuthorizeAdmin(key string) error {
	return f.deps.Auth.AuthorizeAdmin(key)
}

func (f *StorefrontFacade) Cart(ctx context.Context, customerID int64) (*model.Cart, error) {
	return f.deps.Carts.GetCart(ctx, customerID)
}

func (f *StorefrontFacade) AddCartItem(ctx context.Context, customerID int64, storeCode, projectCode string, item model.CartItem) (*model.Cart, error) {
	return f.deps.Carts.AddItem(ctx, customerID, storeCode, projectCode, item)
}

func (f *StorefrontFacade) SaveCart(ctx context.Context, in usecase.SaveCartInput) (*model.Cart, error) {
	return f.deps.Carts.SaveCart(ctx, in)
}

func (f *StorefrontFacade) ClearCart(ctx context.Context, customerID int64) error {
	return f.deps.Carts.ClearCart(ctx, customerID)
}

func (f *StorefrontFacade) ValidateCart(ctx context.Context, customerID int64, storeCode, projectCode string) (model.ValidationVerdict, error) {
	return f.deps.Carts.ValidateCart(ctx, customerID, storeCode, projectCode)
}

func (f *StorefrontFacade) PlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) (*model.Order, error) {
	return f.deps.Placement.Place(ctx, in)
}

func (f *StorefrontFacade) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return f.deps.Orders.List(ctx, customerID)
}

func (f *StorefrontFacade) Order(ctx context.Context, customerID int64, number string) (*model.Order, error) {
	return f.deps.Orders.Get(ctx, customerID, number)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, number, status string) (*model.Order, error) {
	return f.deps.Orders.UpdateStatus(ctx, number, status)
}

func (f *StorefrontFacade) DeleteOrder(ctx context.Context, number string) error {
	return f.deps.Orders.Delete(ctx, number)
}

func (f *StorefrontFacade) DeliverySlots(ctx context.Context, storeCode string) ([]model.DeliverySlot, error) {
	return f.deps.Registry.DeliverySlots(ctx, storeCode)
}

func (f *StorefrontFacade) PaymentModes(ctx context.Context) ([]model.PaymentMode, error) {
	return f.deps.Registry.PaymentModes(ctx)
}

func (f *StorefrontFacade) Addresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	return f.deps.Registry.Addresses(ctx, customerID)
}

func (f *StorefrontFacade) CreateAddress(ctx context.Context, customerID int64, address model.Address) (*model.Address, error) {
	return f.deps.Registry.CreateAddress(ctx, customerID, address)
}

// Ping fails on the first unreachable backing store.
func (f *StorefrontFacade) Ping(ctx context.Context) error {
	for i, check := range f.deps.Health {
		if err := check.HealthCheck(ctx); err != nil {
			return fmt.Errorf("health check %d: %w", i, err)
		}
	}
	return nil
}

func (f *StorefrontFacade) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	return f.deps.Orders.PendingPayments(ctx, limit)
}

func (f *StorefrontFacade) CheckPayment(ctx context.Context, transactionID string) (*model.PaymentReport, error) {
	return f.deps.Payments.Status(ctx, transactionID)
}

func (f *StorefrontFacade) UpdatePaymentStatus(ctx context.Context, order model.Order, status model.PaymentStatus) error {
	return f.deps.Orders.UpdatePaymentStatus(ctx, order, status)
}

// PaymentsEnabled reports whether a payment processor is configured.
func (f *StorefrontFacade) PaymentsEnabled() bool {
	return f.deps.Payments.Enabled()
}
