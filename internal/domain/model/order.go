package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "placed"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPacked     OrderStatus = "packed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:     {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusPacked, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusPacked:     {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
	OrderStatusRefunded:   {},
}

// ParseOrderStatus converts raw input into a known status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidOrderStatus, raw)
	}
	return status, nil
}

// Valid reports whether the status is part of the lifecycle.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether next directly follows s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Completes reports whether entering the status closes the order.
func (s OrderStatus) Completes() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// DeletableStatuses lists the statuses in which an order may be removed.
func DeletableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPlaced, OrderStatusCancelled}
}

// DeliveryInfo is the delivery snapshot frozen at placement.
type DeliveryInfo struct {
	SlotID    int64  `json:"slot_id"`
	SlotLabel string `json:"slot_label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Date      string `json:"date"`
	AddressID int64  `json:"address_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	Landmark  string `json:"landmark,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Pincode   string `json:"pincode"`
}

// OrderSummary holds the money totals of an order.
type OrderSummary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Tax            decimal.Decimal `json:"tax"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total_amount"`
	TotalItems     int             `json:"total_items"`
	TotalQuantity  int             `json:"total_quantity"`
}

// Order is the immutable receipt created from a cart.
type Order struct {
	ID          int64
	Number      string
	CustomerID  int64
	StoreCode   string
	ProjectCode string
	Status      OrderStatus
	Items       []CartItem
	Delivery    DeliveryInfo
	Payment     PaymentInfo
	Summary     OrderSummary
	Notes       string
	PlacedAt    time.Time
	ConfirmedAt *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// TransitionTo moves the order to next. Re-entering the current status is a
// no-op and reports false.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) (bool, error) {
	if !next.Valid() {
		return false, fmt.Errorf("%w: %q", domainErrors.ErrInvalidOrderStatus, next)
	}
	if o.Status == next {
		return false, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s -> %s", domainErrors.ErrIllegalTransition, o.Status, next)
	}

	o.Status = next
	o.UpdatedAt = now
	if next == OrderStatusConfirmed && o.ConfirmedAt == nil {
		stamp := now
		o.ConfirmedAt = &stamp
	}
	if next.Completes() && o.CompletedAt == nil {
		stamp := now
		o.CompletedAt = &stamp
	}
	return true, nil
}

// Deletable reports whether the order may still be removed.
func (o *Order) Deletable() bool {
	for _, s := range DeletableStatuses() {
		if o.Status == s {
			return true
		}
	}
	return false
}
