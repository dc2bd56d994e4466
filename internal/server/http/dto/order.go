package dto

import (
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// PlaceOrderRequest carries the checkout form.
type PlaceOrderRequest struct {
	StoreCode           string                `json:"store_code" binding:"required"`
	ProjectCode         string                `json:"project_code" binding:"required"`
	CartValidated       bool                  `json:"cart_validated"`
	DeliverySlotID      int64                 `json:"delivery_slot_id" binding:"required,gt=0"`
	DeliveryDate        string                `json:"delivery_date" binding:"required,datetime=2006-01-02"`
	AddressID           int64                 `json:"address_id" binding:"required,gt=0"`
	PaymentModeID       int64                 `json:"payment_mode_id" binding:"required,gt=0"`
	Notes               string                `json:"order_notes" binding:"max=1000"`
	PaymentDetails      *model.PaymentDetails `json:"payment_details"`
	ExpectedCartVersion *int64                `json:"expected_cart_version" binding:"omitempty,gt=0"`
}

// UpdateStatusRequest is the admin status change body.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DeliverySlotInfo is the slot echoed back on placement.
type DeliverySlotInfo struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// PaymentModeInfo is the payment mode echoed back on placement.
type PaymentModeInfo struct {
	ID     int64               `json:"id"`
	Code   string              `json:"code"`
	Name   string              `json:"name"`
	Status model.PaymentStatus `json:"status"`
}

// PlaceOrderResponse confirms a placed order.
type PlaceOrderResponse struct {
	OrderNumber           string             `json:"order_number"`
	OrderStatus           model.OrderStatus  `json:"order_status"`
	OrderPlacedAt         time.Time          `json:"order_placed_at"`
	EstimatedDeliveryDate string             `json:"estimated_delivery_date"`
	DeliverySlot          DeliverySlotInfo   `json:"delivery_slot"`
	PaymentMode           PaymentModeInfo    `json:"payment_mode"`
	OrderSummary          model.OrderSummary `json:"order_summary"`
}

// NewPlaceOrderResponse maps a freshly placed order.
func NewPlaceOrderResponse(order *model.Order) PlaceOrderResponse {
	return PlaceOrderResponse{
		OrderNumber:           order.Number,
		OrderStatus:           order.Status,
		OrderPlacedAt:         order.PlacedAt,
		EstimatedDeliveryDate: order.Delivery.Date,
		DeliverySlot: DeliverySlotInfo{
			ID:        order.Delivery.SlotID,
			Label:     order.Delivery.SlotLabel,
			StartTime: order.Delivery.StartTime,
			EndTime:   order.Delivery.EndTime,
		},
		PaymentMode: PaymentModeInfo{
			ID:     order.Payment.ModeID,
			Code:   order.Payment.ModeCode,
			Name:   order.Payment.ModeName,
			Status: order.Payment.Status,
		},
		OrderSummary: order.Summary,
	}
}

// OrderResponse is the full order snapshot.
type OrderResponse struct {
	OrderNumber  string             `json:"order_number"`
	StoreCode    string             `json:"store_code"`
	ProjectCode  string             `json:"project_code"`
	OrderStatus  model.OrderStatus  `json:"order_status"`
	Items        []model.CartItem   `json:"items"`
	Delivery     model.DeliveryInfo `json:"delivery"`
	Payment      model.PaymentInfo  `json:"payment"`
	OrderSummary model.OrderSummary `json:"order_summary"`
	Notes        string             `json:"order_notes,omitempty"`
	PlacedAt     time.Time          `json:"order_placed_at"`
	ConfirmedAt  *time.Time         `json:"confirmed_at,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewOrderResponse maps a stored order.
func NewOrderResponse(order model.Order) OrderResponse {
	items := order.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return OrderResponse{
		OrderNumber:  order.Number,
		StoreCode:    order.StoreCode,
		ProjectCode:  order.ProjectCode,
		OrderStatus:  order.Status,
		Items:        items,
		Delivery:     order.Delivery,
		Payment:      order.Payment,
		OrderSummary: order.Summary,
		Notes:        order.Notes,
		PlacedAt:     order.PlacedAt,
		ConfirmedAt:  order.ConfirmedAt,
		CompletedAt:  order.CompletedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
