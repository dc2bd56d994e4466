package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderPlaced         = "order.placed"
	EventOrderStatusChanged  = "order.status_changed"
	EventOrderPaymentUpdated = "order.payment_updated"
)

// OrderEvent is an outbox record waiting to be relayed to the event stream.
type OrderEvent struct {
	ID        int64
	EventID   string
	Type      string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

type orderEventPayload struct {
	EventID       string        `json:"event_id"`
	Type          string        `json:"type"`
	OrderNumber   string        `json:"order_number"`
	CustomerID    int64         `json:"customer_id"`
	StoreCode     string        `json:"store_code"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   string        `json:"total_amount"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// NewOrderEvent snapshots the order into an event keyed by its number.
func NewOrderEvent(eventType string, order *Order, now time.Time) (OrderEvent, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(orderEventPayload{
		EventID:       id,
		Type:          eventType,
		OrderNumber:   order.Number,
		CustomerID:    order.CustomerID,
		StoreCode:     order.StoreCode,
		Status:        order.Status,
		PaymentStatus: order.Payment.Status,
		TotalAmount:   order.Summary.Total.StringFixed(2),
		OccurredAt:    now.UTC(),
	})
	if err != nil {
		return OrderEvent{}, err
	}
	return OrderEvent{
		EventID:   id,
		Type:      eventType,
		Key:       order.Number,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}
