package model

import (
	"strings"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// DeliverySlot is a delivery window offered by a store.
type DeliverySlot struct {
	ID        int64  `json:"id"`
	StoreCode string `json:"store_code"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"active"`
	SortOrder int    `json:"sort_order"`
}

// PaymentMode is a payment option offered at checkout.
type PaymentMode struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	SortOrder int    `json:"sort_order"`
}

// Address is an address book entry owned by a customer.
type Address struct {
	ID         int64
	CustomerID int64
	Label      string
	Name       string
	Phone      string
	Line1      string
	Line2      string
	Landmark   string
	City       string
	State      string
	Pincode    string
	IsDefault  bool
	CreatedAt  time.Time
}

// Validate checks the fields needed to deliver to the address.
func (a Address) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", a.Name},
		{"phone", a.Phone},
		{"line1", a.Line1},
		{"city", a.City},
		{"pincode", a.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return domainErrors.MissingField(r.field)
		}
	}
	return nil
}
