package model

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// CartItem is a single line of a customer's cart.
type CartItem struct {
	ProductCode string          `json:"p_code"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PackageSize string          `json:"package_size,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	StoreCode   string          `json:"store_code,omitempty"`
}

// Validate checks caller supplied line values.
func (i CartItem) Validate() error {
	if i.ProductCode == "" {
		return domainErrors.MissingField("p_code")
	}
	if i.Quantity < 1 {
		return domainErrors.InvalidField("quantity")
	}
	if i.UnitPrice.IsNegative() {
		return domainErrors.InvalidField("unit_price")
	}
	return nil
}

// Cart holds the pre-checkout items of one customer. Subtotal and the counters
// are derived from Items by Recalculate and never stored independently.
type Cart struct {
	CustomerID    int64
	StoreCode     string
	ProjectCode   string
	Items         []CartItem
	Subtotal      decimal.Decimal
	TotalItems    int
	TotalQuantity int
	Version       int64
	LastUpdated   time.Time
}

// NewCart returns an empty cart for the customer.
func NewCart(customerID int64) *Cart {
	return &Cart{CustomerID: customerID, Items: []CartItem{}, Subtotal: decimal.Zero}
}

// Recalculate refreshes line totals and the derived cart counters.
func (c *Cart) Recalculate() {
	subtotal := decimal.Zero
	quantity := 0
	for i := range c.Items {
		item := &c.Items[i]
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(item.TotalPrice)
		quantity += item.Quantity
	}
	c.Subtotal = subtotal
	c.TotalItems = len(c.Items)
	c.TotalQuantity = quantity
}

// Upsert replaces the line with the same product code or appends a new one.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductCode == item.ProductCode {
			c.Items[i] = item
			c.Recalculate()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.Recalculate()
}

// Clear empties the cart while keeping its identity.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
