package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// Pricing computes order totals from a cart.
type Pricing struct {
	TaxRate        decimal.Decimal
	DeliveryCharge decimal.Decimal
}

// Summarize returns subtotal + delivery + tax - discount. Tax is rounded to
// two decimal places; discount is always zero.
func (p Pricing) Summarize(cart *model.Cart) model.OrderSummary {
	tax := cart.Subtotal.Mul(p.TaxRate).Round(2)
	discount := decimal.Zero
	total := cart.Subtotal.Add(p.DeliveryCharge).Add(tax).Sub(discount)
	return model.OrderSummary{
		Subtotal:       cart.Subtotal,
		DeliveryCharge: p.DeliveryCharge,
		Tax:            tax,
		Discount:       discount,
		Total:          total,
		TotalItems:     cart.TotalItems,
		TotalQuantity:  cart.TotalQuantity,
	}
}
