package model

import "github.com/shopspring/decimal"

// InvalidReason is a stable code explaining why a cart line failed validation.
type InvalidReason string

const (
	ReasonNotFoundOrInactive InvalidReason = "not_found_or_inactive"
	ReasonInsufficientStock  InvalidReason = "insufficient_stock"
	ReasonExceedsMaxQuantity InvalidReason = "exceeds_max_quantity"
	ReasonValidationError    InvalidReason = "validation_error"
)

// Message returns the human readable form of the reason.
func (r InvalidReason) Message() string {
	switch r {
	case ReasonNotFoundOrInactive:
		return "product not found or inactive"
	case ReasonInsufficientStock:
		return "insufficient stock"
	case ReasonExceedsMaxQuantity:
		return "exceeds maximum allowed quantity"
	default:
		return "validation error"
	}
}

// InvalidItem describes a cart line that cannot be ordered as is.
type InvalidItem struct {
	ProductCode string
	Name        string
	Requested   int
	Reason      InvalidReason
	Available   *int
	MaxAllowed  *int
}

// PriceChange records drift between the cart price and the catalog price.
type PriceChange struct {
	ProductCode string
	Name        string
	OldPrice    decimal.Decimal
	NewPrice    decimal.Decimal
	Delta       decimal.Decimal
}

// ValidationVerdict is the result of reconciling a cart with the catalog.
type ValidationVerdict struct {
	Valid        bool
	TotalItems   int
	ValidItems   int
	InvalidItems []InvalidItem
	UpdatedItems []PriceChange
}

// NeedsPriceAcknowledgement reports a valid cart whose prices drifted.
func (v ValidationVerdict) NeedsPriceAcknowledgement() bool {
	return v.Valid && len(v.UpdatedItems) > 0
}

// Result classifies the verdict for reporting.
func (v ValidationVerdict) Result() string {
	switch {
	case !v.Valid:
		return "invalid"
	case v.NeedsPriceAcknowledgement():
		return "price_changed"
	default:
		return "valid"
	}
}
