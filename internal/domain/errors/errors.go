package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("dependency unavailable")

	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")

	ErrEmptyCart           = errors.New("cart is empty")
	ErrCartNotValidated    = errors.New("cart must be validated before placing an order")
	ErrCartInvalid         = errors.New("cart contains items that failed validation")
	ErrCartVersionConflict = errors.New("cart was modified by another request")
	ErrCartBusy            = errors.New("cart is being modified by another request")

	ErrInvalidDeliverySlot = errors.New("invalid delivery slot")
	ErrInvalidPaymentMode  = errors.New("invalid payment mode")
	ErrAddressNotFound     = errors.New("address not found")
	ErrAddressForbidden    = errors.New("address belongs to another customer")
	ErrDeliveryDateInPast  = errors.New("delivery date is in the past")

	ErrDuplicateOrderNumber = errors.New("order number already taken, retry placement")
	ErrInvalidOrderStatus   = errors.New("unknown order status")
	ErrIllegalTransition    = errors.New("order status transition is not allowed")
	ErrOrderNotDeletable    = errors.New("order can only be deleted while placed or cancelled")
)

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingField reports an absent required field.
func MissingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// InvalidField reports a present but malformed field.
func InvalidField(field string) error {
	return &FieldError{Field: field, Err: ErrInvalidField}
}
