package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"empty cart", ErrEmptyCart},
		{"cart not validated", ErrCartNotValidated},
		{"invalid slot", ErrInvalidDeliverySlot},
		{"invalid payment mode", ErrInvalidPaymentMode},
		{"address forbidden", ErrAddressForbidden},
		{"duplicate order number", ErrDuplicateOrderNumber},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match %v", tc.err)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	err := MissingField("store_code")
	if !stdErrors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if stdErrors.Is(err, ErrInvalidField) {
		t.Fatalf("missing field must not match invalid field")
	}

	var fieldErr *FieldError
	if !stdErrors.As(err, &fieldErr) || fieldErr.Field != "store_code" {
		t.Fatalf("expected field error for store_code, got %v", err)
	}
	if err.Error() != "store_code: missing required field" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if !stdErrors.Is(InvalidField("delivery_date"), ErrInvalidField) {
		t.Fatalf("expected invalid field error")
	}
}
