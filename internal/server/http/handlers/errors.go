package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

var (
	// ErrMalformedBody is returned for request bodies that are not valid JSON.
	ErrMalformedBody = errors.New("malformed request body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{ErrMalformedBody, http.StatusBadRequest, "invalid_body"},
	{ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "body_too_large"},
	{domainErrors.ErrMissingField, http.StatusBadRequest, "missing_field"},
	{domainErrors.ErrInvalidField, http.StatusBadRequest, "invalid_field"},
	{domainErrors.ErrInvalidOrderStatus, http.StatusBadRequest, "invalid_status"},
	{domainErrors.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{domainErrors.ErrCartNotValidated, http.StatusBadRequest, "cart_not_validated"},
	{domainErrors.ErrCartInvalid, http.StatusBadRequest, "cart_invalid"},
	{domainErrors.ErrInvalidDeliverySlot, http.StatusBadRequest, "invalid_delivery_slot"},
	{domainErrors.ErrInvalidPaymentMode, http.StatusBadRequest, "invalid_payment_mode"},
	{domainErrors.ErrAddressNotFound, http.StatusBadRequest, "address_not_found"},
	{domainErrors.ErrDeliveryDateInPast, http.StatusBadRequest, "delivery_date_in_past"},
	{domainErrors.ErrAddressForbidden, http.StatusForbidden, "address_forbidden"},
	{domainErrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrDuplicateOrderNumber, http.StatusConflict, "duplicate_order_number"},
	{domainErrors.ErrCartVersionConflict, http.StatusConflict, "cart_version_conflict"},
	{domainErrors.ErrCartBusy, http.StatusConflict, "cart_busy"},
	{domainErrors.ErrIllegalTransition, http.StatusConflict, "illegal_transition"},
	{domainErrors.ErrOrderNotDeletable, http.StatusConflict, "order_not_deletable"},
	{domainErrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
}

// ErrorResponse classifies err into a status code and response body.
func ErrorResponse(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		body := dto.ErrorResponse{Error: err.Error(), Code: m.code}
		var fieldErr *domainErrors.FieldError
		if errors.As(err, &fieldErr) {
			body.Field = fieldErr.Field
		}
		return m.status, body
	}
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error", Code: "internal"}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := ErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
