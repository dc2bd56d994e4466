package dto

import (
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// AddressRequest creates a delivery address.
type AddressRequest struct {
	Label     string `json:"label" binding:"max=64"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required,max=32"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	Landmark  string `json:"landmark"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Pincode   string `json:"pincode" binding:"required,max=16"`
	IsDefault bool   `json:"is_default"`
}

// Model converts the payload to a domain address.
func (r AddressRequest) Model() model.Address {
	return model.Address{
		Label:     r.Label,
		Name:      r.Name,
		Phone:     r.Phone,
		Line1:     r.Line1,
		Line2:     r.Line2,
		Landmark:  r.Landmark,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		IsDefault: r.IsDefault,
	}
}

// AddressResponse is a stored address.
type AddressResponse struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	Landmark  string    `json:"landmark,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state,omitempty"`
	Pincode   string    `json:"pincode"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAddressResponse maps a domain address.
func NewAddressResponse(a model.Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Label:     a.Label,
		Name:      a.Name,
		Phone:     a.Phone,
		Line1:     a.Line1,
		Line2:     a.Line2,
		Landmark:  a.Landmark,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}
