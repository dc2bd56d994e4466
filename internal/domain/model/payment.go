package model

import (
	"fmt"
	"regexp"
	"strings"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

// PaymentStatus tracks settlement as reported by the payment processor.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ParsePaymentStatus normalizes a status reported by the payment processor.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return status, nil
	}
	return "", fmt.Errorf("unknown payment status %q", raw)
}

// PaymentReport is the processor's view of a transaction.
type PaymentReport struct {
	TransactionID string
	Status        PaymentStatus
}

const (
	MaxPaymentExtraKeys     = 16
	MaxPaymentExtraKeyLen   = 64
	MaxPaymentExtraValueLen = 512
)

// transactionIDPattern keeps gateway ids safe to use as a URL path segment.
var transactionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// PaymentDetails is the gateway payload supplied by the client. Known fields
// are typed, anything else goes to the bounded Extra map.
type PaymentDetails struct {
	TransactionID string            `json:"transaction_id,omitempty"`
	Gateway       string            `json:"gateway,omitempty"`
	Method        string            `json:"method,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// Validate checks the transaction id charset and the limits of the opaque part.
func (d PaymentDetails) Validate() error {
	if d.TransactionID != "" && !transactionIDPattern.MatchString(d.TransactionID) {
		return domainErrors.InvalidField("payment_details.transaction_id")
	}
	if len(d.Extra) > MaxPaymentExtraKeys {
		return domainErrors.InvalidField("payment_details.extra")
	}
	for k, v := range d.Extra {
		if k == "" || len(k) > MaxPaymentExtraKeyLen || len(v) > MaxPaymentExtraValueLen {
			return domainErrors.InvalidField("payment_details.extra")
		}
	}
	return nil
}

// PaymentInfo is the payment snapshot stored with an order.
type PaymentInfo struct {
	ModeID        int64          `json:"mode_id"`
	ModeCode      string         `json:"mode_code"`
	ModeName      string         `json:"mode_name"`
	Status        PaymentStatus  `json:"status"`
	TransactionID string         `json:"transaction_id,omitempty"`
	Details       PaymentDetails `json:"details"`
}

// InitialPaymentStatus returns the status a fresh order starts with.
func InitialPaymentStatus(details *PaymentDetails) PaymentStatus {
	if details != nil && details.TransactionID != "" {
		return PaymentStatusPending
	}
	return PaymentStatusUnpaid
}
