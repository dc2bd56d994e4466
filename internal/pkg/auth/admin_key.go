package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrAdminDisabled   = errors.New("admin access is not configured")
)

// KeyVerifier checks operator keys presented on admin routes.
type KeyVerifier interface {
	Verify(key string) error
}

// BcryptKeyVerifier compares keys against a bcrypt hash from configuration.
type BcryptKeyVerifier struct {
	hash []byte
}

// NewBcryptKeyVerifier creates verifier; an empty hash disables admin access.
func NewBcryptKeyVerifier(hash string) *BcryptKeyVerifier {
	return &BcryptKeyVerifier{hash: []byte(hash)}
}

// Verify implements KeyVerifier.
func (v *BcryptKeyVerifier) Verify(key string) error {
	if len(v.hash) == 0 {
		return ErrAdminDisabled
	}
	if key == "" {
		return ErrInvalidAdminKey
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(key)); err != nil {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashKey produces the value expected in ADMIN_KEY_HASH.
func HashKey(key string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	encoded, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
