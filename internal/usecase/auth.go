package usecase

import (
	"strings"

	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
)

// AuthUseCase resolves request credentials.
type AuthUseCase struct {
	tokens pkgAuth.Strategy
	admin  pkgAuth.KeyVerifier
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(strategy pkgAuth.Strategy, admin pkgAuth.KeyVerifier) *AuthUseCase {
	return &AuthUseCase{tokens: strategy, admin: admin}
}

// ParseToken extracts the customer ID from the bearer token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// AuthorizeAdmin checks the operator key of admin routes.
func (u *AuthUseCase) AuthorizeAdmin(key string) error {
	return u.admin.Verify(strings.TrimSpace(key))
}
