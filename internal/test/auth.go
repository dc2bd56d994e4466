package test

import (
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(customerID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(customerID)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// KeyVerifierStub accepts a single configured admin key.
type KeyVerifierStub struct {
	Key string
	Err error
}

// Verify compares key with the configured one.
func (s KeyVerifierStub) Verify(key string) error {
	if s.Err != nil {
		return s.Err
	}
	if key == "" || key != s.Key {
		return pkgAuth.ErrInvalidAdminKey
	}
	return nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	ParseFn func(string) (int64, error)
	AdminFn func(string) error
}

// ParseToken returns stored identifier for authenticated customer.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return 1, nil
}

// AuthorizeAdmin accepts "admin-key" unless overridden.
func (s AuthFacadeStub) AuthorizeAdmin(key string) error {
	if s.AdminFn != nil {
		return s.AdminFn(key)
	}
	if key != "admin-key" {
		return pkgAuth.ErrInvalidAdminKey
	}
	return nil
}

var _ pkgAuth.Strategy = StrategyStub{}
var _ pkgAuth.KeyVerifier = KeyVerifierStub{}
