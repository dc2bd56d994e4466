package auth

import "time"

// Strategy verifies customer bearer tokens. IssueToken exists for tooling and
// tests; production tokens come from the auth service sharing the secret.
type Strategy interface {
	IssueToken(customerID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	// Leeway tolerates clock skew between the issuer and this service.
	Leeway time.Duration
	Now    func() time.Time
}
