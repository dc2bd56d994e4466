package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

const tokenVersion = "v1"

var encoding = base64.RawURLEncoding

// Claims is the payload carried by a customer token.
type Claims struct {
	CustomerID int64
	ExpiresAt  time.Time
}

// HMACStrategy signs tokens of the form v1.<claims>.<signature> with
// HMAC-SHA256.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, leeway: opts.Leeway, now: now}
}

// IssueToken signs a token for the customer.
func (s *HMACStrategy) IssueToken(customerID int64) (string, error) {
	if customerID <= 0 {
		return "", fmt.Errorf("issue token: invalid customer id %d", customerID)
	}
	claims := fmt.Sprintf("%d:%d", customerID, s.now().Add(s.ttl).Unix())
	signed := tokenVersion + "." + encoding.EncodeToString([]byte(claims))
	return signed + "." + s.sign(signed), nil
}

// ParseToken verifies the token and returns the customer id.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return 0, err
	}
	return claims.CustomerID, nil
}

// Verify checks signature and expiry.
func (s *HMACStrategy) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != tokenVersion {
		return Claims{}, ErrInvalidToken
	}

	signed := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(s.sign(signed)), []byte(parts[2])) {
		return Claims{}, ErrInvalidToken
	}

	raw, err := encoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	id, expires, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	customerID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || customerID <= 0 {
		return Claims{}, ErrInvalidToken
	}
	expiresUnix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{CustomerID: customerID, ExpiresAt: time.Unix(expiresUnix, 0)}
	if claims.ExpiresAt.Add(s.leeway).Before(s.now()) {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac-sha256"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return encoding.EncodeToString(mac.Sum(nil))
}
