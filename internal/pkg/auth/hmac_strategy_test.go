package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func signedToken(s *HMACStrategy, claims string) string {
	signed := tokenVersion + "." + encoding.EncodeToString([]byte(claims))
	return signed + "." + s.sign(signed)
}

func TestNewHMACStrategy_Defaults(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
	if strategy.leeway != 0 {
		t.Fatalf("unexpected leeway: %s", strategy.leeway)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !strings.HasPrefix(token, "v1.") || strings.Count(token, ".") != 2 {
		t.Fatalf("unexpected token format: %q", token)
	}
	customerID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if customerID != 42 {
		t.Fatalf("unexpected customer id: %d", customerID)
	}
}

func TestHMACStrategy_IssueRejectsInvalidCustomer(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(0); err == nil {
		t.Fatal("expected error for zero customer id")
	}
}

func TestHMACStrategy_ParseRejectsForeignSecret(t *testing.T) {
	issuer := NewHMACStrategy("issuer-secret", Options{})
	verifier := NewHMACStrategy("other-secret", Options{})
	token, _ := issuer.IssueToken(5)
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_ParseMalformed(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	future := time.Now().Add(time.Minute).Unix()
	cases := map[string]string{
		"empty":         "",
		"two parts":     "v1.abc",
		"wrong version": strings.Replace(signedToken(strategy, fmt.Sprintf("1:%d", future)), "v1.", "v2.", 1),
		"bad claims":    signedToken(strategy, "no-separator"),
		"bad id":        signedToken(strategy, fmt.Sprintf("abc:%d", future)),
		"negative id":   signedToken(strategy, fmt.Sprintf("-3:%d", future)),
		"bad expiry":    signedToken(strategy, "10:not-a-number"),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_ParseTamperedSignature(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	parts := strings.Split(token, ".")
	parts[1] = encoding.EncodeToString([]byte(fmt.Sprintf("8:%d", time.Now().Add(time.Hour).Unix())))
	if _, err := strategy.ParseToken(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_ExpiryAndLeeway(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewHMACStrategy("secret", Options{TTL: time.Minute, Now: fixedNow(issued)})
	token, err := issuer.IssueToken(10)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	late := issued.Add(time.Minute + 10*time.Second)
	strict := NewHMACStrategy("secret", Options{Now: fixedNow(late)})
	if _, err := strict.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	lenient := NewHMACStrategy("secret", Options{Leeway: 30 * time.Second, Now: fixedNow(late)})
	claims, err := lenient.Verify(token)
	if err != nil {
		t.Fatalf("expected token within leeway, got %v", err)
	}
	if claims.CustomerID != 10 || !claims.ExpiresAt.Equal(issued.Add(time.Minute)) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if strategy.Name() != "hmac-sha256" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}
