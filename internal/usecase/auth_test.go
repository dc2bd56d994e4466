package usecase

import (
	"errors"
	"fmt"
	"testing"

	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(newStrategyStub(), testhelpers.KeyVerifierStub{})

	id, err := uc.ParseToken(" token-5 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 5 {
		t.Fatalf("expected id 5, got %d", id)
	}
}

func TestAuthUseCaseParseTokenEmpty(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.StrategyStub{ParseFn: func(string) (int64, error) {
		t.Fatal("strategy must not be called for empty token")
		return 0, nil
	}}, testhelpers.KeyVerifierStub{})

	if _, err := uc.ParseToken("   "); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseParseTokenInvalid(t *testing.T) {
	uc := NewAuthUseCase(newStrategyStub(), testhelpers.KeyVerifierStub{})
	if _, err := uc.ParseToken("garbage"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseAuthorizeAdmin(t *testing.T) {
	uc := NewAuthUseCase(newStrategyStub(), testhelpers.KeyVerifierStub{Key: "ops"})

	if err := uc.AuthorizeAdmin(" ops "); err != nil {
		t.Fatalf("expected key to be accepted, got %v", err)
	}
	if err := uc.AuthorizeAdmin("nope"); !errors.Is(err, pkgAuth.ErrInvalidAdminKey) {
		t.Fatalf("expected invalid admin key, got %v", err)
	}
}
