package auth

import (
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newKeyVerifier),
	fx.Provide(newTokenStrategy),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newKeyVerifier(p strategyParams) KeyVerifier {
	return NewBcryptKeyVerifier(p.Config.AdminKeyHash)
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.AuthSecret, Options{Leeway: 30 * time.Second})
}
