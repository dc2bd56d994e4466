package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module exposes payment processor client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.PaymentSystemAddress == "" {
		p.Logger.Info("payment processor address is empty, reconciliation disabled")
		return DisabledClient{}, nil
	}
	return NewHTTPClient(p.Config.PaymentSystemAddress, p.Logger)
}
