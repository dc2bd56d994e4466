package events

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module provides the order event publisher.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) Publisher {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka brokers are not configured, order events stay in the outbox")
		return DisabledPublisher{}
	}
	publisher := NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.OrderEventsTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error { return publisher.Close() },
	})
	p.Logger.Info("publishing order events",
		slog.String("brokers", strings.Join(p.Config.KafkaBrokers, ",")), slog.String("topic", p.Config.OrderEventsTopic))
	return publisher
}
