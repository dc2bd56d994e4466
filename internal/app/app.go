package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/adapter/events"
	"github.com/polkiloo/storefront/internal/adapter/payment"
	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/storage/postgres"
	"github.com/polkiloo/storefront/internal/storage/redisclient"
	"github.com/polkiloo/storefront/internal/usecase"
	"github.com/polkiloo/storefront/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newStorefrontFacade,
		func(f *StorefrontFacade) handlers.StorefrontFacade { return f },
		newHTTPServer,
		newPaymentReconciler,
		newEventRelay,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth      *usecase.AuthUseCase
	Carts     *usecase.CartUseCase
	Placement *usecase.PlacementUseCase
	Orders    *usecase.OrderUseCase
	Registry  *usecase.RegistryUseCase
	Payments  payment.Client
	Storage   *postgres.Storage
	Redis     *redis.Client
}

func newStorefrontFacade(p facadeParams) *StorefrontFacade {
	return NewStorefrontFacade(FacadeDeps{
		Auth:      p.Auth,
		Carts:     p.Carts,
		Placement: p.Placement,
		Orders:    p.Orders,
		Registry:  p.Registry,
		Payments:  p.Payments,
		Health: []HealthChecker{
			p.Storage,
			HealthCheckFunc(func(ctx context.Context) error { return redisclient.Ping(ctx, p.Redis) }),
		},
	})
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type reconcilerParams struct {
	fx.In

	Facade  *StorefrontFacade
	Config  *config.Config
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func newPaymentReconciler(p reconcilerParams) *worker.PaymentReconciler {
	return worker.NewPaymentReconciler(
		p.Facade,
		p.Config.PaymentPollInterval,
		p.Config.PollBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
		p.Metrics,
	)
}

type relayParams struct {
	fx.In

	Outbox    repository.OutboxRepository
	Publisher events.Publisher
	Config    *config.Config
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

func newEventRelay(p relayParams) *worker.EventRelay {
	return worker.NewEventRelay(
		p.Outbox,
		p.Publisher,
		p.Config.EventPollInterval,
		p.Config.PollBatchSize,
		p.Logger,
		p.Metrics,
	)
}

type lifecycleParams struct {
	fx.In

	// Ctx outlives OnStart and bounds the background workers.
	Ctx        context.Context
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Reconciler *worker.PaymentReconciler
	Relay      *worker.EventRelay
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting storefront", slog.String("addr", p.Server.Addr))
			p.Reconciler.Start(p.Ctx)
			p.Relay.Start(p.Ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Reconciler.Stop()
			p.Relay.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("storefront stopped")
			return nil
		},
	})
}
