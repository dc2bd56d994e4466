package catalog

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// Module provides the catalog repository: MongoDB when configured, otherwise
// the relational catalog table.
var Module = fx.Provide(newCatalog)

type catalogParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Factory   repository.Factory
}

var connect = Connect

func newCatalog(p catalogParams) (repository.CatalogRepository, error) {
	if p.Config.MongoURI == "" {
		p.Logger.Info("mongodb is not configured, serving catalog from postgres")
		return p.Factory.Catalog(), nil
	}

	store, err := connect(p.Ctx, p.Config.MongoURI, p.Config.MongoDatabase, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{OnStop: store.Close})
	p.Logger.Info("catalog served from mongodb", slog.String("database", p.Config.MongoDatabase))
	return store, nil
}
