package catalog

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

type factoryStub struct {
	repository.Factory
	catalog repository.CatalogRepository
}

func (f factoryStub) Catalog() repository.CatalogRepository { return f.catalog }

func TestNewCatalogFallsBackToPostgres(t *testing.T) {
	fallback := testhelpers.NewCatalogRepositoryStub()
	recorder := &testhelpers.LifecycleRecorder{}

	repo, err := newCatalog(catalogParams{
		Ctx:       context.Background(),
		Lifecycle: recorder,
		Config:    &config.Config{},
		Logger:    testLogger(),
		Factory:   factoryStub{catalog: fallback},
	})
	require.NoError(t, err)
	assert.Same(t, fallback, repo)
	assert.Empty(t, recorder.Hooks)
}

func TestNewCatalogUsesMongo(t *testing.T) {
	original := connect
	t.Cleanup(func() { connect = original })

	var gotURI, gotDB string
	connect = func(ctx context.Context, uri, database string, logger *slog.Logger) (*MongoStore, error) {
		gotURI, gotDB = uri, database
		return &MongoStore{}, nil
	}

	recorder := &testhelpers.LifecycleRecorder{}
	repo, err := newCatalog(catalogParams{
		Ctx:       context.Background(),
		Lifecycle: recorder,
		Config:    &config.Config{MongoURI: "mongodb://localhost:27017", MongoDatabase: "shop"},
		Logger:    testLogger(),
		Factory:   factoryStub{},
	})
	require.NoError(t, err)
	assert.IsType(t, &MongoStore{}, repo)
	assert.Equal(t, "mongodb://localhost:27017", gotURI)
	assert.Equal(t, "shop", gotDB)
	require.Len(t, recorder.Hooks, 1)
	assert.NoError(t, recorder.Hooks[0].OnStop(context.Background()))
}

func TestNewCatalogConnectError(t *testing.T) {
	original := connect
	t.Cleanup(func() { connect = original })
	connect = func(context.Context, string, string, *slog.Logger) (*MongoStore, error) {
		return nil, errors.New("unreachable")
	}

	_, err := newCatalog(catalogParams{
		Ctx:       context.Background(),
		Lifecycle: &testhelpers.LifecycleRecorder{},
		Config:    &config.Config{MongoURI: "mongodb://localhost:27017"},
		Logger:    testLogger(),
		Factory:   factoryStub{},
	})
	require.Error(t, err)
}
