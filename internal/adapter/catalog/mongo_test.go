package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func productDoc(t *testing.T, code, store, price string, stock int) bson.D {
	t.Helper()
	p, err := primitive.ParseDecimal128(price)
	require.NoError(t, err)
	return bson.D{
		{Key: "product_code", Value: code},
		{Key: "store_code", Value: store},
		{Key: "name", Value: "Product " + code},
		{Key: "active", Value: true},
		{Key: "price", Value: p},
		{Key: "stock", Value: stock},
		{Key: "max_quantity", Value: 5},
	}
}

func newTestStore(mt *mtest.T, trip uint32) *MongoStore {
	settings := defaultBreakerSettings(testLogger())
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= trip
	}
	return newMongoStore(mt.Coll, newBreaker(settings), testLogger())
}

func TestMongoStoreGet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		store := newTestStore(mt, 5)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, productDoc(mt.T, "2390", "S1", "18.50", 12)))

		entry, err := store.Get(context.Background(), "2390", "S1")
		require.NoError(mt, err)
		assert.Equal(mt, "2390", entry.ProductCode)
		assert.Equal(mt, "S1", entry.StoreCode)
		assert.True(mt, entry.Price.Equal(decimal.RequireFromString("18.5")))
		assert.Equal(mt, 12, entry.Stock)
		assert.Equal(mt, 5, entry.MaxQuantity)
		assert.True(mt, entry.Active)
	})

	mt.Run("not found", func(mt *mtest.T) {
		store := newTestStore(mt, 1)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := store.Get(context.Background(), "missing", "S1")
		assert.ErrorIs(mt, err, domainErrors.ErrNotFound)

		// Misses do not trip the breaker.
		_, err = store.Get(context.Background(), "missing", "S1")
		assert.ErrorIs(mt, err, domainErrors.ErrNotFound)
	})

	mt.Run("command error", func(mt *mtest.T) {
		store := newTestStore(mt, 5)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query", Name: "BadValue"}))

		_, err := store.Get(context.Background(), "2390", "S1")
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, domainErrors.ErrNotFound))
		assert.False(mt, errors.Is(err, domainErrors.ErrUnavailable))
	})
}

func TestMongoStoreBreakerOpens(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("open breaker rejects calls", func(mt *mtest.T) {
		store := newTestStore(mt, 2)
		failure := mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom", Name: "BadValue"})
		mt.AddMockResponses(failure, failure)

		for i := 0; i < 2; i++ {
			_, err := store.Get(context.Background(), "2390", "S1")
			require.Error(mt, err)
		}

		_, err := store.Get(context.Background(), "2390", "S1")
		assert.ErrorIs(mt, err, domainErrors.ErrUnavailable)
	})
}

func TestMongoStoreEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		store := newTestStore(mt, 5)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, store.EnsureIndexes(context.Background()))
	})

	mt.Run("failure", func(mt *mtest.T) {
		store := newTestStore(mt, 5)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Message: "conflict", Name: "IndexOptionsConflict"}))
		require.Error(mt, store.EnsureIndexes(context.Background()))
	})
}

func TestProductToModelRejectsBadPrice(t *testing.T) {
	_, err := product{ProductCode: "x", Price: primitive.NewDecimal128(0x7c00000000000000, 0)}.toModel()
	require.Error(t, err)
}

func TestMongoStoreCloseWithoutClient(t *testing.T) {
	store := &MongoStore{}
	require.NoError(t, store.Close(context.Background()))
}

func TestConnectRejectsInvalidURI(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-mongo-uri", "storefront", testLogger())
	require.Error(t, err)
}
