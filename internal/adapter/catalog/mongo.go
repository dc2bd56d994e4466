package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const collectionName = "products"

// product is the document layout of the products collection.
type product struct {
	ProductCode string               `bson:"product_code"`
	StoreCode   string               `bson:"store_code"`
	Name        string               `bson:"name"`
	Active      bool                 `bson:"active"`
	Price       primitive.Decimal128 `bson:"price"`
	Stock       int                  `bson:"stock"`
	MaxQuantity int                  `bson:"max_quantity"`
}

func (p product) toModel() (*model.CatalogEntry, error) {
	price, err := decimal.NewFromString(p.Price.String())
	if err != nil {
		return nil, fmt.Errorf("decode price of %s: %w", p.ProductCode, err)
	}
	return &model.CatalogEntry{
		ProductCode: p.ProductCode,
		StoreCode:   p.StoreCode,
		Name:        p.Name,
		Active:      p.Active,
		Price:       price,
		Stock:       p.Stock,
		MaxQuantity: p.MaxQuantity,
	}, nil
}

// MongoStore reads the product catalog from MongoDB. Every call goes through
// a circuit breaker so an unhealthy cluster fails fast with ErrUnavailable.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker[any]
	logger     *slog.Logger
}

var _ repository.CatalogRepository = (*MongoStore)(nil)

// Connect dials MongoDB, verifies the connection and prepares indexes.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*MongoStore, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	store := newMongoStore(client.Database(database).Collection(collectionName), newBreaker(defaultBreakerSettings(logger)), logger)
	store.client = client
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func newMongoStore(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker[any], logger *slog.Logger) *MongoStore {
	return &MongoStore{collection: collection, breaker: breaker, logger: logger}
}

// EnsureIndexes creates the unique product_code+store_code index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "product_code", Value: 1}, {Key: "store_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("create catalog index: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, productCode, storeCode string) (*model.CatalogEntry, error) {
	return execute(s.breaker, func() (*model.CatalogEntry, error) {
		var doc product
		filter := bson.M{"product_code": productCode, "store_code": storeCode}
		if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domainErrors.ErrNotFound
			}
			return nil, fmt.Errorf("find product: %w", err)
		}
		return doc.toModel()
	})
}

// Close disconnects the underlying client, if the store owns one.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
