package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type cartRepository struct {
	storage *Storage
}

type catalogRepository struct {
	storage *Storage
}

// --- CartRepository implementation ---

func (r *cartRepository) Get(ctx context.Context, customerID int64) (*model.Cart, error) {
	const query = `SELECT customer_id, store_code, project_code, items, version, updated_at FROM carts WHERE customer_id=$1`

	cart := model.NewCart(customerID)
	var items []byte
	err := r.storage.pool.QueryRow(ctx, query, customerID).Scan(
		&cart.CustomerID, &cart.StoreCode, &cart.ProjectCode, &items, &cart.Version, &cart.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	cart.Recalculate()
	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *model.Cart, expectedVersion *int64) error {
	// An existing row always has version >= 1, so a positive expectation can
	// only be met by an update.
	const upsertQuery = `INSERT INTO carts (customer_id, store_code, project_code, items, version, updated_at)
                         VALUES ($1, $2, $3, $4, 1, NOW())
                         ON CONFLICT (customer_id) DO UPDATE
                         SET store_code=EXCLUDED.store_code, project_code=EXCLUDED.project_code,
                             items=EXCLUDED.items, version=carts.version+1, updated_at=NOW()
                         WHERE $5::bigint IS NULL
                         RETURNING version, updated_at`
	const updateQuery = `UPDATE carts SET store_code=$2, project_code=$3, items=$4, version=version+1, updated_at=NOW()
                         WHERE customer_id=$1 AND version=$5
                         RETURNING version, updated_at`

	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}

	query := upsertQuery
	if expectedVersion != nil && *expectedVersion > 0 {
		query = updateQuery
	}

	err = r.storage.pool.QueryRow(ctx, query, cart.CustomerID, cart.StoreCode, cart.ProjectCode, string(items), expectedVersion).
		Scan(&cart.Version, &cart.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrCartVersionConflict
		}
		return err
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID int64, expectedVersion *int64) error {
	return clearCart(ctx, r.storage.pool, customerID, expectedVersion)
}

func clearCart(ctx context.Context, q querier, customerID int64, expectedVersion *int64) error {
	const query = `UPDATE carts SET items='[]'::jsonb, version=version+1, updated_at=NOW()
                   WHERE customer_id=$1 AND ($2::bigint IS NULL OR version=$2)`

	tag, err := q.Exec(ctx, query, customerID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 && expectedVersion != nil && *expectedVersion != 0 {
		return domainErrors.ErrCartVersionConflict
	}
	return nil
}

// --- CatalogRepository implementation ---

const catalogColumns = `product_code, store_code, name, active, price::text, stock, max_quantity`

func (r *catalogRepository) Get(ctx context.Context, productCode, storeCode string) (*model.CatalogEntry, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_entries WHERE product_code=$1 AND store_code=$2`

	entry, err := scanCatalogEntry(r.storage.pool.QueryRow(ctx, query, productCode, storeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func scanCatalogEntry(row pgx.Row) (*model.CatalogEntry, error) {
	var (
		e     model.CatalogEntry
		price string
	)
	if err := row.Scan(&e.ProductCode, &e.StoreCode, &e.Name, &e.Active, &price, &e.Stock, &e.MaxQuantity); err != nil {
		return nil, err
	}
	var err error
	if e.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("decode price of %s: %w", e.ProductCode, err)
	}
	return &e, nil
}
