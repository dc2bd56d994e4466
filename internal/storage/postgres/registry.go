package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type deliverySlotRepository struct {
	storage *Storage
}

type paymentModeRepository struct {
	storage *Storage
}

type addressRepository struct {
	storage *Storage
}

// --- DeliverySlotRepository implementation ---

func (r *deliverySlotRepository) Get(ctx context.Context, id int64) (*model.DeliverySlot, error) {
	const query = `SELECT id, store_code, label, start_time, end_time, active, sort_order FROM delivery_slots WHERE id=$1`
	var s model.DeliverySlot
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.StoreCode, &s.Label, &s.StartTime, &s.EndTime, &s.Active, &s.SortOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *deliverySlotRepository) ListByStore(ctx context.Context, storeCode string) ([]model.DeliverySlot, error) {
	const query = `SELECT id, store_code, label, start_time, end_time, active, sort_order
                   FROM delivery_slots WHERE store_code=$1 AND active ORDER BY sort_order, start_time`
	rows, err := r.storage.pool.Query(ctx, query, storeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DeliverySlot
	for rows.Next() {
		var s model.DeliverySlot
		if err := rows.Scan(&s.ID, &s.StoreCode, &s.Label, &s.StartTime, &s.EndTime, &s.Active, &s.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- PaymentModeRepository implementation ---

func (r *paymentModeRepository) Get(ctx context.Context, id int64) (*model.PaymentMode, error) {
	const query = `SELECT id, code, name, enabled, sort_order FROM payment_modes WHERE id=$1`
	var m model.PaymentMode
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Code, &m.Name, &m.Enabled, &m.SortOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *paymentModeRepository) ListEnabled(ctx context.Context) ([]model.PaymentMode, error) {
	const query = `SELECT id, code, name, enabled, sort_order FROM payment_modes WHERE enabled ORDER BY sort_order, name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentMode
	for rows.Next() {
		var m model.PaymentMode
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Enabled, &m.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AddressRepository implementation ---

const addressColumns = `id, customer_id, label, name, phone, line1, line2, landmark, city, state, pincode, is_default, created_at`

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(&a.ID, &a.CustomerID, &a.Label, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.Landmark, &a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *addressRepository) Get(ctx context.Context, id int64) (*model.Address, error) {
	address, err := scanAddress(r.storage.pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return address, nil
}

func (r *addressRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+addressColumns+` FROM addresses WHERE customer_id=$1 ORDER BY is_default DESC, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create stores the address. A new default entry demotes the previous one.
func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	const resetDefault = `UPDATE addresses SET is_default=FALSE WHERE customer_id=$1 AND is_default`
	const insertQuery = `INSERT INTO addresses (customer_id, label, name, phone, line1, line2, landmark, city, state, pincode, is_default)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                         RETURNING id, created_at`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if address.IsDefault {
			if _, err := tx.Exec(ctx, resetDefault, address.CustomerID); err != nil {
				return err
			}
		}
		return tx.QueryRow(ctx, insertQuery,
			address.CustomerID, address.Label, address.Name, address.Phone, address.Line1, address.Line2,
			address.Landmark, address.City, address.State, address.Pincode, address.IsDefault,
		).Scan(&address.ID, &address.CreatedAt)
	})
}
