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
	"github.com/polkiloo/storefront/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, number, customer_id, store_code, project_code, status, items, delivery, payment,
       subtotal::text, delivery_charge::text, tax::text, discount::text, total_amount::text,
       total_items, total_quantity, notes, placed_at, confirmed_at, completed_at, updated_at`

// --- OrderRepository implementation ---

func (r *orderRepository) Place(ctx context.Context, order *model.Order, event model.OrderEvent, cartVersion *int64) error {
	const insertQuery = `INSERT INTO orders (number, customer_id, store_code, project_code, status, items, delivery, payment,
                             payment_status, subtotal, delivery_charge, tax, discount, total_amount, total_items, total_quantity,
                             notes, placed_at, updated_at)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
                         RETURNING id`

	items, delivery, payment, err := encodeOrderDocuments(order)
	if err != nil {
		return err
	}

	var id int64
	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		s := order.Summary
		err := tx.QueryRow(ctx, insertQuery,
			order.Number, order.CustomerID, order.StoreCode, order.ProjectCode, string(order.Status),
			items, delivery, payment, string(order.Payment.Status),
			s.Subtotal.String(), s.DeliveryCharge.String(), s.Tax.String(), s.Discount.String(), s.Total.String(),
			s.TotalItems, s.TotalQuantity, order.Notes, order.PlacedAt, order.UpdatedAt,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrDuplicateOrderNumber
			}
			return err
		}
		if err := insertEvent(ctx, tx, event); err != nil {
			return err
		}
		return clearCart(ctx, tx, order.CustomerID, cartVersion)
	})
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE number=$1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY placed_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, number string, mutate repository.OrderMutator) (*model.Order, error) {
	const updateQuery = `UPDATE orders SET status=$2, confirmed_at=$3, completed_at=$4, updated_at=$5 WHERE id=$1`

	var result *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE number=$1 FOR UPDATE`, number))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		event, err := mutate(order)
		if err != nil {
			return err
		}
		result = order
		if event == nil {
			return nil
		}

		if _, err := tx.Exec(ctx, updateQuery, order.ID, string(order.Status), order.ConfirmedAt, order.CompletedAt, order.UpdatedAt); err != nil {
			return err
		}
		return insertEvent(ctx, tx, *event)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Delete(ctx context.Context, number string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var (
			id     int64
			status string
		)
		err := tx.QueryRow(ctx, `SELECT id, status FROM orders WHERE number=$1 FOR UPDATE`, number).Scan(&id, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		order := model.Order{Status: model.OrderStatus(status)}
		if !order.Deletable() {
			return domainErrors.ErrOrderNotDeletable
		}
		_, err = tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
		return err
	})
}

func (r *orderRepository) SelectPendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_status=$1 ORDER BY placed_at LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, string(model.PaymentStatusPending), limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus, event *model.OrderEvent) error {
	const updateQuery = `UPDATE orders
                         SET payment_status=$2, payment=jsonb_set(payment, '{status}', to_jsonb($2::text)), updated_at=NOW()
                         WHERE id=$1`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateQuery, orderID, string(status))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		if event == nil {
			return nil
		}
		return insertEvent(ctx, tx, *event)
	})
}

func encodeOrderDocuments(order *model.Order) (items, delivery, payment string, err error) {
	docs := []struct {
		name  string
		value any
		dest  *string
	}{
		{"items", order.Items, &items},
		{"delivery", order.Delivery, &delivery},
		{"payment", order.Payment, &payment},
	}
	for _, d := range docs {
		raw, err := json.Marshal(d.value)
		if err != nil {
			return "", "", "", fmt.Errorf("encode order %s: %w", d.name, err)
		}
		*d.dest = string(raw)
	}
	return items, delivery, payment, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o                        model.Order
		status                   string
		items, delivery, payment []byte
		subtotal, charge, tax    string
		discount, total          string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.StoreCode, &o.ProjectCode, &status, &items, &delivery, &payment,
		&subtotal, &charge, &tax, &discount, &total,
		&o.Summary.TotalItems, &o.Summary.TotalQuantity, &o.Notes, &o.PlacedAt, &o.ConfirmedAt, &o.CompletedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)

	docs := []struct {
		name string
		raw  []byte
		dest any
	}{
		{"items", items, &o.Items},
		{"delivery", delivery, &o.Delivery},
		{"payment", payment, &o.Payment},
	}
	for _, d := range docs {
		if err := json.Unmarshal(d.raw, d.dest); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", d.name, err)
		}
	}

	amounts := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{subtotal, &o.Summary.Subtotal},
		{charge, &o.Summary.DeliveryCharge},
		{tax, &o.Summary.Tax},
		{discount, &o.Summary.Discount},
		{total, &o.Summary.Total},
	}
	for _, a := range amounts {
		if *a.dest, err = decimal.NewFromString(a.raw); err != nil {
			return nil, fmt.Errorf("decode order amount: %w", err)
		}
	}
	return &o, nil
}
