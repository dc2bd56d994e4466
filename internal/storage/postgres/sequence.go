package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type sequenceRepository struct {
	storage *Storage
}

type outboxRepository struct {
	storage *Storage
}

// --- SequenceRepository implementation ---

func (r *sequenceRepository) Next(ctx context.Context, day string) (int64, error) {
	const query = `INSERT INTO order_sequences (day, value) VALUES ($1, 1)
                   ON CONFLICT (day) DO UPDATE SET value = order_sequences.value + 1
                   RETURNING value`
	var value int64
	if err := r.storage.pool.QueryRow(ctx, query, day).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (r *sequenceRepository) Resync(ctx context.Context, day string) error {
	const query = `INSERT INTO order_sequences (day, value)
                   SELECT $1::text, COALESCE(MAX(CAST(SUBSTRING(number FROM 7) AS BIGINT)), 0)
                   FROM orders WHERE number LIKE $1::text || '%'
                   ON CONFLICT (day) DO UPDATE SET value = GREATEST(order_sequences.value, EXCLUDED.value)`
	_, err := r.storage.pool.Exec(ctx, query, day)
	return err
}

// --- OutboxRepository implementation ---

func insertEvent(ctx context.Context, q querier, event model.OrderEvent) error {
	const query = `INSERT INTO order_events (event_id, type, key, payload, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := q.Exec(ctx, query, event.EventID, event.Type, event.Key, string(event.Payload), event.CreatedAt)
	return err
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	const query = `SELECT id, event_id, type, key, payload, created_at
                   FROM order_events WHERE sent_at IS NULL ORDER BY id LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderEvent
	for rows.Next() {
		var e model.OrderEvent
		if err := rows.Scan(&e.ID, &e.EventID, &e.Type, &e.Key, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE order_events SET sent_at=NOW() WHERE id=$1 AND sent_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
