package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mimi-order/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps the order log in the orders table, one JSONB row per order.
// seq preserves insertion order.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Orders(ctx context.Context) ([]models.Order, error) {
	rows, err := p.pool.Query(ctx, `SELECT payload FROM orders ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var o models.Order
		if err := json.Unmarshal(payload, &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (p *Postgres) Append(ctx context.Context, o models.Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO orders (id, day, created_at, payload)
		VALUES ($1, $2::date, $3, $4)`,
		o.ID, o.Day, o.CreatedAt, payload,
	)
	return err
}

func (p *Postgres) SetTableHint(ctx context.Context, table string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = $2,
			updated_at = now()`,
		TableHintKey, table,
	)
	return err
}

func (p *Postgres) TableHint(ctx context.Context) (string, error) {
	var v string
	err := p.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, TableHintKey).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return v, err
}
