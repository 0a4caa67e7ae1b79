package db

import (
	"context"
	"fmt"

	"mimi-order/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects a pool and checks it with a ping.
func Open(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return OpenURL(ctx, cfg.URL())
}

func OpenURL(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
