package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchemaDDL = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresKV keeps values in a kv table of a PostgreSQL database.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to connString and creates the kv table if needed.
func OpenPostgres(ctx context.Context, connString string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to execute schema DDL: %w", err)
	}
	return &PostgresKV{pool: pool}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Close() error {
	p.pool.Close()
	return nil
}
