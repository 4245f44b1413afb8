// internal/tokenstore/postgres.go
package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTokensTable = `
	CREATE TABLE IF NOT EXISTS storefront_tokens (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Postgres keeps values in the storefront_tokens table.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres creates the table if needed.
func NewPostgres(ctx context.Context, db *pgxpool.Pool) (*Postgres, error) {
	if _, err := db.Exec(ctx, createTokensTable); err != nil {
		return nil, fmt.Errorf("failed to create storefront_tokens: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.db.QueryRow(ctx, `SELECT value FROM storefront_tokens WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get token: %w", err)
	}
	return v, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storefront_tokens (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := p.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM storefront_tokens WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Close leaves the shared pool open; its owner closes it.
func (p *Postgres) Close() error { return nil }
