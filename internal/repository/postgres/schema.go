package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order on start-up; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS credit_cards (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		bank VARCHAR(100) NOT NULL,
		credit_limit BIGINT NOT NULL CHECK (credit_limit > 0),
		closing_day SMALLINT NOT NULL CHECK (closing_day BETWEEN 1 AND 31),
		due_day SMALLINT NOT NULL CHECK (due_day BETWEEN 1 AND 31),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_credit_cards_user ON credit_cards (user_id) WHERE deleted_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		card_id INTEGER NOT NULL REFERENCES credit_cards(id),
		description TEXT NOT NULL DEFAULT '',
		amount_total BIGINT NOT NULL,
		amount_per_month BIGINT NOT NULL,
		installments INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		purchase_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_user_card ON purchases (user_id, card_id) WHERE deleted_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		expires_at TIMESTAMPTZ
	)`,
}

// Migrate applies the schema to db
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
