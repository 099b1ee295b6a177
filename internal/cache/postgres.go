package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres stores cache entries in the cache_entries table so that every
// API instance shares them
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres creates a cache backed by db
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// Get returns the value stored under key unless it has expired
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM cache_entries
			  WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	var value []byte
	err := p.db.QueryRowContext(ctx, query, key, p.now()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return value, true, nil
}

// Set upserts value under key
func (p *Postgres) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `INSERT INTO cache_entries (key, value, expires_at) VALUES ($1, $2, $3)
			  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: p.now().Add(ttl), Valid: true}
	}

	if _, err := p.db.ExecContext(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	return nil
}

// Delete removes key
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Purge deletes expired rows
func (p *Postgres) Purge(ctx context.Context) (int64, error) {
	result, err := p.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`, p.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
