package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"card-ledger/internal/models"
)

const cardColumns = `id, user_id, bank, credit_limit, closing_day, due_day, created_at, updated_at, deleted_at`

// CardRepo is a PostgreSQL implementation of the repository.CardRepository interface
type CardRepo struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepo
func NewCardRepository(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

// Create creates a new card in the database
func (r *CardRepo) Create(ctx context.Context, card *models.CreditCard) (int, error) {
	query := `INSERT INTO credit_cards (user_id, bank, credit_limit, closing_day, due_day)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		card.UserID,
		card.Bank,
		card.Limit,
		card.ClosingDay,
		card.DueDay,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create card: %w", err)
	}

	return id, nil
}

// GetByID gets an active card by ID
func (r *CardRepo) GetByID(ctx context.Context, id int) (*models.CreditCard, error) {
	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE id = $1 AND deleted_at IS NULL`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

// GetFirstByUserID gets the oldest active card of a user
func (r *CardRepo) GetFirstByUserID(ctx context.Context, userID int) (*models.CreditCard, error) {
	query := `SELECT ` + cardColumns + ` FROM credit_cards
			  WHERE user_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at, id LIMIT 1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

// GetByUserID gets all active cards of a user
func (r *CardRepo) GetByUserID(ctx context.Context, userID int) ([]*models.CreditCard, error) {
	query := `SELECT ` + cardColumns + ` FROM credit_cards
			  WHERE user_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at, id`

	return r.list(ctx, query, userID)
}

// GetAllActive gets every active card, used by background jobs
func (r *CardRepo) GetAllActive(ctx context.Context) ([]*models.CreditCard, error) {
	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE deleted_at IS NULL ORDER BY id`

	return r.list(ctx, query)
}

// Delete soft-deletes a card together with its purchases
func (r *CardRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE credit_cards SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("card not found: %w", sql.ErrNoRows)
	}

	// Cascade to the card's purchases
	if _, err := tx.ExecContext(ctx,
		`UPDATE purchases SET deleted_at = NOW(), updated_at = NOW() WHERE card_id = $1 AND deleted_at IS NULL`, id); err != nil {
		return fmt.Errorf("failed to delete card purchases: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *CardRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer rows.Close()

	cards := []*models.CreditCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return cards, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (*models.CreditCard, error) {
	card := &models.CreditCard{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Bank,
		&card.Limit,
		&card.ClosingDay,
		&card.DueDay,
		&card.CreatedAt,
		&card.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		card.DeletedAt = &deletedAt.Time
	}

	return card, nil
}
