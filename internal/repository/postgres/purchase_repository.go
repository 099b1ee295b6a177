package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"card-ledger/internal/models"
)

const purchaseColumns = `id, user_id, card_id, description, amount_total, amount_per_month,
	installments, remaining, purchase_date, created_at, updated_at, deleted_at`

// PurchaseRepo is a PostgreSQL implementation of the repository.PurchaseRepository interface
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new PurchaseRepo
func NewPurchaseRepository(db *sql.DB) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}

// Create records a new purchase
func (r *PurchaseRepo) Create(ctx context.Context, purchase *models.Purchase) (int, error) {
	query := `INSERT INTO purchases (user_id, card_id, description, amount_total, amount_per_month,
			  installments, remaining, purchase_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var purchaseDate sql.NullTime
	if purchase.PurchaseDate != nil {
		purchaseDate = sql.NullTime{Time: *purchase.PurchaseDate, Valid: true}
	}

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		purchase.UserID,
		purchase.CardID,
		purchase.Description,
		purchase.AmountTotal,
		purchase.AmountPerMonth,
		purchase.Installments,
		purchase.Remaining,
		purchaseDate,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create purchase: %w", err)
	}

	return id, nil
}

// GetByID gets an active purchase by ID
func (r *PurchaseRepo) GetByID(ctx context.Context, id int) (*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 AND deleted_at IS NULL`

	purchase, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("purchase not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return purchase, nil
}

// GetByUserID gets all active purchases of a user, newest first
func (r *PurchaseRepo) GetByUserID(ctx context.Context, userID int) ([]*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
			  WHERE user_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at DESC, id DESC`

	return r.list(ctx, query, userID)
}

// GetByCardID gets the active purchases a user made with one card, newest first
func (r *PurchaseRepo) GetByCardID(ctx context.Context, userID, cardID int) ([]*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
			  WHERE user_id = $1 AND card_id = $2 AND deleted_at IS NULL
			  ORDER BY created_at DESC, id DESC`

	return r.list(ctx, query, userID, cardID)
}

// Delete soft-deletes a purchase
func (r *PurchaseRepo) Delete(ctx context.Context, id int) error {
	query := `UPDATE purchases SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("purchase not found: %w", sql.ErrNoRows)
	}

	return nil
}

func (r *PurchaseRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*models.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return purchases, nil
}

func scanPurchase(row rowScanner) (*models.Purchase, error) {
	purchase := &models.Purchase{}
	var purchaseDate, deletedAt sql.NullTime
	err := row.Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.CardID,
		&purchase.Description,
		&purchase.AmountTotal,
		&purchase.AmountPerMonth,
		&purchase.Installments,
		&purchase.Remaining,
		&purchaseDate,
		&purchase.CreatedAt,
		&purchase.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if purchaseDate.Valid {
		purchase.PurchaseDate = &purchaseDate.Time
	}
	if deletedAt.Valid {
		purchase.DeletedAt = &deletedAt.Time
	}

	return purchase, nil
}
