package repository

import (
	"context"
	"database/sql"

	"card-ledger/internal/models"
	"card-ledger/internal/repository/postgres"
)

// UserRepository defines methods for user repository
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CardRepository defines methods for credit card repository.
// Soft-deleted cards are never returned.
type CardRepository interface {
	Create(ctx context.Context, card *models.CreditCard) (int, error)
	GetByID(ctx context.Context, id int) (*models.CreditCard, error)
	GetByUserID(ctx context.Context, userID int) ([]*models.CreditCard, error)
	GetFirstByUserID(ctx context.Context, userID int) (*models.CreditCard, error)
	GetAllActive(ctx context.Context) ([]*models.CreditCard, error)
	Delete(ctx context.Context, id int) error
}

// PurchaseRepository defines methods for purchase repository.
// Soft-deleted purchases are never returned.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) (int, error)
	GetByID(ctx context.Context, id int) (*models.Purchase, error)
	GetByUserID(ctx context.Context, userID int) ([]*models.Purchase, error)
	GetByCardID(ctx context.Context, userID, cardID int) ([]*models.Purchase, error)
	Delete(ctx context.Context, id int) error
}

// Repository is a composition of all repositories
type Repository struct {
	DB       *sql.DB
	User     UserRepository
	Card     CardRepository
	Purchase PurchaseRepository
}

// NewRepository creates a new repository with all sub-repositories
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:       db,
		User:     postgres.NewUserRepository(db),
		Card:     postgres.NewCardRepository(db),
		Purchase: postgres.NewPurchaseRepository(db),
	}
}

// Migrate creates the database schema if it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	return postgres.Migrate(ctx, r.DB)
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	if r.DB == nil {
		return nil
	}
	return r.DB.PingContext(ctx)
}
