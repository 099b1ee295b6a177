package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"card-ledger/internal/models"
)

// openTestDB connects to TEST_DATABASE_DSN, applies the schema or skips
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *sql.DB) int {
	t.Helper()

	suffix := time.Now().UnixNano()
	id, err := NewUserRepository(db).Create(context.Background(), &models.User{
		Username: fmt.Sprintf("user%d", suffix),
		Email:    fmt.Sprintf("user%d@example.com", suffix),
		PassHash: "hash",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestUserRepoLookups(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	id := createTestUser(t, db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byName, err := repo.GetByUsername(ctx, user.Username); err != nil || byName.ID != id {
		t.Errorf("GetByUsername() = %v, %v", byName, err)
	}
	if byEmail, err := repo.GetByEmail(ctx, user.Email); err != nil || byEmail.ID != id {
		t.Errorf("GetByEmail() = %v, %v", byEmail, err)
	}
	if _, err := repo.GetByID(ctx, -1); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID(-1) error = %v, want sql.ErrNoRows", err)
	}
}

func TestCardDeleteCascadesToPurchases(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cards := NewCardRepository(db)
	purchases := NewPurchaseRepository(db)
	userID := createTestUser(t, db)

	cardID, err := cards.Create(ctx, &models.CreditCard{UserID: userID, Bank: "Test", Limit: 1000, ClosingDay: 15, DueDay: 25})
	if err != nil {
		t.Fatalf("Create(card) error = %v", err)
	}

	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err := purchases.Create(ctx, &models.Purchase{
			UserID: userID, CardID: cardID, AmountTotal: 300, AmountPerMonth: 100,
			Installments: 3, Remaining: 3, PurchaseDate: &date,
		})
		if err != nil {
			t.Fatalf("Create(purchase) error = %v", err)
		}
	}

	list, err := purchases.GetByCardID(ctx, userID, cardID)
	if err != nil || len(list) != 2 {
		t.Fatalf("GetByCardID() = %d purchases, %v, want 2", len(list), err)
	}
	if list[0].PurchaseDate == nil || !list[0].PurchaseDate.Equal(date) {
		t.Errorf("PurchaseDate = %v, want %v", list[0].PurchaseDate, date)
	}

	if err := cards.Delete(ctx, cardID); err != nil {
		t.Fatalf("Delete(card) error = %v", err)
	}

	if _, err := cards.GetByID(ctx, cardID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID() after delete error = %v, want sql.ErrNoRows", err)
	}
	if list, _ := purchases.GetByUserID(ctx, userID); len(list) != 0 {
		t.Errorf("GetByUserID() after card delete = %d purchases, want 0", len(list))
	}
	if err := cards.Delete(ctx, cardID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second Delete() error = %v, want sql.ErrNoRows", err)
	}
}
