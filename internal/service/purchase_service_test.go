package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"card-ledger/internal/models"
)

func TestPurchaseCreate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPurchaseService(env.deps)
	ctx := context.Background()
	card := env.addCard(t, 1, 1000)

	id, err := svc.Create(ctx, &models.PurchaseCreate{
		CardID:           card.ID,
		Description:      " Laptop ",
		AmountTotal:      1000,
		Installments:     3,
		PaidInstallments: 5,
	}, 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p, err := env.purchases.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if p.AmountPerMonth != 333 {
		t.Errorf("AmountPerMonth = %d, want 333", p.AmountPerMonth)
	}
	if p.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0 after clamping paid installments", p.Remaining)
	}
	if p.Description != "Laptop" {
		t.Errorf("Description = %q, want trimmed", p.Description)
	}
	if p.PurchaseDate == nil || !p.PurchaseDate.Equal(testNow) {
		t.Errorf("PurchaseDate = %v, want the current time", p.PurchaseDate)
	}
}

func TestPurchaseCreateRejects(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPurchaseService(env.deps)
	ctx := context.Background()
	card := env.addCard(t, 1, 1000)

	tests := []struct {
		name   string
		create models.PurchaseCreate
		userID int
		want   error
	}{
		{"zero amount", models.PurchaseCreate{CardID: card.ID, AmountTotal: 0, Installments: 1}, 1, ErrValidation},
		{"no installments", models.PurchaseCreate{CardID: card.ID, AmountTotal: 10, Installments: 0}, 1, ErrValidation},
		{"bad date", models.PurchaseCreate{CardID: card.ID, AmountTotal: 10, Installments: 1, PurchaseDate: "05/03/2024"}, 1, ErrValidation},
		{"missing card", models.PurchaseCreate{CardID: 99, AmountTotal: 10, Installments: 1}, 1, ErrNotFound},
		{"other user's card", models.PurchaseCreate{CardID: card.ID, AmountTotal: 10, Installments: 1}, 2, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := tt.create
			if _, err := svc.Create(ctx, &create, tt.userID); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPurchaseListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPurchaseService(env.deps)
	ctx := context.Background()

	first := env.addCard(t, 1, 1000)
	second := env.addCard(t, 1, 2000)
	env.addPurchase(t, first, day(2024, time.March, 1), 100, 1)
	p := env.addPurchase(t, second, day(2024, time.March, 2), 200, 2)

	all, err := svc.GetByUserID(ctx, 1, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetByUserID(all) = %d, %v, want 2", len(all), err)
	}
	onSecond, err := svc.GetByUserID(ctx, 1, second.ID)
	if err != nil || len(onSecond) != 1 || onSecond[0].ID != p.ID {
		t.Fatalf("GetByUserID(second card) = %v, %v, want only purchase %d", onSecond, err, p.ID)
	}
	if _, err := svc.GetByUserID(ctx, 2, second.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("GetByUserID(other user) error = %v, want ErrAccessDenied", err)
	}

	if err := svc.Delete(ctx, p.ID, 2); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Delete(other user) error = %v, want ErrAccessDenied", err)
	}
	if err := svc.Delete(ctx, p.ID, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, p.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
