package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"card-ledger/internal/schedule"
)

// DateLayout is the calendar date format accepted and returned by the API
const DateLayout = "2006-01-02"

// Purchase represents an installment purchase made with a card
type Purchase struct {
	ID             int        `json:"id" db:"id"`
	UserID         int        `json:"user_id" db:"user_id"`
	CardID         int        `json:"card_id" db:"card_id"`
	Description    string     `json:"description" db:"description"`
	AmountTotal    int64      `json:"amount_total" db:"amount_total"`
	AmountPerMonth int64      `json:"amount_per_month" db:"amount_per_month"`
	Installments   int        `json:"installments" db:"installments"`
	Remaining      int        `json:"remaining" db:"remaining"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"-" db:"deleted_at"`
}

// ToScheduleInput maps the stored purchase to the engine input.
// Purchases without a purchase date fall back to their creation time.
func (p *Purchase) ToScheduleInput() schedule.Purchase {
	purchaseDate := p.CreatedAt
	if p.PurchaseDate != nil {
		purchaseDate = *p.PurchaseDate
	}

	return schedule.Purchase{
		PurchaseDate:     purchaseDate,
		Installments:     p.Installments,
		PaidInstallments: p.Installments - p.Remaining,
		AmountPerMonth:   p.AmountPerMonth,
	}
}

// ToScheduleInputs maps a list of stored purchases to engine inputs
func ToScheduleInputs(purchases []*Purchase) []schedule.Purchase {
	inputs := make([]schedule.Purchase, 0, len(purchases))
	for _, p := range purchases {
		inputs = append(inputs, p.ToScheduleInput())
	}
	return inputs
}

// PurchaseCreate represents data for recording a new purchase
type PurchaseCreate struct {
	CardID           int    `json:"card_id" binding:"required"`
	Description      string `json:"description"`
	AmountTotal      int64  `json:"amount_total" binding:"required"`
	Installments     int    `json:"installments" binding:"required"`
	PaidInstallments int    `json:"paid_installments"`
	PurchaseDate     string `json:"purchase_date,omitempty"`
}

// ValidatePurchaseCreate validates purchase creation data
func (p *PurchaseCreate) ValidatePurchaseCreate() error {
	if p.CardID <= 0 {
		return errors.New("card_id is required")
	}

	if p.AmountTotal <= 0 {
		return errors.New("amount_total must be positive")
	}

	if p.Installments < 1 {
		return errors.New("installments must be at least 1")
	}

	if p.PurchaseDate != "" {
		if _, err := ParseDate(p.PurchaseDate); err != nil {
			return err
		}
	}

	p.Description = strings.TrimSpace(p.Description)

	return nil
}

// ToPurchase converts PurchaseCreate to Purchase. The purchase date
// defaults to now and paid installments are clamped to the installment count.
func (p *PurchaseCreate) ToPurchase(userID int, now time.Time) (*Purchase, error) {
	purchaseDate := now
	if p.PurchaseDate != "" {
		parsed, err := ParseDate(p.PurchaseDate)
		if err != nil {
			return nil, err
		}
		purchaseDate = parsed
	}

	paid := p.PaidInstallments
	if paid < 0 {
		paid = 0
	}
	if paid > p.Installments {
		paid = p.Installments
	}

	return &Purchase{
		UserID:         userID,
		CardID:         p.CardID,
		Description:    p.Description,
		AmountTotal:    p.AmountTotal,
		AmountPerMonth: AmountPerMonth(p.AmountTotal, p.Installments),
		Installments:   p.Installments,
		Remaining:      p.Installments - paid,
		PurchaseDate:   &purchaseDate,
	}, nil
}

// AmountPerMonth splits total into installments, rounding half away from zero
func AmountPerMonth(total int64, installments int) int64 {
	if installments < 1 {
		return total
	}
	return decimal.NewFromInt(total).
		Div(decimal.NewFromInt(int64(installments))).
		Round(0).
		IntPart()
}

// ParseDate parses a calendar date or an RFC 3339 timestamp
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t, nil
}
