package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/internal/schedule"
)

// notFound converts a missing row into ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// ownedCard loads a card and checks that it belongs to userID
func ownedCard(ctx context.Context, repos *repository.Repository, cardID, userID int) (*models.CreditCard, error) {
	card, err := repos.Card.GetByID(ctx, cardID)
	if err != nil {
		return nil, notFound(err, "card")
	}

	if card.UserID != userID {
		return nil, fmt.Errorf("card belongs to another user: %w", ErrAccessDenied)
	}

	return card, nil
}

// resolveCard returns the requested card, or the user's first card when
// cardID is zero
func resolveCard(ctx context.Context, repos *repository.Repository, cardID, userID int) (*models.CreditCard, error) {
	if cardID > 0 {
		return ownedCard(ctx, repos, cardID, userID)
	}

	card, err := repos.Card.GetFirstByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCard
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

// utilizationPercent returns total as a percentage of limit
func utilizationPercent(total, limit int64) decimal.Decimal {
	if limit <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(limit))
}

// cardRisk rates the share of the limit billed in the current cycle
func cardRisk(utilization decimal.Decimal) models.RiskLevel {
	switch {
	case utilization.LessThan(decimal.NewFromInt(30)):
		return models.RiskGreen
	case utilization.LessThan(decimal.NewFromInt(70)):
		return models.RiskYellow
	default:
		return models.RiskRed
	}
}

// previewRisk uses tighter thresholds for prospective purchases
func previewRisk(utilization decimal.Decimal) models.RiskLevel {
	switch {
	case utilization.LessThan(decimal.NewFromInt(25)):
		return models.RiskGreen
	case utilization.LessThan(decimal.NewFromInt(45)):
		return models.RiskYellow
	default:
		return models.RiskRed
	}
}

// percentOf returns round(value * pct / 100), never negative
func percentOf(value int64, pct int64) int64 {
	result := decimal.NewFromInt(value).Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100)).Round(0).IntPart()
	if result < 0 {
		return 0
	}
	return result
}

// monthsAfter moves t by n calendar months, keeping the day of month when
// the target month is long enough and clamping it otherwise
func monthsAfter(t time.Time, n int) time.Time {
	target := schedule.StartOfMonth(t).AddDate(0, n, 0)
	day := t.Day()
	if last := schedule.DaysIn(target.Year(), target.Month(), target.Location()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
