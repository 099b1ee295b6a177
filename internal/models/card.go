package models

import (
	"errors"
	"strings"
	"time"

	"card-ledger/internal/schedule"
)

// RiskLevel is the traffic-light rating of card utilization
type RiskLevel string

const (
	RiskGreen  RiskLevel = "green"
	RiskYellow RiskLevel = "yellow"
	RiskRed    RiskLevel = "red"
)

// CreditCard represents a user's credit card and its billing cycle
type CreditCard struct {
	ID         int        `json:"id" db:"id"`
	UserID     int        `json:"user_id" db:"user_id"`
	Bank       string     `json:"bank" db:"bank"`
	Limit      int64      `json:"limit" db:"credit_limit"`
	ClosingDay int        `json:"closing_day" db:"closing_day"`
	DueDay     int        `json:"due_day" db:"due_day"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"-" db:"deleted_at"`
}

// CardCreate represents data for creating a new card
type CardCreate struct {
	Bank       string `json:"bank" binding:"required"`
	Limit      int64  `json:"limit" binding:"required"`
	ClosingDay int    `json:"closing_day" binding:"required"`
	DueDay     int    `json:"due_day" binding:"required"`
}

// ValidateCardCreate validates card creation data
func (c *CardCreate) ValidateCardCreate() error {
	c.Bank = strings.TrimSpace(c.Bank)
	if c.Bank == "" {
		return errors.New("bank is required")
	}

	if c.Limit <= 0 {
		return errors.New("limit must be positive")
	}

	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return errors.New("closing day must be between 1 and 31")
	}

	if c.DueDay < 1 || c.DueDay > 31 {
		return errors.New("due day must be between 1 and 31")
	}

	return nil
}

// ToCard converts CardCreate to CreditCard
func (c *CardCreate) ToCard(userID int) *CreditCard {
	return &CreditCard{
		UserID:     userID,
		Bank:       c.Bank,
		Limit:      c.Limit,
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
	}
}

// BillingConfig returns the engine configuration of the card anchored at ref
func (c *CreditCard) BillingConfig(ref time.Time) schedule.Config {
	return schedule.Config{
		ClosingDay:    c.ClosingDay,
		DueDay:        c.DueDay,
		ReferenceDate: ref,
	}
}

// CardStats is the first-cycle summary of a card
type CardStats struct {
	Card         *CreditCard `json:"card"`
	Purchases    []*Purchase `json:"purchases"`
	MonthlyTotal int64       `json:"monthly_total"`
	Utilization  int         `json:"utilization"`
	Risk         RiskLevel   `json:"risk"`
}
