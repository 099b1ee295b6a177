package models

import (
	"time"

	"card-ledger/internal/schedule"
)

// MonthResponse is one projected month as returned by the API
type MonthResponse struct {
	Month    string   `json:"month"`
	Total    int64    `json:"total"`
	DueDates []string `json:"dueDates"`
}

// NewMonthResponses serializes projection buckets with ISO-8601 due dates
func NewMonthResponses(buckets []schedule.MonthBucket) []MonthResponse {
	months := make([]MonthResponse, 0, len(buckets))
	for _, b := range buckets {
		dueDates := make([]string, 0, len(b.DueDates))
		for _, d := range b.DueDates {
			dueDates = append(dueDates, FormatTimestamp(d))
		}
		months = append(months, MonthResponse{
			Month:    b.Label,
			Total:    b.Total,
			DueDates: dueDates,
		})
	}
	return months
}

// FormatTimestamp renders t as an ISO-8601 UTC timestamp
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// OptionalTimestamp renders t, or nil when ok is false
func OptionalTimestamp(t time.Time, ok bool) *string {
	if !ok {
		return nil
	}
	s := FormatTimestamp(t)
	return &s
}

// ProjectionResponse is the projection of one card
type ProjectionResponse struct {
	CardID int             `json:"card_id"`
	Months []MonthResponse `json:"months"`
}

// FreedomDateResponse holds the date the last installment is due
type FreedomDateResponse struct {
	CardID      int     `json:"card_id"`
	FreedomDate *string `json:"freedom_date"`
}

// Overview is the dashboard summary of a user's first card
type Overview struct {
	Card         *CreditCard     `json:"card"`
	Purchases    []*Purchase     `json:"purchases"`
	MonthlyTotal int64           `json:"monthly_total"`
	Utilization  int             `json:"utilization"`
	FreedomDate  *string         `json:"freedom_date"`
	Projection   []MonthResponse `json:"projection"`
}

// EmptyOverview is returned to users without a card
func EmptyOverview() *Overview {
	return &Overview{
		Purchases:  []*Purchase{},
		Projection: []MonthResponse{},
	}
}

// PreviewRequest describes a purchase the user is considering
type PreviewRequest struct {
	CardID       int    `json:"card_id"`
	Amount       int64  `json:"amount"`
	Installments int    `json:"installments"`
	PurchaseDate string `json:"purchase_date,omitempty"`
}

// Preview is the effect of a prospective purchase on a card
type Preview struct {
	Card                 *CreditCard     `json:"card"`
	NewMonthlyTotal      int64           `json:"new_monthly_total"`
	NewMonthlyDelta      int64           `json:"new_monthly_delta"`
	NewUtilization       float64         `json:"new_utilization"`
	NewRisk              RiskLevel       `json:"new_risk"`
	FreedomDate          *string         `json:"freedom_date"`
	FreedomDateWithExtra *string         `json:"freedom_date_with_extra"`
	RecommendedPayment   int64           `json:"recommended_payment"`
	InterestSavings      int64           `json:"interest_savings"`
	FirstBillingOffset   int             `json:"first_billing_offset"`
	FirstDueDate         *string         `json:"first_due_date"`
	LastDueDate          *string         `json:"last_due_date"`
	NextDueDate          *string         `json:"next_due_date"`
	Timeline             []MonthResponse `json:"timeline"`
	DaysToNextPeriod     int             `json:"days_to_next_period"`
}

// SimpleSimulationRequest holds the extra payment to spread over purchases
type SimpleSimulationRequest struct {
	ExtraPayment int64 `json:"extra_payment"`
}

// AdvancedSimulationRequest adds a monthly interest rate, in percent
type AdvancedSimulationRequest struct {
	ExtraPayment        int64   `json:"extra_payment"`
	InterestRateMonthly float64 `json:"interest_rate_monthly"`
}

// SimulatedMonth is one month of an advanced simulation
type SimulatedMonth struct {
	Month   string `json:"month"`
	Total   int64  `json:"total"`
	DueDate string `json:"dueDate"`
}

// SimpleSimulation is the projection after applying an extra payment
type SimpleSimulation struct {
	Months          []MonthResponse `json:"months"`
	NewMonthlyTotal int64           `json:"new_monthly_total"`
	NewUtilization  int             `json:"new_utilization"`
	NewRisk         RiskLevel       `json:"new_risk"`
	RemainingExtra  int64           `json:"remaining_extra"`
}

// AdvancedSimulation is the twelve month outlook with interest applied
type AdvancedSimulation struct {
	Months          []SimulatedMonth `json:"months"`
	NewMonthlyTotal int64            `json:"new_monthly_total"`
	NewUtilization  int              `json:"new_utilization"`
	NewRisk         RiskLevel        `json:"new_risk"`
	RemainingExtra  int64            `json:"remaining_extra"`
}
