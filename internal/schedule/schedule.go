package schedule

import (
	"math"
	"time"
)

// Unlimited disables the month horizon of BuildSchedule.
const Unlimited = math.MaxInt

// Purchase is the engine input for one installment purchase
type Purchase struct {
	PurchaseDate     time.Time `json:"purchase_date"`
	Installments     int       `json:"installments"`
	PaidInstallments int       `json:"paid_installments"`
	AmountPerMonth   int64     `json:"amount_per_month"`
}

// Config holds the billing configuration of a card
type Config struct {
	ClosingDay int `json:"closing_day"`
	DueDay     int `json:"due_day"`
	// ReferenceDate anchors every month offset. The zero value means now.
	ReferenceDate time.Time `json:"reference_date"`
}

// Reference returns the effective reference date.
func (c Config) Reference() time.Time {
	if c.ReferenceDate.IsZero() {
		return time.Now()
	}
	return c.ReferenceDate
}

// Installment is one unpaid installment of a purchase
type Installment struct {
	Number     int       `json:"installment_number"`
	MonthIndex int       `json:"month_index"`
	DueDate    time.Time `json:"due_date"`
	Amount     int64     `json:"amount"`
}

// Elapsed reports whether the installment belongs to a month before the
// reference month, i.e. it is still unpaid although its cycle has passed.
func (i Installment) Elapsed() bool {
	return i.MonthIndex < 0
}

// BuildSchedule expands a purchase into its unpaid installments, keeping
// those whose month index is below monthsToProject. Installments from
// elapsed months (negative index) are kept; use Upcoming to drop them.
func BuildSchedule(p Purchase, cfg Config, monthsToProject int) []Installment {
	return buildSchedule(p, cfg, cfg.Reference(), monthsToProject)
}

func buildSchedule(p Purchase, cfg Config, ref time.Time, monthsToProject int) []Installment {
	paid := p.PaidInstallments
	if paid < 0 {
		paid = 0
	}
	if paid > p.Installments {
		paid = p.Installments
	}
	if p.Installments <= paid {
		return []Installment{}
	}

	first := FirstBillingOffset(p.PurchaseDate, cfg.ClosingDay, ref)

	installments := make([]Installment, 0, p.Installments-paid)
	for n := paid + 1; n <= p.Installments; n++ {
		monthIndex := first + (n - paid - 1)
		if monthIndex >= monthsToProject {
			// Month indexes only grow from here
			break
		}

		installments = append(installments, Installment{
			Number:     n,
			MonthIndex: monthIndex,
			DueDate:    DueDate(monthIndex, cfg.DueDay, ref),
			Amount:     p.AmountPerMonth,
		})
	}

	return installments
}

// Upcoming returns the installments that are not elapsed.
func Upcoming(installments []Installment) []Installment {
	upcoming := make([]Installment, 0, len(installments))
	for _, inst := range installments {
		if !inst.Elapsed() {
			upcoming = append(upcoming, inst)
		}
	}
	return upcoming
}
