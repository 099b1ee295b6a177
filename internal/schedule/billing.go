package schedule

import "time"

// FirstBillingOffset returns the month offset, relative to the reference
// month, of the first statement a purchase is billed on. A purchase made
// after the closing day rolls into the following cycle; one made on the
// closing day itself stays in the current cycle.
func FirstBillingOffset(purchaseDate time.Time, closingDay int, referenceDate time.Time) int {
	safeClosingDay := ClampDay(float64(closingDay))
	purchase := dateOnly(purchaseDate)

	firstBillingMonth := StartOfMonth(purchase)
	if purchase.Day() > safeClosingDay {
		firstBillingMonth = addMonths(firstBillingMonth, 1)
	}

	return MonthDiff(StartOfMonth(referenceDate), firstBillingMonth)
}

// DueDate returns the payment due date monthOffset months after the
// reference month. A due day beyond the length of that month collapses to
// its last day.
func DueDate(monthOffset, dueDay int, referenceDate time.Time) time.Time {
	safeDueDay := ClampDay(float64(dueDay))
	target := addMonths(StartOfMonth(referenceDate), monthOffset)

	day := safeDueDay
	if last := DaysIn(target.Year(), target.Month(), target.Location()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, target.Location())
}
