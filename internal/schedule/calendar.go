// Package schedule turns installment purchases into billing-cycle schedules,
// monthly projections and a debt-free date. Every function is pure: results
// depend only on the arguments and Config.ReferenceDate.
package schedule

import (
	"math"
	"time"
)

// ClampDay rounds value to the nearest integer and clamps it to [1,31].
// NaN and infinities return 1.
func ClampDay(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 1
	}

	// Clamp before converting, out of range floats have no int value
	day := math.Round(value)
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return int(day)
}

// MonthDiff returns the number of calendar months from "from" to "to",
// ignoring the day of month. It is negative when "to" is earlier.
func MonthDiff(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
}

// StartOfMonth returns midnight of the first day of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// addMonths moves a first-of-month date by n months.
func addMonths(monthStart time.Time, n int) time.Time {
	return time.Date(monthStart.Year(), monthStart.Month()+time.Month(n), 1, 0, 0, 0, 0, monthStart.Location())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
