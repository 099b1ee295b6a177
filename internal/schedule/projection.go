package schedule

import (
	"sort"
	"time"
)

// DefaultMonths is the usual projection horizon.
const DefaultMonths = 12

// shortMonths are the es-ES abbreviated month names shown to users.
var shortMonths = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// MonthLabel returns the short month name for m.
func MonthLabel(m time.Month) string {
	return shortMonths[(int(m)-1+12)%12]
}

// MonthBucket aggregates every installment billed in one month
type MonthBucket struct {
	Label    string      `json:"label"`
	Month    time.Time   `json:"month"`
	Total    int64       `json:"total"`
	DueDates []time.Time `json:"due_dates"`
}

// ProjectMonths merges the schedules of all purchases into monthsToProject
// buckets, bucket 0 being the reference month.
func ProjectMonths(purchases []Purchase, cfg Config, monthsToProject int) []MonthBucket {
	if monthsToProject <= 0 {
		return []MonthBucket{}
	}

	ref := cfg.Reference()
	refMonth := StartOfMonth(ref)

	buckets := make([]MonthBucket, monthsToProject)
	for idx := range buckets {
		month := addMonths(refMonth, idx)
		buckets[idx] = MonthBucket{
			Label:    MonthLabel(month.Month()),
			Month:    month,
			DueDates: []time.Time{},
		}
	}

	for _, purchase := range purchases {
		for _, inst := range buildSchedule(purchase, cfg, ref, monthsToProject) {
			if inst.MonthIndex < 0 {
				continue
			}
			buckets[inst.MonthIndex].Total += inst.Amount
			buckets[inst.MonthIndex].DueDates = append(buckets[inst.MonthIndex].DueDates, inst.DueDate)
		}
	}

	for idx := range buckets {
		dates := buckets[idx].DueDates
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	}

	return buckets
}
