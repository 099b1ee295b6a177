package schedule

import "time"

// FreedomDate returns the latest due date among all unpaid installments.
// The boolean is false when nothing is left to pay.
func FreedomDate(purchases []Purchase, cfg Config) (time.Time, bool) {
	ref := cfg.Reference()

	var latest time.Time
	found := false
	for _, purchase := range purchases {
		for _, inst := range buildSchedule(purchase, cfg, ref, Unlimited) {
			if !found || inst.DueDate.After(latest) {
				latest = inst.DueDate
				found = true
			}
		}
	}

	return latest, found
}
