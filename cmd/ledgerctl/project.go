package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"card-ledger/internal/models"
	"card-ledger/internal/schedule"
)

// maxMonths matches the API horizon limit
const maxMonths = 120

func newProjectCmd(opts *options) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Month by month amounts due per card",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months < 1 || months > maxMonths {
				return fmt.Errorf("--months must be between 1 and %d", maxMonths)
			}

			ledgers, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, l := range ledgers {
				printTitle(out, "%s  (closes %d, due %d)", l.Card.Bank, l.Card.ClosingDay, l.Card.DueDay)

				t := &table{headers: []string{"Month", "Period", "Total", "Due dates"}}
				var total int64
				for _, b := range schedule.ProjectMonths(l.Inputs, l.Config, months) {
					dates := make([]string, 0, len(b.DueDates))
					for _, d := range b.DueDates {
						dates = append(dates, d.Format(models.DateLayout))
					}
					t.add(b.Label, b.Month.Format("2006-01"), strconv.FormatInt(b.Total, 10), strings.Join(dedupe(dates), ","))
					total += b.Total
				}
				t.add("total", "", strconv.FormatInt(total, 10), "")
				t.render(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&months, "months", "m", schedule.DefaultMonths, "Months to project")
	return cmd
}

// dedupe drops consecutive duplicates from a sorted list
func dedupe(values []string) []string {
	out := values[:0]
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}
