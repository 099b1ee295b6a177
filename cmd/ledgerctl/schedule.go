package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"card-ledger/internal/models"
	"card-ledger/internal/schedule"
)

func newScheduleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Every installment of every purchase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledgers, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, l := range ledgers {
				for i, p := range l.Purchases {
					name := p.Description
					if name == "" {
						name = "purchase " + strconv.Itoa(p.ID)
					}
					printTitle(out, "%s / %s  %d x %d", l.Card.Bank, name, p.Installments, p.AmountPerMonth)

					t := &table{headers: []string{"#", "Month", "Due date", "Amount", "Status"}}
					for _, inst := range schedule.BuildSchedule(l.Inputs[i], l.Config, schedule.Unlimited) {
						status := "upcoming"
						if inst.Elapsed() {
							status = "elapsed"
						}
						t.add(
							strconv.Itoa(inst.Number),
							strconv.Itoa(inst.MonthIndex),
							inst.DueDate.Format(models.DateLayout),
							strconv.FormatInt(inst.Amount, 10),
							status,
						)
					}
					t.render(out)
				}
			}
			return nil
		},
	}
}
