package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"card-ledger/internal/models"
	"card-ledger/internal/schedule"
)

func newFreedomCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "freedom",
		Short: "Date the last installment of each card is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledgers, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := &table{headers: []string{"Card", "Purchases", "Freedom date"}}
			for _, l := range ledgers {
				freedom := "none"
				if date, ok := schedule.FreedomDate(l.Inputs, l.Config); ok {
					freedom = date.Format(models.DateLayout)
				}
				t.add(l.Card.Bank, fmt.Sprint(len(l.Purchases)), freedom)
			}

			printTitle(out, "Freedom dates")
			t.render(out)
			return nil
		},
	}
}
