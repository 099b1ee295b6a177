package main

import (
	"time"

	"github.com/spf13/cobra"
)

// options are the flags shared by every command
type options struct {
	file      string
	reference string
	now       func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Credit card installment projections",
		Long:         "Project installment payments, due dates and payoff dates from a TOML portfolio.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "portfolio.toml", "Portfolio file")
	root.PersistentFlags().StringVar(&opts.reference, "reference", "", "Reference date (YYYY-MM-DD), defaults to the file or today")

	root.AddCommand(newProjectCmd(opts))
	root.AddCommand(newFreedomCmd(opts))
	root.AddCommand(newScheduleCmd(opts))

	return root
}

// load reads the portfolio and builds its ledgers
func (o *options) load() ([]*Ledger, error) {
	portfolio, err := LoadPortfolio(o.file)
	if err != nil {
		return nil, err
	}

	ref, err := portfolio.ReferenceDate(o.reference, o.now())
	if err != nil {
		return nil, err
	}

	return portfolio.Ledgers(ref)
}
