// Command ledgerctl projects installment schedules from a TOML portfolio
// without a database.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
