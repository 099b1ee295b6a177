package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"card-ledger/internal/models"
	"card-ledger/internal/schedule"
)

// Portfolio is the on-disk description of cards and their purchases
type Portfolio struct {
	Reference string     `toml:"reference"`
	Cards     []CardFile `toml:"card"`
}

// CardFile is one [[card]] table
type CardFile struct {
	Bank       string         `toml:"bank"`
	Limit      int64          `toml:"limit"`
	ClosingDay int            `toml:"closing_day"`
	DueDay     int            `toml:"due_day"`
	Purchases  []PurchaseFile `toml:"purchase"`
}

// PurchaseFile is one [[card.purchase]] table. Dates are quoted
// "YYYY-MM-DD" strings.
type PurchaseFile struct {
	Description      string `toml:"description"`
	Date             string `toml:"date"`
	AmountTotal      int64  `toml:"amount_total"`
	Installments     int    `toml:"installments"`
	PaidInstallments int    `toml:"paid_installments"`
}

// Ledger is a validated card ready for the engine
type Ledger struct {
	Card      *models.CreditCard
	Purchases []*models.Purchase
	Inputs    []schedule.Purchase
	Config    schedule.Config
}

// LoadPortfolio reads and validates a portfolio file. Unknown keys are
// rejected so typos do not silently drop data.
func LoadPortfolio(path string) (*Portfolio, error) {
	var p Portfolio
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("parsing portfolio: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("parsing portfolio: unknown keys %s", strings.Join(keys, ", "))
	}

	if len(p.Cards) == 0 {
		return nil, errors.New("portfolio has no [[card]] tables")
	}

	return &p, nil
}

// ReferenceDate resolves the projection anchor: the flag, then the file,
// then now
func (p *Portfolio) ReferenceDate(flag string, now time.Time) (time.Time, error) {
	value := flag
	if value == "" {
		value = p.Reference
	}
	if value == "" {
		return now, nil
	}

	ref, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date: %w", err)
	}
	return ref, nil
}

// Ledgers validates every card and purchase and maps them to engine inputs
func (p *Portfolio) Ledgers(ref time.Time) ([]*Ledger, error) {
	ledgers := make([]*Ledger, 0, len(p.Cards))

	for i, c := range p.Cards {
		create := models.CardCreate{Bank: c.Bank, Limit: c.Limit, ClosingDay: c.ClosingDay, DueDay: c.DueDay}
		if err := create.ValidateCardCreate(); err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}

		card := create.ToCard(0)
		card.ID = i + 1

		purchases := make([]*models.Purchase, 0, len(c.Purchases))
		for j, pf := range c.Purchases {
			pc := models.PurchaseCreate{
				CardID:           card.ID,
				Description:      pf.Description,
				AmountTotal:      pf.AmountTotal,
				Installments:     pf.Installments,
				PaidInstallments: pf.PaidInstallments,
				PurchaseDate:     pf.Date,
			}
			if err := pc.ValidatePurchaseCreate(); err != nil {
				return nil, fmt.Errorf("card %d purchase %d: %w", i+1, j+1, err)
			}

			purchase, err := pc.ToPurchase(0, ref)
			if err != nil {
				return nil, fmt.Errorf("card %d purchase %d: %w", i+1, j+1, err)
			}
			purchase.ID = j + 1
			purchases = append(purchases, purchase)
		}

		ledgers = append(ledgers, &Ledger{
			Card:      card,
			Purchases: purchases,
			Inputs:    models.ToScheduleInputs(purchases),
			Config:    card.BillingConfig(ref),
		})
	}

	return ledgers, nil
}
