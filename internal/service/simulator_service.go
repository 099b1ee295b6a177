package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/internal/schedule"
)

// simulationMonths is the horizon of both simulators
const simulationMonths = 12

// SimulatorSvc is an implementation of the service.SimulatorService interface
type SimulatorSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	now    func() time.Time
}

// NewSimulatorService creates a new SimulatorSvc
func NewSimulatorService(deps Dependencies) *SimulatorSvc {
	return &SimulatorSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		now:    deps.clock(),
	}
}

func (s *SimulatorSvc) load(ctx context.Context, userID int) (*models.CreditCard, []*models.Purchase, error) {
	card, err := resolveCard(ctx, s.repos, 0, userID)
	if err != nil {
		return nil, nil, err
	}

	purchases, err := s.repos.Purchase.GetByCardID(ctx, userID, card.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get purchases: %w", err)
	}

	return card, purchases, nil
}

// Simple spends an extra payment on the purchases closest to payoff,
// clearing whole purchases or whole installments, and re-projects the card
func (s *SimulatorSvc) Simple(ctx context.Context, userID int, req *models.SimpleSimulationRequest) (*models.SimpleSimulation, error) {
	if req.ExtraPayment < 0 {
		return nil, fmt.Errorf("%w: extra_payment must not be negative", ErrValidation)
	}

	card, purchases, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	simulated, remainingExtra := applyExtraByRemaining(purchases, req.ExtraPayment)

	buckets := schedule.ProjectMonths(models.ToScheduleInputs(simulated), card.BillingConfig(s.now()), simulationMonths)
	newMonthlyTotal := buckets[0].Total
	// Risk is rated on the whole percentage shown to the user
	utilization := utilizationPercent(newMonthlyTotal, card.Limit).Round(0)

	s.logger.Infof("Simple simulation for user %d: extra %d, %d left over", userID, req.ExtraPayment, remainingExtra)

	return &models.SimpleSimulation{
		Months:          models.NewMonthResponses(buckets),
		NewMonthlyTotal: newMonthlyTotal,
		NewUtilization:  int(utilization.IntPart()),
		NewRisk:         cardRisk(utilization),
		RemainingExtra:  remainingExtra,
	}, nil
}

// applyExtraByRemaining returns copies of purchases with extra applied to
// those with the fewest remaining installments first
func applyExtraByRemaining(purchases []*models.Purchase, extra int64) ([]*models.Purchase, int64) {
	simulated := make([]*models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		cp := *p
		simulated = append(simulated, &cp)
	}

	sort.SliceStable(simulated, func(i, j int) bool {
		return simulated[i].Remaining < simulated[j].Remaining
	})

	for _, p := range simulated {
		if extra <= 0 {
			break
		}

		debt := p.AmountPerMonth * int64(p.Remaining)
		if extra >= debt {
			extra -= debt
			p.Remaining = 0
			continue
		}

		if p.AmountPerMonth <= 0 {
			continue
		}
		cleared := extra / p.AmountPerMonth
		p.Remaining -= int(cleared)
		extra -= cleared * p.AmountPerMonth
	}

	return simulated, extra
}

// balance is a purchase being paid down in the advanced simulation
type balance struct {
	amountPerMonth decimal.Decimal
	outstanding    decimal.Decimal
	startOffset    int
}

// Advanced spends an extra payment on the largest balances, then accrues
// monthly interest on what is left for twelve months
func (s *SimulatorSvc) Advanced(ctx context.Context, userID int, req *models.AdvancedSimulationRequest) (*models.AdvancedSimulation, error) {
	if req.ExtraPayment < 0 || req.InterestRateMonthly < 0 {
		return nil, fmt.Errorf("%w: extra_payment and interest_rate_monthly must not be negative", ErrValidation)
	}

	card, purchases, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(purchases) == 0 {
		return nil, ErrNoPurchases
	}

	now := s.now()
	balances := make([]*balance, 0, len(purchases))
	for _, p := range purchases {
		offset := schedule.FirstBillingOffset(p.ToScheduleInput().PurchaseDate, card.ClosingDay, now)
		if offset < 0 {
			offset = 0
		}
		balances = append(balances, &balance{
			amountPerMonth: decimal.NewFromInt(p.AmountPerMonth),
			outstanding:    decimal.NewFromInt(p.AmountPerMonth * int64(p.Remaining)),
			startOffset:    offset,
		})
	}

	remainingExtra := payDownLargestFirst(balances, decimal.NewFromInt(req.ExtraPayment))
	rate := decimal.NewFromFloat(req.InterestRateMonthly).Div(decimal.NewFromInt(100))

	refMonth := schedule.StartOfMonth(now)
	months := make([]models.SimulatedMonth, simulationMonths)
	for m := range months {
		monthTotal := decimal.Zero

		for _, b := range balances {
			if !b.outstanding.IsPositive() || m < b.startOffset {
				continue
			}

			interest := b.outstanding.Mul(rate)
			payment := decimal.Min(b.amountPerMonth, b.outstanding.Add(interest))
			b.outstanding = b.outstanding.Sub(payment.Sub(interest))
			monthTotal = monthTotal.Add(payment)
		}

		months[m] = models.SimulatedMonth{
			Month:   schedule.MonthLabel(refMonth.AddDate(0, m, 0).Month()),
			Total:   monthTotal.Round(0).IntPart(),
			DueDate: models.FormatTimestamp(schedule.DueDate(m, card.DueDay, now)),
		}
	}

	newMonthlyTotal := months[0].Total
	// Risk is rated on the whole percentage shown to the user
	utilization := utilizationPercent(newMonthlyTotal, card.Limit).Round(0)

	s.logger.Infof("Advanced simulation for user %d: extra %d at %.2f%% monthly", userID, req.ExtraPayment, req.InterestRateMonthly)

	return &models.AdvancedSimulation{
		Months:          months,
		NewMonthlyTotal: newMonthlyTotal,
		NewUtilization:  int(utilization.IntPart()),
		NewRisk:         cardRisk(utilization),
		RemainingExtra:  remainingExtra.Round(0).IntPart(),
	}, nil
}

// payDownLargestFirst applies extra to balances in descending order and
// returns what could not be used
func payDownLargestFirst(balances []*balance, extra decimal.Decimal) decimal.Decimal {
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].outstanding.GreaterThan(balances[j].outstanding)
	})

	for _, b := range balances {
		if !extra.IsPositive() {
			break
		}
		payDown := decimal.Min(b.outstanding, extra)
		b.outstanding = b.outstanding.Sub(payDown)
		extra = extra.Sub(payDown)
	}

	return extra
}
