package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"card-ledger/internal/cache"
	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/internal/schedule"
)

// MaxProjectionMonths bounds the horizon a client may request
const MaxProjectionMonths = 120

// ProjectionSvc is an implementation of the service.ProjectionService interface
type ProjectionSvc struct {
	repos  *repository.Repository
	cache  *cache.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewProjectionService creates a new ProjectionSvc
func NewProjectionService(deps Dependencies) *ProjectionSvc {
	return &ProjectionSvc{
		repos:  deps.Repos,
		cache:  deps.Cache,
		logger: deps.Logger,
		now:    deps.clock(),
	}
}

// cardLedger is a card together with the engine inputs of its purchases
type cardLedger struct {
	card      *models.CreditCard
	purchases []*models.Purchase
	inputs    []schedule.Purchase
	config    schedule.Config
}

func (s *ProjectionSvc) loadLedger(ctx context.Context, userID, cardID int) (*cardLedger, error) {
	card, err := resolveCard(ctx, s.repos, cardID, userID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.repos.Purchase.GetByCardID(ctx, userID, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}

	return &cardLedger{
		card:      card,
		purchases: purchases,
		inputs:    models.ToScheduleInputs(purchases),
		config:    card.BillingConfig(s.now()),
	}, nil
}

// fingerprintInput is the hashed description of a cached computation
type fingerprintInput struct {
	Operation  string
	Months     int
	Reference  string
	ClosingDay int
	DueDay     int
	Purchases  []fingerprintPurchase
}

type fingerprintPurchase struct {
	Date         string
	Installments int
	Paid         int
	Amount       int64
}

// cacheKey identifies a computation over the ledger. Results depend on the
// reference month only, so the key does too.
func (s *ProjectionSvc) cacheKey(ctx context.Context, kind string, userID int, l *cardLedger, months int) (string, error) {
	input := fingerprintInput{
		Operation:  kind,
		Months:     months,
		Reference:  l.config.ReferenceDate.Format("2006-01 -0700"),
		ClosingDay: l.config.ClosingDay,
		DueDay:     l.config.DueDay,
		Purchases:  make([]fingerprintPurchase, 0, len(l.inputs)),
	}
	for _, p := range l.inputs {
		input.Purchases = append(input.Purchases, fingerprintPurchase{
			Date:         p.PurchaseDate.Format(models.DateLayout),
			Installments: p.Installments,
			Paid:         p.PaidInstallments,
			Amount:       p.AmountPerMonth,
		})
	}

	fingerprint, err := cache.Fingerprint(input)
	if err != nil {
		return "", err
	}

	return cache.Key(kind, userID, l.card.ID, s.cache.Generation(ctx, userID), fingerprint), nil
}

// buckets projects the ledger through the cache
func (s *ProjectionSvc) buckets(ctx context.Context, userID int, l *cardLedger, months int) ([]schedule.MonthBucket, error) {
	compute := func(ctx context.Context) ([]schedule.MonthBucket, error) {
		return schedule.ProjectMonths(l.inputs, l.config, months), nil
	}

	if s.cache == nil {
		return compute(ctx)
	}

	key, err := s.cacheKey(ctx, cache.KindProjection, userID, l, months)
	if err != nil {
		s.logger.Warnf("Projection cache bypassed: %v", err)
		return compute(ctx)
	}

	return cache.Remember(ctx, s.cache, key, compute)
}

// freedomDate computes the ledger's freedom date through the cache
func (s *ProjectionSvc) freedomDate(ctx context.Context, userID int, l *cardLedger) (*string, error) {
	compute := func(ctx context.Context) (*string, error) {
		return models.OptionalTimestamp(schedule.FreedomDate(l.inputs, l.config)), nil
	}

	if s.cache == nil {
		return compute(ctx)
	}

	key, err := s.cacheKey(ctx, cache.KindFreedom, userID, l, 0)
	if err != nil {
		s.logger.Warnf("Freedom date cache bypassed: %v", err)
		return compute(ctx)
	}

	return cache.Remember(ctx, s.cache, key, compute)
}

// Projection returns the month by month amounts due on a card
func (s *ProjectionSvc) Projection(ctx context.Context, userID, cardID, months int) (*models.ProjectionResponse, error) {
	if months == 0 {
		months = schedule.DefaultMonths
	}
	if months < 0 || months > MaxProjectionMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", ErrValidation, MaxProjectionMonths)
	}

	ledger, err := s.loadLedger(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	buckets, err := s.buckets(ctx, userID, ledger, months)
	if err != nil {
		return nil, err
	}

	return &models.ProjectionResponse{
		CardID: ledger.card.ID,
		Months: models.NewMonthResponses(buckets),
	}, nil
}

// FreedomDate returns the due date of the last unpaid installment on a card
func (s *ProjectionSvc) FreedomDate(ctx context.Context, userID, cardID int) (*models.FreedomDateResponse, error) {
	ledger, err := s.loadLedger(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	freedom, err := s.freedomDate(ctx, userID, ledger)
	if err != nil {
		return nil, err
	}

	return &models.FreedomDateResponse{
		CardID:      ledger.card.ID,
		FreedomDate: freedom,
	}, nil
}

// Overview builds the dashboard of the user's first card. Users without a
// card get an empty overview.
func (s *ProjectionSvc) Overview(ctx context.Context, userID int) (*models.Overview, error) {
	ledger, err := s.loadLedger(ctx, userID, 0)
	if err != nil {
		if errors.Is(err, ErrNoCard) {
			return models.EmptyOverview(), nil
		}
		return nil, err
	}

	buckets, err := s.buckets(ctx, userID, ledger, schedule.DefaultMonths)
	if err != nil {
		return nil, err
	}

	freedom, err := s.freedomDate(ctx, userID, ledger)
	if err != nil {
		return nil, err
	}

	projection := models.NewMonthResponses(buckets)
	ref := ledger.config.ReferenceDate
	for idx := range projection {
		if len(projection[idx].DueDates) > 0 {
			continue
		}
		// Show when the month's statement would be due
		base := monthsAfter(ref, idx)
		offset := schedule.FirstBillingOffset(base, ledger.card.ClosingDay, ref)
		fallback := schedule.DueDate(offset, ledger.card.DueDay, ref)
		projection[idx].DueDates = []string{models.FormatTimestamp(fallback)}
	}

	var monthlyTotal int64
	if len(buckets) > 0 {
		monthlyTotal = buckets[0].Total
	}

	return &models.Overview{
		Card:         ledger.card,
		Purchases:    ledger.purchases,
		MonthlyTotal: monthlyTotal,
		Utilization:  int(utilizationPercent(monthlyTotal, ledger.card.Limit).Round(0).IntPart()),
		FreedomDate:  freedom,
		Projection:   projection,
	}, nil
}

// Preview shows how a prospective purchase would change a card's outlook
func (s *ProjectionSvc) Preview(ctx context.Context, userID int, req *models.PreviewRequest) (*models.Preview, error) {
	if req.CardID <= 0 || req.Amount <= 0 || req.Installments < 1 {
		return nil, fmt.Errorf("%w: card_id, amount and installments are required", ErrValidation)
	}

	ledger, err := s.loadLedger(ctx, userID, req.CardID)
	if err != nil {
		return nil, err
	}

	purchaseDate := ledger.config.ReferenceDate
	if req.PurchaseDate != "" {
		purchaseDate, err = models.ParseDate(req.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	candidate := schedule.Purchase{
		PurchaseDate:   purchaseDate,
		Installments:   req.Installments,
		AmountPerMonth: models.AmountPerMonth(req.Amount, req.Installments),
	}

	cfg := ledger.config
	card := ledger.card
	withCandidate := append(append([]schedule.Purchase{}, ledger.inputs...), candidate)

	monthsWith := schedule.ProjectMonths(withCandidate, cfg, schedule.DefaultMonths)
	monthsCurrent := schedule.ProjectMonths(ledger.inputs, cfg, schedule.DefaultMonths)

	newMonthlyTotal := monthsWith[0].Total
	newMonthlyDelta := newMonthlyTotal - monthsCurrent[0].Total
	if newMonthlyDelta < 0 {
		newMonthlyDelta = 0
	}

	utilization := utilizationPercent(newMonthlyTotal, card.Limit).Round(2)

	freedom, hasFreedom := schedule.FreedomDate(withCandidate, cfg)
	var withExtra time.Time
	if hasFreedom {
		// One extra payment moves payoff a month earlier
		withExtra = freedom.AddDate(0, -1, 0)
	}

	offset := schedule.FirstBillingOffset(purchaseDate, card.ClosingDay, cfg.ReferenceDate)
	candidateSchedule := schedule.BuildSchedule(candidate, cfg, schedule.Unlimited)
	firstDue := schedule.DueDate(offset, card.DueDay, cfg.ReferenceDate)
	lastDue := firstDue
	if len(candidateSchedule) > 0 {
		firstDue = candidateSchedule[0].DueDate
		lastDue = candidateSchedule[len(candidateSchedule)-1].DueDate
	}

	nextDue, hasNextDue := nextDueDate(withCandidate, cfg)

	daysToNextPeriod := card.ClosingDay - purchaseDate.Day() + 1
	if daysToNextPeriod < 0 {
		daysToNextPeriod = 0
	}

	return &models.Preview{
		Card:                 card,
		NewMonthlyTotal:      newMonthlyTotal,
		NewMonthlyDelta:      newMonthlyDelta,
		NewUtilization:       utilization.InexactFloat64(),
		NewRisk:              previewRisk(utilization),
		FreedomDate:          models.OptionalTimestamp(freedom, hasFreedom),
		FreedomDateWithExtra: models.OptionalTimestamp(withExtra, hasFreedom),
		RecommendedPayment:   percentOf(newMonthlyTotal, 35),
		InterestSavings:      percentOf(newMonthlyDelta, 18),
		FirstBillingOffset:   offset,
		FirstDueDate:         models.OptionalTimestamp(firstDue, true),
		LastDueDate:          models.OptionalTimestamp(lastDue, true),
		NextDueDate:          models.OptionalTimestamp(nextDue, hasNextDue),
		Timeline:             models.NewMonthResponses(monthsWith),
		DaysToNextPeriod:     daysToNextPeriod,
	}, nil
}

// nextDueDate returns the earliest due date that is not in an elapsed month
func nextDueDate(purchases []schedule.Purchase, cfg schedule.Config) (time.Time, bool) {
	var upcoming []time.Time
	for _, p := range purchases {
		for _, inst := range schedule.Upcoming(schedule.BuildSchedule(p, cfg, schedule.Unlimited)) {
			upcoming = append(upcoming, inst.DueDate)
		}
	}

	if len(upcoming) == 0 {
		return time.Time{}, false
	}

	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Before(upcoming[j]) })
	return upcoming[0], true
}
