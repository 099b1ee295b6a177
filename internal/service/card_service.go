package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"card-ledger/internal/cache"
	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/internal/schedule"
)

// CardSvc is an implementation of the service.CardService interface
type CardSvc struct {
	repos  *repository.Repository
	cache  *cache.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewCardService creates a new CardSvc
func NewCardService(deps Dependencies) *CardSvc {
	return &CardSvc{
		repos:  deps.Repos,
		cache:  deps.Cache,
		logger: deps.Logger,
		now:    deps.clock(),
	}
}

// Create creates a new card
func (s *CardSvc) Create(ctx context.Context, cardCreate *models.CardCreate, userID int) (int, error) {
	if err := cardCreate.ValidateCardCreate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	id, err := s.repos.Card.Create(ctx, cardCreate.ToCard(userID))
	if err != nil {
		return 0, fmt.Errorf("failed to create card: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, userID)
	s.logger.Infof("Card created: %d for user: %d", id, userID)

	return id, nil
}

// GetByID gets a card by ID and verifies ownership
func (s *CardSvc) GetByID(ctx context.Context, id int, userID int) (*models.CreditCard, error) {
	return ownedCard(ctx, s.repos, id, userID)
}

// GetByUserID gets all cards of a user
func (s *CardSvc) GetByUserID(ctx context.Context, userID int) ([]*models.CreditCard, error) {
	cards, err := s.repos.Card.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	return cards, nil
}

// Delete soft-deletes a card and its purchases
func (s *CardSvc) Delete(ctx context.Context, id int, userID int) error {
	if _, err := ownedCard(ctx, s.repos, id, userID); err != nil {
		return err
	}

	if err := s.repos.Card.Delete(ctx, id); err != nil {
		return notFound(err, "card")
	}

	invalidate(ctx, s.cache, s.logger, userID)
	s.logger.Infof("Card deleted: %d for user: %d", id, userID)

	return nil
}

// Stats summarizes the current cycle of the user's first card
func (s *CardSvc) Stats(ctx context.Context, userID int) (*models.CardStats, error) {
	card, err := resolveCard(ctx, s.repos, 0, userID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.repos.Purchase.GetByCardID(ctx, userID, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}

	buckets := schedule.ProjectMonths(models.ToScheduleInputs(purchases), card.BillingConfig(s.now()), 1)
	monthlyTotal := buckets[0].Total
	utilization := utilizationPercent(monthlyTotal, card.Limit)

	return &models.CardStats{
		Card:         card,
		Purchases:    purchases,
		MonthlyTotal: monthlyTotal,
		Utilization:  int(utilization.Round(0).IntPart()),
		Risk:         cardRisk(utilization),
	}, nil
}
