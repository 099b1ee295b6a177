package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"card-ledger/internal/cache"
	"card-ledger/internal/models"
	"card-ledger/internal/repository"
)

// PurchaseSvc is an implementation of the service.PurchaseService interface
type PurchaseSvc struct {
	repos  *repository.Repository
	cache  *cache.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewPurchaseService creates a new PurchaseSvc
func NewPurchaseService(deps Dependencies) *PurchaseSvc {
	return &PurchaseSvc{
		repos:  deps.Repos,
		cache:  deps.Cache,
		logger: deps.Logger,
		now:    deps.clock(),
	}
}

// Create records a purchase on one of the user's cards
func (s *PurchaseSvc) Create(ctx context.Context, purchaseCreate *models.PurchaseCreate, userID int) (int, error) {
	if err := purchaseCreate.ValidatePurchaseCreate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := ownedCard(ctx, s.repos, purchaseCreate.CardID, userID); err != nil {
		return 0, err
	}

	purchase, err := purchaseCreate.ToPurchase(userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	id, err := s.repos.Purchase.Create(ctx, purchase)
	if err != nil {
		return 0, fmt.Errorf("failed to create purchase: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, userID)
	s.logger.Infof("Purchase created: %d on card: %d (%d x %d)", id, purchase.CardID, purchase.Installments, purchase.AmountPerMonth)

	return id, nil
}

// GetByUserID lists the user's purchases, optionally for one card only
func (s *PurchaseSvc) GetByUserID(ctx context.Context, userID int, cardID int) ([]*models.Purchase, error) {
	if cardID > 0 {
		if _, err := ownedCard(ctx, s.repos, cardID, userID); err != nil {
			return nil, err
		}

		purchases, err := s.repos.Purchase.GetByCardID(ctx, userID, cardID)
		if err != nil {
			return nil, fmt.Errorf("failed to get purchases: %w", err)
		}
		return purchases, nil
	}

	purchases, err := s.repos.Purchase.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	return purchases, nil
}

// Delete soft-deletes a purchase owned by the user
func (s *PurchaseSvc) Delete(ctx context.Context, id int, userID int) error {
	purchase, err := s.repos.Purchase.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "purchase")
	}

	if purchase.UserID != userID {
		return fmt.Errorf("purchase belongs to another user: %w", ErrAccessDenied)
	}

	if err := s.repos.Purchase.Delete(ctx, id); err != nil {
		return notFound(err, "purchase")
	}

	invalidate(ctx, s.cache, s.logger, userID)
	s.logger.Infof("Purchase deleted: %d for user: %d", id, userID)

	return nil
}
