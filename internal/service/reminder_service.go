package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/internal/schedule"
)

// reminderMonths covers the current and the next statement
const reminderMonths = 2

// ReminderSvc is an implementation of the service.ReminderService interface
type ReminderSvc struct {
	repos     *repository.Repository
	email     EmailService
	logger    *logrus.Logger
	enabled   bool
	daysAhead int
	now       func() time.Time
}

// NewReminderService creates a new ReminderSvc
func NewReminderService(deps Dependencies, email EmailService) *ReminderSvc {
	return &ReminderSvc{
		repos:     deps.Repos,
		email:     email,
		logger:    deps.Logger,
		enabled:   deps.Config.Email.Enabled,
		daysAhead: deps.Config.Reminder.DaysAhead,
		now:       deps.clock(),
	}
}

// SendDueReminders e-mails every card owner whose next statement falls due
// within the configured number of days and returns how many were sent.
// Failures for a single card are logged and do not stop the run.
func (s *ReminderSvc) SendDueReminders(ctx context.Context) (int, error) {
	if !s.enabled {
		s.logger.Info("Email disabled, skipping due reminders")
		return 0, nil
	}

	cards, err := s.repos.Card.GetAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get cards: %w", err)
	}

	now := s.now()
	sent := 0
	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		amount, dueDate, ok, err := s.nextStatement(ctx, card, now)
		if err != nil {
			s.logger.Warnf("Failed to project card %d: %v", card.ID, err)
			continue
		}
		if !ok || amount == 0 {
			continue
		}

		days := daysBetween(now, dueDate)
		if days < 0 || days > s.daysAhead {
			continue
		}

		user, err := s.repos.User.GetByID(ctx, card.UserID)
		if err != nil {
			s.logger.Warnf("Failed to get owner of card %d: %v", card.ID, err)
			continue
		}

		if err := s.email.SendDueReminder(ctx, user, card, amount, dueDate); err != nil {
			s.logger.Warnf("Failed to send reminder for card %d: %v", card.ID, err)
			continue
		}
		sent++
	}

	s.logger.Infof("Due reminders sent: %d of %d cards", sent, len(cards))

	return sent, nil
}

// nextStatement finds the first projected month whose due date is today or
// later and returns its total
func (s *ReminderSvc) nextStatement(ctx context.Context, card *models.CreditCard, now time.Time) (int64, time.Time, bool, error) {
	purchases, err := s.repos.Purchase.GetByCardID(ctx, card.UserID, card.ID)
	if err != nil {
		return 0, time.Time{}, false, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	buckets := schedule.ProjectMonths(models.ToScheduleInputs(purchases), card.BillingConfig(now), reminderMonths)
	for _, bucket := range buckets {
		if len(bucket.DueDates) == 0 {
			continue
		}
		due := bucket.DueDates[0]
		if !due.Before(today) {
			return bucket.Total, due, true, nil
		}
	}

	return 0, time.Time{}, false, nil
}
