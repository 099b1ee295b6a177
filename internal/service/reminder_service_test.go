package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"card-ledger/internal/models"
)

func seedReminder(t *testing.T, env *testEnv) *models.CreditCard {
	t.Helper()
	userID, _ := env.users.Create(context.Background(), &models.User{
		Username: "maria", Email: "maria@example.com", FirstName: "Maria",
	})
	card := env.addCard(t, userID, 1000)
	env.addPurchase(t, card, day(2024, time.March, 2), 500, 2) // 250 due 2024-03-25
	return card
}

func TestSendDueReminders(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Date(2024, time.March, 23, 9, 0, 0, 0, time.UTC)
	seedReminder(t, env)

	// A card without purchases and a card whose owner is gone are skipped
	env.addCard(t, 1, 500)
	orphan := env.addCard(t, 77, 500)
	env.addPurchase(t, orphan, day(2024, time.March, 2), 100, 1)

	sent, err := NewService(env.deps).Reminder.SendDueReminders(context.Background())
	if err != nil {
		t.Fatalf("SendDueReminders() error = %v", err)
	}
	if sent != 1 || len(env.mailer.sent) != 1 {
		t.Fatalf("sent = %d (%d messages), want 1", sent, len(env.mailer.sent))
	}

	msg := env.mailer.sent[0]
	if to := msg.GetHeader("To"); len(to) != 1 || to[0] != "maria@example.com" {
		t.Errorf("To = %v, want maria@example.com", to)
	}
	if subject := msg.GetHeader("Subject"); len(subject) != 1 || !strings.Contains(subject[0], "2024-03-25") {
		t.Errorf("Subject = %v, want the due date", subject)
	}
}

func TestSendDueRemindersOutsideWindow(t *testing.T) {
	env := newTestEnv(t)
	seedReminder(t, env)

	sent, err := NewService(env.deps).Reminder.SendDueReminders(context.Background())
	if err != nil || sent != 0 {
		t.Errorf("SendDueReminders() = %d, %v, want 0 twenty days before the due date", sent, err)
	}
}

func TestSendDueRemindersSkipsFailures(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Date(2024, time.March, 25, 8, 0, 0, 0, time.UTC)
	env.mailer.err = errors.New("smtp unavailable")
	seedReminder(t, env)

	sent, err := NewService(env.deps).Reminder.SendDueReminders(context.Background())
	if err != nil || sent != 0 {
		t.Errorf("SendDueReminders() = %d, %v, want 0 and no error", sent, err)
	}
}

func TestSendDueRemindersDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Date(2024, time.March, 23, 9, 0, 0, 0, time.UTC)
	env.deps.Config.Email.Enabled = false
	seedReminder(t, env)

	sent, err := NewService(env.deps).Reminder.SendDueReminders(context.Background())
	if err != nil || sent != 0 || len(env.mailer.sent) != 0 {
		t.Errorf("SendDueReminders() = %d, %v, want nothing sent", sent, err)
	}
}

func TestDaysBetween(t *testing.T) {
	now := time.Date(2024, time.March, 23, 23, 30, 0, 0, time.UTC)
	if got := daysBetween(now, day(2024, time.March, 25)); got != 2 {
		t.Errorf("daysBetween() = %d, want 2", got)
	}
	if got := daysBetween(now, day(2024, time.March, 20)); got != -3 {
		t.Errorf("daysBetween() = %d, want -3", got)
	}
}
