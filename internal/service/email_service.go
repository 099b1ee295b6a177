package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"card-ledger/configs"
	"card-ledger/internal/models"
)

// Mailer delivers composed messages. *gomail.Dialer satisfies it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSvc is an implementation of the service.EmailService interface
type EmailSvc struct {
	mailer Mailer
	logger *logrus.Logger
	config *configs.Config
	now    func() time.Time
}

// NewEmailService creates a new EmailSvc sending through SMTP unless
// deps.Mailer is set
func NewEmailService(deps Dependencies) *EmailSvc {
	mailer := deps.Mailer
	if mailer == nil {
		mailer = gomail.NewDialer(
			deps.Config.Email.SMTPHost,
			deps.Config.Email.SMTPPort,
			deps.Config.Email.SMTPUser,
			deps.Config.Email.SMTPPassword,
		)
	}

	return &EmailSvc{
		mailer: mailer,
		logger: deps.Logger,
		config: deps.Config,
		now:    deps.clock(),
	}
}

// SendDueReminder tells a user how much is due on a card and when
func (s *EmailSvc) SendDueReminder(ctx context.Context, user *models.User, card *models.CreditCard, amount int64, dueDate time.Time) error {
	// Skip if email is empty
	if user.Email == "" {
		return nil
	}

	days := daysBetween(s.now(), dueDate)

	subject := fmt.Sprintf("Payment reminder: %s card due %s", card.Bank, dueDate.Format(models.DateLayout))

	body := fmt.Sprintf(`
	<h2>Upcoming card payment</h2>
	<p>Dear %s,</p>

	<p>Your %s card statement is due in %d day(s).</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Due date:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Amount due:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Credit limit:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
	</table>

	<p>Paying on time keeps your installments on schedule.</p>
	`,
		user.DisplayName(),
		card.Bank,
		days,
		dueDate.Format(models.DateLayout),
		amount,
		card.Limit,
	)

	if err := s.sendEmail(user.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Due reminder sent to user %d for card %d", user.ID, card.ID)

	return nil
}

// sendEmail composes and sends an HTML message
func (s *EmailSvc) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.Email.SenderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.mailer.DialAndSend(m)
}

// daysBetween counts calendar days from now until due
func daysBetween(now, due time.Time) int {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
