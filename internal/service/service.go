package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/cache"
	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/pkg/crypto"
)

// Errors returned by services. Handlers map them to HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrValidation         = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoCard             = errors.New("user has no card")
	ErrNoPurchases        = errors.New("no purchases to simulate")
)

// UserService defines methods for user service
type UserService interface {
	Register(ctx context.Context, user *models.UserRegistration) (int, error)
	Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// CardService defines methods for card service
type CardService interface {
	Create(ctx context.Context, card *models.CardCreate, userID int) (int, error)
	GetByID(ctx context.Context, id int, userID int) (*models.CreditCard, error)
	GetByUserID(ctx context.Context, userID int) ([]*models.CreditCard, error)
	Delete(ctx context.Context, id int, userID int) error
	Stats(ctx context.Context, userID int) (*models.CardStats, error)
}

// PurchaseService defines methods for purchase service
type PurchaseService interface {
	Create(ctx context.Context, purchase *models.PurchaseCreate, userID int) (int, error)
	GetByUserID(ctx context.Context, userID int, cardID int) ([]*models.Purchase, error)
	Delete(ctx context.Context, id int, userID int) error
}

// ProjectionService defines methods for projection service
type ProjectionService interface {
	Projection(ctx context.Context, userID, cardID, months int) (*models.ProjectionResponse, error)
	FreedomDate(ctx context.Context, userID, cardID int) (*models.FreedomDateResponse, error)
	Overview(ctx context.Context, userID int) (*models.Overview, error)
	Preview(ctx context.Context, userID int, req *models.PreviewRequest) (*models.Preview, error)
}

// SimulatorService defines methods for payoff simulator service
type SimulatorService interface {
	Simple(ctx context.Context, userID int, req *models.SimpleSimulationRequest) (*models.SimpleSimulation, error)
	Advanced(ctx context.Context, userID int, req *models.AdvancedSimulationRequest) (*models.AdvancedSimulation, error)
}

// ExportService defines methods for projection export service
type ExportService interface {
	ProjectionXML(ctx context.Context, userID, cardID, months int) ([]byte, error)
}

// EmailService defines methods for email service
type EmailService interface {
	SendDueReminder(ctx context.Context, user *models.User, card *models.CreditCard, amount int64, dueDate time.Time) error
}

// ReminderService defines methods for due date reminder service
type ReminderService interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos  *repository.Repository
	Cache  *cache.Store
	Logger *logrus.Logger
	Config *configs.Config

	// Optional. Default to time.Now, bcrypt.DefaultCost and an SMTP dialer.
	Now    func() time.Time
	Hasher *crypto.PasswordHasher
	Mailer Mailer
}

func (d Dependencies) clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// Service is a composition of all services
type Service struct {
	User       UserService
	Card       CardService
	Purchase   PurchaseService
	Projection ProjectionService
	Simulator  SimulatorService
	Export     ExportService
	Email      EmailService
	Reminder   ReminderService
}

// NewService creates a new service with all sub-services
func NewService(deps Dependencies) *Service {
	projection := NewProjectionService(deps)
	email := NewEmailService(deps)

	return &Service{
		User:       NewUserService(deps),
		Card:       NewCardService(deps),
		Purchase:   NewPurchaseService(deps),
		Projection: projection,
		Simulator:  NewSimulatorService(deps),
		Export:     NewExportService(deps, projection),
		Email:      email,
		Reminder:   NewReminderService(deps, email),
	}
}

// invalidate drops the cached results of a user. Failures are logged only,
// stale entries still expire with their TTL.
func invalidate(ctx context.Context, store *cache.Store, logger *logrus.Logger, userID int) {
	if store == nil {
		return
	}
	if err := store.InvalidateUser(ctx, userID); err != nil {
		logger.Warnf("Failed to invalidate cache for user %d: %v", userID, err)
	}
}
