package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/pkg/crypto"
)

// UserSvc is an implementation of the service.UserService interface
type UserSvc struct {
	repos     *repository.Repository
	logger    *logrus.Logger
	hasher    *crypto.PasswordHasher
	jwtSecret string
	jwtTTL    time.Duration
	now       func() time.Time
}

// NewUserService creates a new UserSvc
func NewUserService(deps Dependencies) *UserSvc {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = crypto.NewPasswordHasher()
	}

	return &UserSvc{
		repos:     deps.Repos,
		logger:    deps.Logger,
		hasher:    hasher,
		jwtSecret: deps.Config.JWT.Secret,
		jwtTTL:    time.Duration(deps.Config.JWT.TTL) * time.Hour,
		now:       deps.clock(),
	}
}

// Register registers a new user
func (s *UserSvc) Register(ctx context.Context, userReg *models.UserRegistration) (int, error) {
	if err := userReg.ValidateRegistration(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Username and email must be unique
	if _, err := s.repos.User.GetByUsername(ctx, userReg.Username); err == nil {
		return 0, fmt.Errorf("username %w", ErrConflict)
	}
	if _, err := s.repos.User.GetByEmail(ctx, userReg.Email); err == nil {
		return 0, fmt.Errorf("email %w", ErrConflict)
	}

	user := userReg.ToUser()

	hashedPassword, err := s.hasher.HashPassword(user.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PassHash = hashedPassword

	id, err := s.repos.User.Create(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("User registered: %d", id)

	return id, nil
}

// Login checks the credentials and returns a signed JWT
func (s *UserSvc) Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error) {
	user, err := s.repos.User.GetByUsername(ctx, login.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.CheckPasswordHash(login.Password, user.PassHash) {
		return nil, ErrInvalidCredentials
	}

	expirationTime := s.now().Add(s.jwtTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Infof("User logged in: %d", user.ID)

	return &models.TokenResponse{
		Token:     tokenString,
		ExpiresAt: expirationTime.Unix(),
	}, nil
}

// GetByID gets a user by ID
func (s *UserSvc) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	// Don't expose the password hash
	user.PassHash = ""

	return user, nil
}
