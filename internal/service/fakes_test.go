package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"

	"card-ledger/configs"
	"card-ledger/internal/cache"
	"card-ledger/internal/models"
	"card-ledger/internal/repository"
	"card-ledger/pkg/crypto"
)

type fakeUsers struct {
	mu     sync.Mutex
	users  map[int]*models.User
	nextID int
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := *user
	u.ID = f.nextID
	f.users[u.ID] = &u
	return u.ID, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

type fakeCards struct {
	mu        sync.Mutex
	cards     map[int]*models.CreditCard
	nextID    int
	purchases *fakePurchases
}

func (f *fakeCards) Create(ctx context.Context, card *models.CreditCard) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := *card
	c.ID = f.nextID
	f.cards[c.ID] = &c
	return c.ID, nil
}

func (f *fakeCards) GetByID(ctx context.Context, id int) (*models.CreditCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cards[id]; ok && c.DeletedAt == nil {
		return c, nil
	}
	return nil, fmt.Errorf("card not found: %w", sql.ErrNoRows)
}

func (f *fakeCards) active(match func(*models.CreditCard) bool) []*models.CreditCard {
	f.mu.Lock()
	defer f.mu.Unlock()
	cards := []*models.CreditCard{}
	for _, c := range f.cards {
		if c.DeletedAt == nil && match(c) {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

func (f *fakeCards) GetByUserID(ctx context.Context, userID int) ([]*models.CreditCard, error) {
	return f.active(func(c *models.CreditCard) bool { return c.UserID == userID }), nil
}

func (f *fakeCards) GetFirstByUserID(ctx context.Context, userID int) (*models.CreditCard, error) {
	cards := f.active(func(c *models.CreditCard) bool { return c.UserID == userID })
	if len(cards) == 0 {
		return nil, fmt.Errorf("card not found: %w", sql.ErrNoRows)
	}
	return cards[0], nil
}

func (f *fakeCards) GetAllActive(ctx context.Context) ([]*models.CreditCard, error) {
	return f.active(func(c *models.CreditCard) bool { return true }), nil
}

func (f *fakeCards) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	c, ok := f.cards[id]
	if !ok || c.DeletedAt != nil {
		f.mu.Unlock()
		return fmt.Errorf("card not found: %w", sql.ErrNoRows)
	}
	now := time.Now()
	c.DeletedAt = &now
	f.mu.Unlock()

	f.purchases.deleteByCard(id)
	return nil
}

type fakePurchases struct {
	mu        sync.Mutex
	purchases map[int]*models.Purchase
	nextID    int
}

func (f *fakePurchases) Create(ctx context.Context, purchase *models.Purchase) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := *purchase
	p.ID = f.nextID
	f.purchases[p.ID] = &p
	return p.ID, nil
}

func (f *fakePurchases) GetByID(ctx context.Context, id int) (*models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.purchases[id]; ok && p.DeletedAt == nil {
		return p, nil
	}
	return nil, fmt.Errorf("purchase not found: %w", sql.ErrNoRows)
}

func (f *fakePurchases) active(match func(*models.Purchase) bool) []*models.Purchase {
	f.mu.Lock()
	defer f.mu.Unlock()
	purchases := []*models.Purchase{}
	for _, p := range f.purchases {
		if p.DeletedAt == nil && match(p) {
			cp := *p
			purchases = append(purchases, &cp)
		}
	}
	// Newest first, like the database
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID > purchases[j].ID })
	return purchases
}

func (f *fakePurchases) GetByUserID(ctx context.Context, userID int) ([]*models.Purchase, error) {
	return f.active(func(p *models.Purchase) bool { return p.UserID == userID }), nil
}

func (f *fakePurchases) GetByCardID(ctx context.Context, userID, cardID int) ([]*models.Purchase, error) {
	return f.active(func(p *models.Purchase) bool { return p.UserID == userID && p.CardID == cardID }), nil
}

func (f *fakePurchases) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.purchases[id]
	if !ok || p.DeletedAt != nil {
		return fmt.Errorf("purchase not found: %w", sql.ErrNoRows)
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

func (f *fakePurchases) deleteByCard(cardID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, p := range f.purchases {
		if p.CardID == cardID && p.DeletedAt == nil {
			p.DeletedAt = &now
		}
	}
}

// fakeMailer records sent messages
type fakeMailer struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (m *fakeMailer) DialAndSend(msgs ...*gomail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msgs...)
	return nil
}

// testEnv bundles services with their fake storage
type testEnv struct {
	deps      Dependencies
	users     *fakeUsers
	cards     *fakeCards
	purchases *fakePurchases
	mailer    *fakeMailer
	store     *cache.Store
	now       time.Time
}

// testNow is the fixed clock of service tests
var testNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	purchases := &fakePurchases{purchases: map[int]*models.Purchase{}}
	env := &testEnv{
		users:     &fakeUsers{users: map[int]*models.User{}},
		cards:     &fakeCards{cards: map[int]*models.CreditCard{}, purchases: purchases},
		purchases: purchases,
		mailer:    &fakeMailer{},
		now:       testNow,
	}
	env.store = cache.NewStore(cache.NewMemory(), 5*time.Minute, logger)

	env.deps = Dependencies{
		Repos: &repository.Repository{
			User:     env.users,
			Card:     env.cards,
			Purchase: env.purchases,
		},
		Cache:  env.store,
		Logger: logger,
		Config: &configs.Config{
			JWT:      configs.JWTConfig{Secret: "test-secret", TTL: 1},
			Email:    configs.EmailConfig{Enabled: true, SenderEmail: "ledger@example.com"},
			Reminder: configs.ReminderConfig{DaysAhead: 3},
		},
		Now:    func() time.Time { return env.now },
		Hasher: crypto.NewPasswordHasherWithCost(bcrypt.MinCost),
		Mailer: env.mailer,
	}

	return env
}

// addCard stores a card with closing day 15, due day 25 and limit
func (e *testEnv) addCard(t *testing.T, userID int, limit int64) *models.CreditCard {
	t.Helper()
	id, _ := e.cards.Create(context.Background(), &models.CreditCard{
		UserID: userID, Bank: "Banco Test", Limit: limit, ClosingDay: 15, DueDay: 25,
	})
	card, _ := e.cards.GetByID(context.Background(), id)
	return card
}

// addPurchase stores a purchase made on date with no installment paid
func (e *testEnv) addPurchase(t *testing.T, card *models.CreditCard, date time.Time, total int64, installments int) *models.Purchase {
	t.Helper()
	id, _ := e.purchases.Create(context.Background(), &models.Purchase{
		UserID:         card.UserID,
		CardID:         card.ID,
		AmountTotal:    total,
		AmountPerMonth: models.AmountPerMonth(total, installments),
		Installments:   installments,
		Remaining:      installments,
		PurchaseDate:   &date,
		CreatedAt:      date,
	})
	p, _ := e.purchases.GetByID(context.Background(), id)
	return p
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
