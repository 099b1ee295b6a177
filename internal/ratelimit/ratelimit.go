// Package ratelimit implements per-client fixed window request limits.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Rule caps the number of requests a client may make per window
type Rule struct {
	Name   string
	Max    int
	Window time.Duration
}

func (r Rule) rate() limiter.Rate {
	return limiter.Rate{Period: r.Window, Limit: int64(r.Max)}
}

// Per-route limits
var (
	Projection        = Rule{Name: "projection", Max: 20, Window: time.Minute}
	PurchaseCreate    = Rule{Name: "purchase_create", Max: 20, Window: time.Minute}
	SimulatorSimple   = Rule{Name: "simulator_simple", Max: 15, Window: time.Minute}
	SimulatorAdvanced = Rule{Name: "simulator_advanced", Max: 10, Window: time.Minute}
	Dashboard         = Rule{Name: "dashboard", Max: 40, Window: time.Minute}
	CardStats         = Rule{Name: "card_stats", Max: 30, Window: time.Minute}
	Preview           = Rule{Name: "preview", Max: 15, Window: time.Minute}
	List              = Rule{Name: "list", Max: 30, Window: time.Minute}
)

const (
	storePrefix     = "card_ledger_rate"
	cleanUpInterval = time.Minute
)

// Limiter counts requests per rule and client key in a shared store. It is
// safe for concurrent use.
type Limiter struct {
	store limiter.Store
	now   func() time.Time

	mu    sync.Mutex
	rules map[string]*limiter.Limiter
}

// New creates a Limiter backed by an in-process store. Ended windows are
// dropped by the store every minute.
func New() *Limiter {
	return NewWithStore(memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: cleanUpInterval,
	}))
}

// NewWithStore creates a Limiter over any limiter store
func NewWithStore(store limiter.Store) *Limiter {
	return &Limiter{
		store: store,
		now:   time.Now,
		rules: make(map[string]*limiter.Limiter),
	}
}

func (l *Limiter) forRule(rule Rule) *limiter.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.rules[rule.Name]
	if !ok {
		lim = limiter.New(l.store, rule.rate())
		l.rules[rule.Name] = lim
	}
	return lim
}

// Allow records a request of key under rule. When the window is full it
// returns false and the time left until the window resets.
func (l *Limiter) Allow(ctx context.Context, rule Rule, key string) (bool, time.Duration, error) {
	state, err := l.forRule(rule).Get(ctx, rule.Name+":"+key)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check rate limit %s: %w", rule.Name, err)
	}

	if !state.Reached {
		return true, 0, nil
	}

	retry := time.Unix(state.Reset, 0).Sub(l.now())
	if retry < 0 {
		retry = 0
	}
	return false, retry, nil
}
