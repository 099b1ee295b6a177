// Package cache memoizes projection results. Values are JSON encoded and
// stored in a pluggable backend; per-user generations make invalidation a
// single write.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Purger is implemented by backends that can drop expired entries
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Stats reports cache effectiveness since start-up
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Errors uint64 `json:"errors"`
}

// Store wraps a backend with a default TTL, hit counters and logging.
// Backend failures are logged and treated as misses.
type Store struct {
	backend Cache
	ttl     time.Duration
	logger  *logrus.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

// NewStore creates a Store over backend
func NewStore(backend Cache, ttl time.Duration, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		ttl:     ttl,
		logger:  logger,
	}
}

// Stats returns a snapshot of the counters
func (s *Store) Stats() Stats {
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Errors: s.errors.Load(),
	}
}

// Purge drops expired entries when the backend supports it
func (s *Store) Purge(ctx context.Context) (int64, error) {
	p, ok := s.backend.(Purger)
	if !ok {
		return 0, nil
	}
	return p.Purge(ctx)
}

// Remember returns the cached value for key, or computes, stores and
// returns it. Concurrent misses may compute the same value twice.
func Remember[T any](ctx context.Context, s *Store, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	if raw, ok := s.lookup(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			s.hits.Add(1)
			return cached, nil
		}
		s.logger.Warnf("Discarding undecodable cache entry %s", key)
	}
	s.misses.Add(1)

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.errors.Add(1)
		s.logger.Warnf("Failed to encode cache entry %s: %v", key, err)
		return value, nil
	}

	if err := s.backend.Set(ctx, key, raw, s.ttl); err != nil {
		s.errors.Add(1)
		s.logger.Warnf("Failed to write cache entry %s: %v", key, err)
	}

	return value, nil
}

func (s *Store) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.errors.Add(1)
		s.logger.Warnf("Failed to read cache entry %s: %v", key, err)
		return nil, false
	}
	return raw, ok
}
