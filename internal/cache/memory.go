package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache. Expired entries are never returned and
// are dropped by Purge.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates an empty in-process cache. Expired entries stay until
// Purge runs.
func NewMemory() *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the value stored under key
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, ok := v.([]byte)
	return value, ok, nil
}

// Set stores value under key for ttl. A non-positive ttl never expires.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete removes key
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

// Purge removes every expired entry and returns how many were dropped
func (m *Memory) Purge(ctx context.Context) (int64, error) {
	before := m.items.ItemCount()
	m.items.DeleteExpired()
	return int64(before - m.items.ItemCount()), nil
}

// Len returns the number of stored entries, expired ones not yet purged
// included
func (m *Memory) Len() int {
	return m.items.ItemCount()
}
