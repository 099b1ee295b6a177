package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// initialGeneration is used until a user's results are first invalidated
const initialGeneration = "0"

// Invalidator drops every cached result of a user
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID int) error
}

// Generation returns the current cache generation of a user. Read errors
// fall back to the initial generation.
func (s *Store) Generation(ctx context.Context, userID int) string {
	raw, ok := s.lookup(ctx, GenerationKey(userID))
	if !ok || len(raw) == 0 {
		return initialGeneration
	}
	return string(raw)
}

// InvalidateUser moves the user to a fresh generation so that existing
// entries are never read again. They expire with their TTL.
func (s *Store) InvalidateUser(ctx context.Context, userID int) error {
	generation := uuid.NewString()
	if err := s.backend.Set(ctx, GenerationKey(userID), []byte(generation), 0); err != nil {
		s.errors.Add(1)
		return fmt.Errorf("failed to invalidate cache for user %d: %w", userID, err)
	}

	s.logger.Infof("Cache invalidated for user %d", userID)

	return nil
}
