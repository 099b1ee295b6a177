package cache

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

const namespace = "ledger:v1"

// Kinds of cached results
const (
	KindProjection = "projection"
	KindFreedom    = "freedom"
)

// Key builds the cache key of a result. fingerprint identifies the inputs
// the result was computed from.
func Key(kind string, userID, cardID int, generation string, fingerprint uint64) string {
	return fmt.Sprintf("%s:%s:%d:%d:%s:%016x", namespace, kind, userID, cardID, generation, fingerprint)
}

// GenerationKey is the key under which a user's cache generation is stored
func GenerationKey(userID int) string {
	return fmt.Sprintf("%s:gen:%d", namespace, userID)
}

// Fingerprint hashes a comparable description of the inputs of a result.
// Struct field order is significant, slice order is not ignored.
func Fingerprint(v interface{}) (uint64, error) {
	hash, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint cache input: %w", err)
	}
	return hash, nil
}
