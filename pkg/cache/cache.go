// Package cache stores rendered layouts and artifacts between runs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// the HTTP server shared between instances, and [NullCache] when caching
// is off. A [Keyer] derives keys from content hashes, so a changed scene
// or option never reads a stale entry.
//
// Only outputs are cached. A grid's layout state is always recomputed.
package cache

import (
	"context"
	"time"
)

// Default lifetimes per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}
