// Package cache stores built artifacts so repeated renders of the same
// dataset and options skip the build.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// # Keys
//
// A [Keyer] derives keys from content hashes, so equal inputs always map to
// the same entry regardless of where they came from:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(rows), cache.ArtifactKeyOpts{Format: "svg", Width: 960})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes per key kind.
const (
	TTLDataset  = 24 * time.Hour
	TTLModel    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
