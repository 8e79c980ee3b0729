// Package cache stores analysis reports and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory; the CLI default.
//   - [MemoryCache]: bounded in-process LRU; used by the HTTP server.
//   - [RedisCache]: shared cache for several server instances.
//   - [NullCache]: stores nothing; used with --no-cache.
//
// # Keys
//
// Keys are derived by a [Keyer] from a hash of the blueprint and every option
// that changes the result, so a changed inserter bonus or sink rate never
// serves a stale report. [ScopedKeyer] prefixes keys to share one backend
// between tenants.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLReport   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
