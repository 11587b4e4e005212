// Package cache stores intermediate results keyed by content hash.
//
// Integration of a world graph is deterministic and comparatively expensive,
// and a placement run is deterministic per seed, so both are cached. Three
// backends implement [Cache]:
//
//   - [NullCache] never stores anything.
//   - [FileCache] stores entries as JSON files, for the CLI.
//   - [RedisCache] stores entries in Redis, for servers sharing one cache.
//
// Keys are produced by a [Keyer] so that every caller agrees on their shape.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLReduction is the lifetime of an integrated location list.
	TTLReduction = 7 * 24 * time.Hour
	// TTLPlacement is the lifetime of a placement result.
	TTLPlacement = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
