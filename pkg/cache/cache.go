// Package cache stores loaded commit histories between runs.
//
// Reading a large repository walks every commit object, which dominates the
// cost of drawing a diagram. The history of a repository is fully determined
// by its ref tips, so a key derived from the tips lets repeated runs skip the
// walk until a ref moves.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for several machines looking at
//     the same repositories
//   - [NullCache]: never stores anything
//
// # Keys
//
// A [Keyer] turns a repository identity and walk options into a cache key.
// [ScopedKeyer] adds a prefix so different users or tools can share one
// backend without colliding.
package cache

import (
	"context"
	"time"
)

// DefaultHistoryTTL is how long a loaded history stays cached. Keys change as
// soon as a ref tip moves, so the TTL only bounds storage growth.
const DefaultHistoryTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero stores the entry without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// HistoryKey returns the key for the commit records of repo loaded with
	// opts.
	HistoryKey(repo string, opts HistoryKeyOpts) string
}

// HistoryKeyOpts identifies one history walk.
type HistoryKeyOpts struct {
	// Tips maps every walked ref to the commit it points at.
	Tips map[string]string
	// MaxCommits is the walk limit; zero means unlimited.
	MaxCommits int
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HistoryKey implements Keyer. The tips map is encoded with sorted keys, so
// the result does not depend on map iteration order.
func (DefaultKeyer) HistoryKey(repo string, opts HistoryKeyOpts) string {
	return hashKey("history", repo, opts.Tips, opts.MaxCommits)
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

var (
	_ Clearer = (*FileCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
