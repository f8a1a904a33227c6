// Package cache stores rendered artifacts keyed by network content.
//
// Rendering through Graphviz dominates the cost of the render command and
// the HTTP server, while the same node list is often rendered repeatedly.
// Entries are keyed by the hash of the node list plus the render options, so
// a changed file or option never hits a stale entry.
//
// Three backends are provided:
//   - [FileCache]: per-user directory cache for the CLI
//   - [RedisCache]: shared cache for the HTTP server and CI runners
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the lifetime of rendered artifacts.
const DefaultTTL = 7 * 24 * time.Hour
