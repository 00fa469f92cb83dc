// Package cache stores rendered artifacts keyed by content hash.
//
// Rendering a snapshot through Graphviz is the only expensive step of the
// view pipeline, and identical view states produce identical DOT sources.
// The CLI and the HTTP server therefore cache rendered SVG and PNG output
// under a key derived from the DOT hash.
//
// Three backends are provided:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//
// Keys are produced by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/provgraph/pkg/observability"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Fetch returns the cached value for key, or calls fill, stores its result
// and returns it. keyType labels the cache hooks. Read and write failures of
// the cache itself are ignored so a broken backend degrades to no caching.
func Fetch(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, fill func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := fill()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}
