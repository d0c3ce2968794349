// Package cache provides byte-level caches with per-entry TTL.
//
// The web-status catalog is the only thing baseline caches across calls. The
// metadata client keeps its decoded snapshot in process; a [Cache] is the
// tier underneath it, consulted before the network and refreshed after a
// successful fetch. Backends:
//
//   - [MemoryCache]: in-process map, gone on restart (default)
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per key under a directory
//   - [BoltCache]: a single bbolt database file
//   - [RedisCache]: shared between API instances
//   - [MongoCache]: shared, for deployments that already run MongoDB
//
// Keys are built by a [Keyer] so that scoped deployments can prefix them.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached values.
const (
	// TTLCatalog is how long a fetched feature catalog stays fresh.
	TTLCatalog = 30 * time.Minute
)

// Cache stores opaque values with an expiry.
//
// Get returns (nil, false, nil) on a miss, including for expired entries.
// A ttl of 0 passed to Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey generates a key for a cached HTTP response body.
	HTTPKey(namespace, key string) string
	// CatalogKey generates the key for the full catalog served at endpoint.
	CatalogKey(endpoint string) string
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// CatalogKey hashes the endpoint so that different providers never share
// an entry.
func (DefaultKeyer) CatalogKey(endpoint string) string {
	return hashKey("catalog", endpoint)
}
