// Package cache stores computed stack orders and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys. Keys are derived
// from a content hash of the network plus the options that affect the output,
// so a changed network or option never hits a stale entry.
//
// Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (HTTP server deployments)
//   - [NullCache]: stores nothing (--no-cache)
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cache entries.
const (
	// TTLResult is the lifetime of a cached stack order.
	TTLResult = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of a rendered DOT or SVG document.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key-value store with optional expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// OrderKeyOpts are the options that change a stack order.
type OrderKeyOpts struct {
	Roots    []int  `json:"roots"`
	Builder  string `json:"builder"`
	MaxDepth int    `json:"max_depth"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Roots    []int  `json:"roots"`
	Detailed bool   `json:"detailed"`
	Clusters bool   `json:"clusters"`
}

// Keyer derives cache keys.
type Keyer interface {
	// OrderKey returns the key of a stack order for the network with the
	// given content hash.
	OrderKey(networkHash string, opts OrderKeyOpts) string

	// ArtifactKey returns the key of a rendered network.
	ArtifactKey(networkHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OrderKey implements Keyer.
func (DefaultKeyer) OrderKey(networkHash string, opts OrderKeyOpts) string {
	return hashKey("order", networkHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", networkHash, opts)
}
