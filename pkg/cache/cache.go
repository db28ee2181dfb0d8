// Package cache stores computed layouts, timelines and frames by content key.
//
// Every stage of the slide pipeline is a pure function of its inputs, so
// results can be cached under a hash of those inputs and never need
// invalidation; TTLs only bound storage. Three backends implement [Cache]:
//
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] keeps entries under a local directory (CLI default)
//   - [RedisCache] shares entries between API replicas
//
// A [Keyer] derives keys from content hashes and the options that affect a
// result:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(graphJSON), cache.LayoutKeyOpts{Width: 1920, Height: 1080})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use cached layout
//	}
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLTimeline = 24 * time.Hour
	TTLFrame    = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A zero TTL never expires.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
