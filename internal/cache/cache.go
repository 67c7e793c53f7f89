// Package cache provides the key-value caches placed in front of slow external lookups.
// Providers register themselves by name; "memory" is an in-process LRU and "redis"
// shares entries between instances through Redis or Valkey.
package cache

import "context"

// EvictCallback is called when an entry is removed from the cache.
// The value is nil for providers that evict server side.
type EvictCallback func(key string, value []byte)

// Cache is a size bounded key-value cache with per-entry expiry
type Cache interface {
	// Get returns the value stored under key and whether it was found
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte)

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string)

	// Len returns the number of live entries
	Len() int

	// Close releases connections held by the cache
	Close() error
}
