// Package cache stores parsed subtitle tracks between sessions so a file that
// was already normalized and language-detected is not processed again.
package cache

import "context"

// EvictCallback is called when an entry is evicted from the cache.
// The Redis provider passes a nil value because evicted values are not read back.
type EvictCallback func(key string, value []byte)

// Logger receives errors from cache backends that cannot surface them through
// the Cache interface (a failing Set is not fatal to a subtitle load).
type Logger interface {
	Error(msg string, err error)
}

// Cache is a byte-oriented key-value store with LRU and TTL semantics.
// A miss and a backend failure look the same to callers: the value is recomputed.
type Cache interface {
	// Get returns the value stored under key and refreshes its recency.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, evicting the least recently used entries past capacity.
	Set(ctx context.Context, key string, value []byte)

	// Contains reports whether key is present without touching its recency.
	Contains(ctx context.Context, key string) bool

	// Len returns the number of live entries. It is read at metrics scrape time.
	Len() int

	// Close releases backend resources.
	Close() error
}
