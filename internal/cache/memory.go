package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache is the in-process backend: a size-bounded LRU whose entries
// expire TTL after they were added. Context is ignored since nothing blocks.
type memoryCache struct {
	lru *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var evicted lru.EvictCallback[string, []byte]
	if cfg.OnEvict != nil {
		evicted = lru.EvictCallback[string, []byte](cfg.OnEvict)
	}
	return memoryCache{lru: lru.NewLRU(cfg.Size, evicted, cfg.TTL)}, nil
}

func (m memoryCache) Get(_ context.Context, key string) ([]byte, bool) { return m.lru.Get(key) }

func (m memoryCache) Set(_ context.Context, key string, value []byte) { m.lru.Add(key, value) }

func (m memoryCache) Contains(_ context.Context, key string) bool { return m.lru.Contains(key) }

func (m memoryCache) Len() int { return m.lru.Len() }

// Close leaves entries in place so closing does not count as evictions.
func (m memoryCache) Close() error { return nil }
