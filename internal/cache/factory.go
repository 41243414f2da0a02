package cache

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// ProviderConfig holds everything a provider needs to build a cache.
type ProviderConfig struct {
	// Size is the maximum number of entries.
	Size int

	// TTL is how long an entry lives after its last access.
	TTL time.Duration

	// OnEvict is called for capacity evictions.
	OnEvict EvictCallback

	// Logger receives backend errors. Nil discards them.
	Logger Logger

	// Compression names the value codec: "none", "zstd" or "brotli".
	Compression string

	// KeyPrefix namespaces keys in shared backends. Defaults to "npcache:".
	KeyPrefix string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// Group labels the cache_* metrics. An empty Group disables instrumentation.
	Group string
}

// Provider builds a Cache from config.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register adds a backend under name. Backends register from init, so a nil
// provider or a reused name panics.
func Register(name string, p Provider) {
	if p == nil {
		panic("cache: nil provider for " + name)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := providers[name]; dup {
		panic(fmt.Sprintf("cache: %q registered twice", name))
	}
	providers[name] = p
}

// New builds a cache with the named provider. The result is layered as
// instrumentation over compression over the backend, so hit and miss counts
// reflect what callers observe after decoding.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	build, found := providers[name]
	mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("cache: no backend named %q, have %v", name, RegisteredProviders())
	}

	codec, err := NewCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}

	if cfg.Group != "" {
		group := cfg.Group
		original := cfg.OnEvict
		cfg.OnEvict = func(key string, value []byte) {
			EvictionsTotal.WithLabelValues(group).Inc()
			if original != nil {
				original(key, value)
			}
		}
	}

	c, err := build(cfg)
	if err != nil {
		return nil, fmt.Errorf("cache: building %s backend: %w", name, err)
	}
	if codec != nil {
		c = newCodecCache(c, codec, cfg.Logger)
	}
	if cfg.Group != "" {
		c = newInstrumentedCache(c, cfg.Group)
	}
	return c, nil
}

// RegisteredProviders lists backend names in sorted order.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(providers))
}
