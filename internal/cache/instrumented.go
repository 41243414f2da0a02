package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// instrumentedCache counts lookups for one group. The counters are bound to
// the group label once, and the entry gauge is read from the wrapped cache at
// scrape time.
type instrumentedCache struct {
	Cache
	group  string
	hits   prometheus.Counter
	misses prometheus.Counter
}

func newInstrumentedCache(wrapped Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, wrapped.Len)
	return &instrumentedCache{
		Cache:  wrapped,
		group:  group,
		hits:   HitsTotal.WithLabelValues(group),
		misses: MissesTotal.WithLabelValues(group),
	}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, found := c.Cache.Get(ctx, key)
	counter := c.misses
	if found {
		counter = c.hits
	}
	counter.Inc()
	return val, found
}

// Close drops the group's entry gauge, then closes the wrapped cache.
func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.Cache.Close()
}
