package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(cv *prometheus.CounterVec, group string) float64 {
	c, err := cv.GetMetricWithLabelValues(group)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func useIsolatedRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	orig := entriesReg
	entriesReg = reg
	t.Cleanup(func() { entriesReg = orig })
	return reg
}

func gatherEntries(reg *prometheus.Registry, group string) float64 {
	mfs, _ := reg.Gather()
	for _, mf := range mfs {
		if mf.GetName() != "nowplaying_cache_entries" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "cache" && lp.GetValue() == group {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return -1
}

func TestInstrumentedCache_HitsAndMisses(t *testing.T) {
	ctx := context.Background()
	c := newMemoryTestCache(t, ProviderConfig{Group: "test-hits"})

	hits := counterValue(HitsTotal, "test-hits")
	misses := counterValue(MissesTotal, "test-hits")

	c.Set(ctx, "k", []byte("v"))
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "absent")
	_, _ = c.Get(ctx, "absent")

	if got := counterValue(HitsTotal, "test-hits") - hits; got != 1 {
		t.Errorf("hits diff = %.0f, want 1", got)
	}
	if got := counterValue(MissesTotal, "test-hits") - misses; got != 2 {
		t.Errorf("misses diff = %.0f, want 2", got)
	}
}

func TestInstrumentedCache_MissesThroughCodec(t *testing.T) {
	ctx := context.Background()
	c := newMemoryTestCache(t, ProviderConfig{Group: "test-codec", Compression: "zstd"})
	before := counterValue(MissesTotal, "test-codec")

	_, _ = c.Get(ctx, "never-set")

	if got := counterValue(MissesTotal, "test-codec") - before; got != 1 {
		t.Errorf("misses diff = %.0f, want 1", got)
	}
}

func TestInstrumentedCache_Evictions(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c := newMemoryTestCache(t, ProviderConfig{
		Size:    2,
		Group:   "test-evict",
		OnEvict: func(key string, _ []byte) { evicted = append(evicted, key) },
	})
	before := counterValue(EvictionsTotal, "test-evict")

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	if got := counterValue(EvictionsTotal, "test-evict") - before; got != 1 {
		t.Errorf("evictions diff = %.0f, want 1", got)
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("Expected caller OnEvict to fire for 'a', got %v", evicted)
	}
}

func TestInstrumentedCache_EntriesLazy(t *testing.T) {
	ctx := context.Background()
	reg := useIsolatedRegistry(t)
	c := newMemoryTestCache(t, ProviderConfig{Group: "test-entries"})

	if v := gatherEntries(reg, "test-entries"); v != 0 {
		t.Fatalf("Expected 0 entries before Set, got %.0f", v)
	}

	c.Set(ctx, "x", []byte("1"))
	c.Set(ctx, "y", []byte("2"))

	if v := gatherEntries(reg, "test-entries"); v != 2 {
		t.Errorf("Expected 2 entries after two Sets, got %.0f", v)
	}
}

func TestInstrumentedCache_Close_UnregistersEntries(t *testing.T) {
	reg := useIsolatedRegistry(t)

	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour, Group: "test-close"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v := gatherEntries(reg, "test-close"); v != 0 {
		t.Fatalf("Expected registered collector reporting 0, got %.0f", v)
	}

	_ = c.Close()

	collectorsMu.Lock()
	_, registered := collectors["test-close"]
	collectorsMu.Unlock()
	if registered {
		t.Fatal("Expected entries collector to be unregistered after Close()")
	}
	if v := gatherEntries(reg, "test-close"); v != -1 {
		t.Errorf("Expected no cache_entries sample after Close, got %.0f", v)
	}
}
