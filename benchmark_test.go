package cache_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	cache "github.com/krisalay/store-cache"
	"github.com/krisalay/store-cache/engine"
	"github.com/krisalay/store-cache/metrics"
	"github.com/krisalay/store-cache/store"
	"github.com/krisalay/store-cache/types"
)

func newBenchmarkCache(b *testing.B) *cache.StoreCache {
	b.Helper()

	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.FromConfig(cfg, types.SystemClock{}, &metrics.Counters{}, logger)
	if err != nil {
		b.Fatal(err)
	}
	c, err := cache.NewStoreCache(store.NewMemory(), cfg, eng)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(c.Close)
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkCacheGetHit(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	_ = c.Set(ctx, cache.NamespaceProducts, "key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, cache.NamespaceProducts, "key")
	}
}

func BenchmarkCacheGetMiss(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, cache.NamespaceProducts, fmt.Sprintf("miss-%d", i))
	}
}

func BenchmarkCacheGetCompressed(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	_ = c.Set(ctx, cache.NamespaceReports, "big", strings.Repeat("linha do relatorio; ", 500))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, cache.NamespaceReports, "big")
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkCacheParallelGet(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	for i := 0; i < 100; i++ {
		_ = c.Set(ctx, cache.NamespaceProducts, fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get(ctx, cache.NamespaceProducts, "key-42")
		}
	})
}

//
// ================= WRITE BENCH =================
//

// Every write re-checks the budget over all registered keys, so the key set is bounded.
func BenchmarkCacheSet(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Set(ctx, cache.NamespaceInventory, fmt.Sprintf("key-%d", i%100), i)
	}
}

func BenchmarkCacheParallelSet(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = c.Set(ctx, cache.NamespaceInventory, fmt.Sprintf("key-%d", i%100), i)
			i++
		}
	})
}
