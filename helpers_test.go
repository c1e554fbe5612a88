package cache_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cache "github.com/krisalay/store-cache"
	"github.com/krisalay/store-cache/config"
	"github.com/krisalay/store-cache/engine"
	"github.com/krisalay/store-cache/keys"
	"github.com/krisalay/store-cache/metrics"
	"github.com/krisalay/store-cache/store"
	"github.com/krisalay/store-cache/types"
)

//
// ================= FAKE CLOCK =================
//

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

//
// ================= FAULTY STORE =================
//

var errDisk = stderrors.New("disk unavailable")

// faultyStore wraps a store and fails selected operations on demand.
type faultyStore struct {
	types.Store
	failGet    atomic.Bool
	failSet    atomic.Bool
	failRemove atomic.Bool
}

func (s *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet.Load() {
		return "", false, errDisk
	}
	return s.Store.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key, value string) error {
	if s.failSet.Load() {
		return errDisk
	}
	return s.Store.Set(ctx, key, value)
}

func (s *faultyStore) Remove(ctx context.Context, key string) error {
	if s.failRemove.Load() {
		return errDisk
	}
	return s.Store.Remove(ctx, key)
}

func (s *faultyStore) MultiRemove(ctx context.Context, keys []string) error {
	if s.failRemove.Load() {
		return errDisk
	}
	return s.Store.MultiRemove(ctx, keys)
}

//
// ================= HELPER: CREATE CACHE =================
//

type harness struct {
	cache    *cache.StoreCache
	mem      *store.Memory
	clock    *fakeClock
	counters *metrics.Counters
	cfg      config.Config
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.AppPrefix = "@test"
	return cfg
}

func newCacheOver(t *testing.T, s types.Store, cfg config.Config, clock *fakeClock, counters *metrics.Counters) *cache.StoreCache {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.FromConfig(cfg, clock, counters, logger)
	require.NoError(t, err)

	c, err := cache.NewStoreCache(s, cfg, eng)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	h := &harness{
		mem:      store.NewMemory(),
		clock:    newFakeClock(),
		counters: &metrics.Counters{},
		cfg:      cfg,
	}
	h.cache = newCacheOver(t, h.mem, cfg, h.clock, h.counters)
	return h
}

// registered reads the raw registry record straight from the store.
func (h *harness) registered(t *testing.T) []string {
	t.Helper()
	record, ok, err := h.mem.Get(context.Background(), h.storageKey(keys.ReservedNamespace, keys.RegistryKey))
	require.NoError(t, err)
	if !ok {
		return nil
	}
	var list []string
	require.NoError(t, json.Unmarshal([]byte(record), &list))
	return list
}

func (h *harness) storageKey(namespace, key string) string {
	return h.cfg.AppPrefix + keys.Delimiter + namespace + keys.Delimiter + key
}
