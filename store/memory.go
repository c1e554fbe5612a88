package store

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

/*
Memory is an in-process Store. It keeps nothing across restarts and is meant for
tests and for running the cache without a persistent backend.

It uses copy-on-write:
- Readers always see an immutable snapshot and never lock
- Writers copy the map under writeMu and swap the new map in atomically
*/
type Memory struct {
	data    atomic.Value // stores map[string]string
	writeMu sync.Mutex
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	s := &Memory{}
	s.data.Store(map[string]string{})
	return s
}

func (s *Memory) snapshot() map[string]string {
	return s.data.Load().(map[string]string)
}

// Get retrieves a value from the store.
func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.snapshot()[key]
	return v, ok, nil
}

// Set inserts or replaces a value. This is where copy-on-write happens.
func (s *Memory) Set(_ context.Context, key, value string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n := maps.Clone(s.snapshot())
	n[key] = value
	s.data.Store(n)
	return nil
}

// Remove deletes key. Just like Set, this uses copy-on-write.
func (s *Memory) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, []string{key})
}

// MultiRemove deletes every key in keys with a single swap.
func (s *Memory) MultiRemove(_ context.Context, keys []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n := maps.Clone(s.snapshot())
	for _, k := range keys {
		delete(n, k)
	}
	s.data.Store(n)
	return nil
}

// Keys lists every stored key starting with prefix, sorted.
func (s *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for k := range s.snapshot() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Len returns how many keys are stored.
func (s *Memory) Len() int {
	return len(s.snapshot())
}

// Close is a no-op.
func (s *Memory) Close() error { return nil }
