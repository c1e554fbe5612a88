package store_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/store-cache/store"
)

func backends(t *testing.T) map[string]store.Backend {
	t.Helper()

	sqlite, err := store.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	fs, err := store.NewFilesystem(memfs.New())
	require.NoError(t, err)

	disk, err := store.NewFilesystem(osfs.New(t.TempDir()))
	require.NoError(t, err)

	return map[string]store.Backend{
		"memory": store.NewMemory(),
		"sqlite": sqlite,
		"fs":     fs,
		"osfs":   disk,
	}
}

func TestBackendContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, "@app:ns:missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "@app:ns:a", `{"v":1}`))
			require.NoError(t, s.Set(ctx, "@app:ns:a", `{"v":2}`))
			v, ok, err := s.Get(ctx, "@app:ns:a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"v":2}`, v)

			require.NoError(t, s.Set(ctx, "@app:ns:b", "b"))
			require.NoError(t, s.Set(ctx, "@app:other:c", "c"))
			require.NoError(t, s.Set(ctx, "@else:ns:d", "d"))

			got, err := s.Keys(ctx, "@app:ns:")
			require.NoError(t, err)
			assert.Equal(t, []string{"@app:ns:a", "@app:ns:b"}, got)

			require.NoError(t, s.Remove(ctx, "@app:ns:a"))
			require.NoError(t, s.Remove(ctx, "@app:ns:a"), "removing a missing key is not an error")
			_, ok, err = s.Get(ctx, "@app:ns:a")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.MultiRemove(ctx, []string{"@app:ns:b", "@app:other:c", "@app:never"}))
			got, err = s.Keys(ctx, "@app:")
			require.NoError(t, err)
			assert.Empty(t, got)

			got, err = s.Keys(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"@else:ns:d"}, got)
		})
	}
}

func TestBackendConcurrentWrites(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, s.Set(ctx, "k"+string(rune('a'+i)), "v"))
				}(i)
			}
			wg.Wait()

			got, err := s.Keys(ctx, "k")
			require.NoError(t, err)
			assert.Len(t, got, 20)
		})
	}
}

func TestBackendLongKeys(t *testing.T) {
	long := "@bizcache:relatorios:relatorio_" + strings.Repeat("x", 250)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, long, "v"))
			got, ok, err := s.Get(ctx, long)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "v", got)

			keys, err := s.Keys(ctx, "@bizcache:relatorios:")
			require.NoError(t, err)
			assert.Equal(t, []string{long}, keys)

			require.NoError(t, s.Remove(ctx, long))
			_, ok, err = s.Get(ctx, long)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFilesystemValueWithNewlines(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewFilesystem(memfs.New())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "@app:ns:k", "line one\nline two\n"))
	got, ok, err := s.Get(ctx, "@app:ns:k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "line one\nline two\n", got)

	keys, err := s.Keys(ctx, "@app:")
	require.NoError(t, err)
	assert.Equal(t, []string{"@app:ns:k"}, keys)
}

func TestOpen(t *testing.T) {
	mem, err := store.Open(store.DriverMemory, "")
	require.NoError(t, err)
	require.NoError(t, mem.Close())

	sqlite, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Close())

	fs, err := store.Open(store.DriverFS, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	_, err = store.Open(store.DriverSQLite, "")
	assert.Error(t, err)
	_, err = store.Open(store.DriverFS, "")
	assert.Error(t, err)
	_, err = store.Open("redis", "")
	assert.Error(t, err)
}
