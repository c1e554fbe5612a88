package config_test

import (
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/store-cache/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "@bizcache", cfg.AppPrefix)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBytes)
	assert.InDelta(t, 0.8, cfg.TargetFraction, 1e-9)
	assert.Equal(t, 1024, cfg.CompressionThreshold)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, "FIFO", cfg.EvictionPolicy)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 8, cfg.ScanConcurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CACHE_APP_PREFIX", "@gestao")
	t.Setenv("CACHE_MAX_BYTES", "2048")
	t.Setenv("CACHE_COMPRESSION", "s2")
	t.Setenv("CACHE_STORE", "sqlite")
	t.Setenv("CACHE_STORE_PATH", "/tmp/cache.db")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "@gestao", cfg.AppPrefix)
	assert.Equal(t, int64(2048), cfg.MaxBytes)
	assert.Equal(t, "s2", cfg.Compression)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/cache.db", cfg.StorePath)
}

func TestLoadRejectsUnparsableEnv(t *testing.T) {
	t.Setenv("CACHE_MAX_BYTES", "lots")

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"prefix with delimiter", func(c *config.Config) { c.AppPrefix = "a:b" }},
		{"empty prefix", func(c *config.Config) { c.AppPrefix = "" }},
		{"zero budget", func(c *config.Config) { c.MaxBytes = 0 }},
		{"target above one", func(c *config.Config) { c.TargetFraction = 1.5 }},
		{"target zero", func(c *config.Config) { c.TargetFraction = 0 }},
		{"negative threshold", func(c *config.Config) { c.CompressionThreshold = -1 }},
		{"unknown compression", func(c *config.Config) { c.Compression = "lz4" }},
		{"unknown policy", func(c *config.Config) { c.EvictionPolicy = "LRU" }},
		{"unknown driver", func(c *config.Config) { c.StoreDriver = "redis" }},
		{"sqlite without path", func(c *config.Config) { c.StoreDriver = "sqlite" }},
		{"fs without path", func(c *config.Config) { c.StoreDriver = "fs" }},
		{"zero concurrency", func(c *config.Config) { c.ScanConcurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
		})
	}
}
