// Package config loads cache settings from the environment.
package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/jmgilman/go/errors"

	"github.com/krisalay/store-cache/codec"
	"github.com/krisalay/store-cache/eviction"
	"github.com/krisalay/store-cache/keys"
	"github.com/krisalay/store-cache/store"
)

// Config controls size budget, compression and the backing store.
type Config struct {
	// AppPrefix is the first segment of every storage key.
	AppPrefix string `env:"CACHE_APP_PREFIX" envDefault:"@bizcache"`

	// MaxBytes is the size budget. Eviction starts once the summed entry size exceeds it.
	MaxBytes int64 `env:"CACHE_MAX_BYTES" envDefault:"10485760"`

	// TargetFraction of MaxBytes is what eviction shrinks the cache down to.
	TargetFraction float64 `env:"CACHE_EVICTION_TARGET" envDefault:"0.8"`

	// CompressionThreshold is the serialized size, in bytes, above which payloads are compressed.
	CompressionThreshold int `env:"CACHE_COMPRESSION_THRESHOLD" envDefault:"1024"`

	Compression    string `env:"CACHE_COMPRESSION" envDefault:"zstd"`
	EvictionPolicy string `env:"CACHE_EVICTION_POLICY" envDefault:"FIFO"`

	StoreDriver string `env:"CACHE_STORE" envDefault:"memory"`
	StorePath   string `env:"CACHE_STORE_PATH"`

	// ScanConcurrency bounds parallel entry reads during stats, sweeps and eviction.
	ScanConcurrency int `env:"CACHE_SCAN_CONCURRENCY" envDefault:"8"`
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	var cfg Config
	// Defaults only; an empty environment cannot fail to parse.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.CodeInvalidConfig, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	invalid := func(field string, value any, why string) error {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "%s: %s", field, why),
			"value", value,
		)
	}

	if _, err := keys.NewEncoder(c.AppPrefix); err != nil {
		return invalid("AppPrefix", c.AppPrefix, "must be non-empty and must not contain "+keys.Delimiter)
	}
	if c.MaxBytes <= 0 {
		return invalid("MaxBytes", c.MaxBytes, "must be positive")
	}
	if c.TargetFraction <= 0 || c.TargetFraction > 1 {
		return invalid("TargetFraction", c.TargetFraction, "must be in (0, 1]")
	}
	if c.CompressionThreshold < 0 {
		return invalid("CompressionThreshold", c.CompressionThreshold, "must not be negative")
	}
	switch c.Compression {
	case codec.Zstd, codec.S2, codec.None:
	default:
		return invalid("Compression", c.Compression, "must be one of zstd, s2, none")
	}
	if !eviction.PolicyType(c.EvictionPolicy).Valid() {
		return invalid("EvictionPolicy", c.EvictionPolicy, "unknown policy")
	}
	switch c.StoreDriver {
	case store.DriverMemory:
	case store.DriverSQLite, store.DriverFS:
		if strings.TrimSpace(c.StorePath) == "" {
			return invalid("StorePath", c.StorePath, "is required for the "+c.StoreDriver+" store")
		}
	default:
		return invalid("StoreDriver", c.StoreDriver, "must be one of memory, sqlite, fs")
	}
	if c.ScanConcurrency <= 0 {
		return invalid("ScanConcurrency", c.ScanConcurrency, "must be positive")
	}
	return nil
}
