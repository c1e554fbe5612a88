package engine

import (
	"log/slog"
	"time"

	"github.com/krisalay/store-cache/codec"
	"github.com/krisalay/store-cache/config"
	"github.com/krisalay/store-cache/eviction"
	"github.com/krisalay/store-cache/expiration"
	"github.com/krisalay/store-cache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.

It decides:
- How values become stored records and back (Codec)
- When a record is expired (Expiration)
- Which entries go first when the cache is over budget (Eviction)
- What time it is (Clock)
- Where events are reported (Metrics, Logger)

It does NOT:
- Talk to the store
- Track keys
*/
type CacheEngine struct {
	Codec      *codec.Codec
	Expiration expiration.Strategy
	Eviction   eviction.Policy
	Clock      types.Clock
	Metrics    types.Metrics
	Logger     *slog.Logger
}

/*
NewCacheEngine creates a CacheEngine.
Nil collaborators are replaced with defaults: absolute expiry, FIFO eviction,
the system clock, NoopMetrics and slog.Default(). The codec is required.
*/
func NewCacheEngine(
	c *codec.Codec,
	exp expiration.Strategy,
	ev eviction.Policy,
	clock types.Clock,
	metrics types.Metrics,
	logger *slog.Logger,
) *CacheEngine {
	if exp == nil {
		exp = expiration.Absolute{}
	}
	if ev == nil {
		ev = eviction.NewEvictionPolicy(eviction.FIFO)
	}
	if clock == nil {
		clock = types.SystemClock{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CacheEngine{
		Codec:      c,
		Expiration: exp,
		Eviction:   ev,
		Clock:      clock,
		Metrics:    metrics,
		Logger:     logger,
	}
}

// FromConfig builds the codec and eviction policy described by cfg.
func FromConfig(cfg config.Config, clock types.Clock, metrics types.Metrics, logger *slog.Logger) (*CacheEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comp, err := codec.NewCompressor(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return NewCacheEngine(
		codec.New(cfg.CompressionThreshold, comp),
		expiration.Absolute{},
		eviction.NewEvictionPolicy(eviction.PolicyType(cfg.EvictionPolicy)),
		clock,
		metrics,
		logger,
	), nil
}

// Now is the current time according to the engine's clock.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

// IsExpired checks whether ent is expired right now.
func (e *CacheEngine) IsExpired(ent *types.CacheEntry) bool {
	return e.Expiration.IsExpired(ent, e.Now())
}
