package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/jmgilman/go/errors"
	"golang.org/x/sync/singleflight"

	api "github.com/krisalay/store-cache/api"
	"github.com/krisalay/store-cache/config"
	"github.com/krisalay/store-cache/engine"
	"github.com/krisalay/store-cache/expiration"
	"github.com/krisalay/store-cache/keys"
	"github.com/krisalay/store-cache/registry"
	"github.com/krisalay/store-cache/types"
)

// ErrClosed is returned by writes issued after Close.
var ErrClosed = registry.ErrClosed

var _ api.Cache = (*StoreCache)(nil)

/*
StoreCache is the cache facade over a persistent, string-only key/value store.
This struct is the orchestrator that connects:
- the key encoder
- the entry codec and expiration (via the engine)
- the registry of written keys
- the size budget and eviction policy

StoreCache keeps no authoritative state in memory. Every operation re-reads what
it needs from the store, so several instances over one store stay usable, and a
restarted process picks up where the last one left off.
*/
type StoreCache struct {
	store    types.Store
	engine   *engine.CacheEngine
	enc      keys.Encoder
	registry *registry.Registry

	// maxBytes is the size budget; eviction shrinks the cache to target once it is exceeded.
	maxBytes int64
	target   int64

	// scanLimit bounds concurrent entry reads during full scans.
	scanLimit int

	// sf collapses concurrent Fetch loads of the same key.
	sf singleflight.Group

	closed atomic.Bool
}

// NewStoreCache wires a cache over store. cfg supplies the key prefix, budget and
// scan limits; eng supplies codec, expiry, eviction, clock, metrics and logger.
func NewStoreCache(store types.Store, cfg config.Config, eng *engine.CacheEngine) (*StoreCache, error) {
	if store == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "store is required")
	}
	if eng == nil || eng.Codec == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "engine with codec is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := keys.NewEncoder(cfg.AppPrefix)
	if err != nil {
		return nil, err
	}

	return &StoreCache{
		store:     store,
		engine:    eng,
		enc:       enc,
		registry:  registry.New(store, enc, eng.Logger),
		maxBytes:  cfg.MaxBytes,
		target:    evictionTarget(cfg),
		scanLimit: cfg.ScanConcurrency,
	}, nil
}

// Get retrieves a value from the cache.
func (c *StoreCache) Get(ctx context.Context, namespace, key string) (json.RawMessage, bool) {
	log := c.engine.Logger
	if c.closed.Load() || keys.Validate(namespace, key) != nil {
		c.engine.Metrics.Miss()
		return nil, false
	}
	sk := c.enc.Encode(namespace, key)

	ent, state, err := c.read(ctx, sk)
	switch state {
	case stateUnreadable:
		log.Warn("Cache read failed, treating as miss", "key", sk, "error", err)
		c.engine.Metrics.Miss()
		return nil, false
	case stateMissing:
		log.Debug("Cache miss", "key", sk)
		c.engine.Metrics.Miss()
		return nil, false
	case stateCorrupt:
		log.Warn("Cache entry is corrupt, removing", "key", sk, "error", err)
		c.engine.Metrics.Corruption()
		c.discard(ctx, sk)
		c.engine.Metrics.Miss()
		return nil, false
	}

	// Check if entry is expired
	if c.engine.IsExpired(ent) {
		log.Debug("Cache entry expired", "key", sk, "expired_at", ent.ExpiresAt)
		c.engine.Metrics.Expire()
		c.discard(ctx, sk)
		c.engine.Metrics.Miss()
		return nil, false
	}

	data, err := c.engine.Codec.Decode(ent)
	if err != nil {
		log.Warn("Cache entry cannot be decoded, removing", "key", sk, "error", err)
		c.engine.Metrics.Corruption()
		c.discard(ctx, sk)
		c.engine.Metrics.Miss()
		return nil, false
	}

	// Cache hit
	c.engine.Metrics.Hit()
	log.Debug("Cache hit", "key", sk, "written_at", ent.WrittenAt)
	return data, true
}

// Set stores a value without a TTL.
func (c *StoreCache) Set(ctx context.Context, namespace, key string, value any) error {
	return c.SetWithTTL(ctx, namespace, key, value, 0)
}

// SetWithTTL stores a value that expires ttl from now.
func (c *StoreCache) SetWithTTL(ctx context.Context, namespace, key string, value any, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := keys.Validate(namespace, key); err != nil {
		return err
	}
	if ttl < 0 {
		return errors.Newf(errors.CodeInvalidInput, "ttl must not be negative, got %s", ttl)
	}

	ent, err := c.engine.Codec.Encode(value, ttl, c.engine.Now())
	if err != nil {
		return errors.WithContextMap(err, map[string]interface{}{"namespace": namespace, "key": key})
	}
	record, err := c.engine.Codec.Marshal(ent)
	if err != nil {
		return err
	}

	sk := c.enc.Encode(namespace, key)
	if err := c.store.Set(ctx, sk, record); err != nil {
		return errors.WithContext(errors.Wrap(err, errors.CodeDatabase, "write cache entry"), "storage_key", sk)
	}
	if err := c.registry.Register(ctx, sk); err != nil {
		return err
	}

	c.engine.Logger.Debug("Cache write", "key", sk, "size", ent.Size, "compressed", ent.Compressed, "ttl", ttl)
	c.enforceBudget(ctx)
	return nil
}

// Remove deletes one entry and its registration.
func (c *StoreCache) Remove(ctx context.Context, namespace, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := keys.Validate(namespace, key); err != nil {
		return err
	}
	sk := c.enc.Encode(namespace, key)

	if err := c.store.Remove(ctx, sk); err != nil {
		return errors.WithContext(errors.Wrap(err, errors.CodeDatabase, "remove cache entry"), "storage_key", sk)
	}
	return c.registry.Unregister(ctx, sk)
}

/*
ClearNamespace deletes every registered entry of namespace with one bulk delete,
then drops those keys from the registry in a single update.
*/
func (c *StoreCache) ClearNamespace(ctx context.Context, namespace string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := keys.ValidateNamespace(namespace); err != nil {
		return err
	}

	doomed, err := c.registry.ListByNamespace(ctx, namespace)
	if err != nil {
		return err
	}
	if len(doomed) == 0 {
		return nil
	}
	if err := c.store.MultiRemove(ctx, doomed); err != nil {
		return errors.WithContextMap(
			errors.Wrap(err, errors.CodeDatabase, "clear namespace"),
			map[string]interface{}{"namespace": namespace, "keys": len(doomed)},
		)
	}
	if err := c.registry.Unregister(ctx, doomed...); err != nil {
		return err
	}

	c.engine.Logger.Info("Cleared cache namespace", "namespace", namespace, "keys", len(doomed))
	return nil
}

// ClearAll deletes every registered entry and the registry record.
func (c *StoreCache) ClearAll(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	removed, err := c.registry.Reset(ctx)
	if err != nil {
		return err
	}
	c.engine.Logger.Info("Cleared cache", "keys", len(removed))
	return nil
}

// ClearExpired sweeps every registered entry and returns how many were deleted.
func (c *StoreCache) ClearExpired(ctx context.Context) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	all, err := c.registry.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	deleted, _, err := c.sweep(ctx, c.scan(ctx, all))
	return deleted, err
}

// TTL returns the remaining lifetime of a live entry. It never deletes anything.
func (c *StoreCache) TTL(ctx context.Context, namespace, key string) (time.Duration, bool) {
	if c.closed.Load() || keys.Validate(namespace, key) != nil {
		return 0, false
	}
	ent, state, _ := c.read(ctx, c.enc.Encode(namespace, key))
	if state != stateLive || c.engine.IsExpired(ent) {
		return 0, false
	}
	d, ok := expiration.Remaining(ent, c.engine.Now())
	if !ok {
		return NoExpiry, true
	}
	return d, true
}

/*
Close gracefully shuts down the cache.
The registry worker is stopped; later writes fail with ErrClosed and later reads miss.
The store is left open for its owner to close.
*/
func (c *StoreCache) Close() {
	c.closed.Store(true)
	c.registry.Close()
}

// discard removes an entry that turned out to be expired or unusable. Failures are
// logged and swallowed; the caller already treats the entry as absent.
func (c *StoreCache) discard(ctx context.Context, sk string) {
	if err := c.store.Remove(ctx, sk); err != nil {
		c.engine.Logger.Warn("Failed to remove stale cache entry", "key", sk, "error", err)
		return
	}
	if err := c.registry.Unregister(ctx, sk); err != nil {
		c.engine.Logger.Warn("Failed to unregister stale cache entry", "key", sk, "error", err)
	}
}
