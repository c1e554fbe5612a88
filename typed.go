package cache

import (
	"context"
	"encoding/json"
	"time"

	api "github.com/krisalay/store-cache/api"
)

// GetAs reads (namespace, key) and decodes it into T. A value that does not
// decode into T is reported as a miss; the entry itself is left in place.
func GetAs[T any](ctx context.Context, c api.Cache, namespace, key string) (T, bool) {
	var v T
	raw, ok := c.Get(ctx, namespace, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

/*
Fetch returns the cached value of (namespace, key), or calls load on a miss and
caches its result for ttl.

singleflight ensures that if many goroutines miss the same key at once, only
one of them runs load; the others wait for its result. A failed cache write is
logged and the loaded value is still returned.
*/
func Fetch[T any](
	ctx context.Context,
	c *StoreCache,
	namespace, key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if v, ok := GetAs[T](ctx, c, namespace, key); ok {
		return v, nil
	}

	val, err, _ := c.sf.Do(c.enc.Encode(namespace, key), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.SetWithTTL(ctx, namespace, key, v, ttl); err != nil {
			c.engine.Logger.Warn("Failed to cache loaded value", "namespace", namespace, "key", key, "error", err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	// val is nil when T is an interface type and load returned nil.
	v, _ := val.(T)
	return v, nil
}
