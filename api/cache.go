package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/krisalay/store-cache/types"
)

/*
Cache defines the PUBLIC API of the persistent cache.

Keys are scoped by namespace. Reads never fail: anything that prevents a value
from being returned (absent, expired, corrupt, store error) is a miss. Writes
and removals report store failures to the caller.
*/
type Cache interface {

	/*
		Get returns the serialized value stored under (namespace, key).

		BEHAVIOR:
		---------
		- Absent key                 -> miss
		- Expired entry              -> entry and registration deleted, miss
		- Corrupt entry              -> entry and registration deleted, miss
		- Store read error           -> logged, miss
	*/
	Get(ctx context.Context, namespace, key string) (json.RawMessage, bool)

	// Set stores value with no TTL. It lives until removed, cleared or evicted.
	Set(ctx context.Context, namespace, key string, value any) error

	/*
		SetWithTTL stores value for ttl. ttl == 0 means no TTL.

		After the write, the size budget is enforced: expired entries are swept
		first, then the oldest writes are evicted. Eviction never fails the write.
	*/
	SetWithTTL(ctx context.Context, namespace, key string, value any, ttl time.Duration) error

	// Remove deletes one entry. Removing an absent key is safe.
	Remove(ctx context.Context, namespace, key string) error

	// ClearNamespace deletes every registered entry in namespace.
	ClearNamespace(ctx context.Context, namespace string) error

	// ClearAll deletes every registered entry and the registry itself.
	ClearAll(ctx context.Context) error

	// ClearExpired deletes expired and corrupt entries and returns how many it deleted.
	ClearExpired(ctx context.Context) (int, error)

	/*
		TTL returns the remaining lifetime of a live entry.

		RETURN VALUES:
		--------------
		(d, true)         : live entry, d left before expiry
		(NoExpiry, true)  : live entry without TTL
		(0, false)        : absent, expired or unreadable
	*/
	TTL(ctx context.Context, namespace, key string) (time.Duration, bool)

	// Stats aggregates key counts and sizes, overall and per namespace.
	Stats(ctx context.Context) (types.Stats, error)

	// Reconcile repairs the registry against what the store actually holds.
	Reconcile(ctx context.Context) (types.ReconcileReport, error)

	// Close stops background work. It does not close the underlying store.
	Close()
}
