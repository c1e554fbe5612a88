// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/store-cache/types"
)

/*
Strategy decides whether a stored entry is still valid at a given instant.
The cache asks it on every read and during every sweep; the strategy itself
has no clock and no side effects.
*/
type Strategy interface {
	IsExpired(ent *types.CacheEntry, now time.Time) bool
}
