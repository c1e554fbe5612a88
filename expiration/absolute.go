package expiration

import (
	"time"

	"github.com/krisalay/store-cache/types"
)

/*
Absolute expires an entry at the expiresAt stamped when it was written.
Reads never extend it. Entries without expiresAt live until removed or evicted.
*/
type Absolute struct{}

// IsExpired reports whether now is past ent.ExpiresAt.
func (Absolute) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.HasExpiry() && now.After(ent.ExpiresAt)
}

// Remaining returns how long ent stays valid after now, clamped at zero.
// ok is false when ent never expires.
func Remaining(ent *types.CacheEntry, now time.Time) (d time.Duration, ok bool) {
	if !ent.HasExpiry() {
		return 0, false
	}
	d = ent.ExpiresAt.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}
