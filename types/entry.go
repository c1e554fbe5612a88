package types

import (
	"encoding/json"
	"time"
)

// CacheEntry is the record persisted for every cached value.
//
// Size is the byte length of the uncompressed serialized value. It is computed once
// at write time and only ever used as an eviction heuristic.
type CacheEntry struct {
	// Data holds the serialized value, or a JSON string carrying the compressed
	// payload when Compressed is set.
	Data       json.RawMessage `json:"data"`
	WrittenAt  time.Time       `json:"timestamp"`
	ExpiresAt  time.Time       `json:"expiresAt,omitzero"` // zero => no TTL
	Size       int64           `json:"size"`
	Compressed bool            `json:"compressed"`
}

// HasExpiry reports whether the entry was written with a TTL.
func (e *CacheEntry) HasExpiry() bool {
	return !e.ExpiresAt.IsZero()
}
