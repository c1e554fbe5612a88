// Package codec turns values into persisted cache records and back.
package codec

import (
	"encoding/json"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/krisalay/store-cache/types"
)

// ErrDecode marks any stored record that cannot be turned back into a value.
// The cache treats it exactly like a missing entry.
var ErrDecode = errors.New(errors.CodeSchemaFailed, "cache entry cannot be decoded")

// Codec serializes values into CacheEntry records, compressing large payloads.
type Codec struct {
	threshold  int64
	compressor Compressor
}

// New returns a Codec that compresses serialized values longer than threshold
// bytes. A nil compressor disables compression.
func New(threshold int, compressor Compressor) *Codec {
	return &Codec{threshold: int64(threshold), compressor: compressor}
}

// Compressor returns the configured compressor, or nil.
func (c *Codec) Compressor() Compressor { return c.compressor }

/*
Encode builds the entry for value written at now.

ttl <= 0 means the entry never expires. Size is always the length of the
uncompressed serialization, even when the payload ends up compressed.
Expiry is not checked here.
*/
func (c *Codec) Encode(value any, ttl time.Duration, now time.Time) (*types.CacheEntry, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "value is not serializable")
	}

	ent := &types.CacheEntry{
		Data:      raw,
		WrittenAt: now,
		Size:      int64(len(raw)),
	}
	if ttl > 0 {
		ent.ExpiresAt = now.Add(ttl)
	}

	if c.compressor != nil && ent.Size > c.threshold {
		packed, err := c.compressor.Compress(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "compress cache entry")
		}
		data, err := json.Marshal(packed)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "encode compressed payload")
		}
		ent.Data = data
		ent.Compressed = true
	}

	return ent, nil
}

// Decode returns the serialized value carried by ent, decompressing it if needed.
// Every failure wraps ErrDecode.
func (c *Codec) Decode(ent *types.CacheEntry) (json.RawMessage, error) {
	if !ent.Compressed {
		return ent.Data, nil
	}
	if c.compressor == nil {
		return nil, errors.Wrap(ErrDecode, errors.CodeSchemaFailed, "compressed entry but compression is disabled")
	}

	var packed string
	if err := json.Unmarshal(ent.Data, &packed); err != nil {
		return nil, errors.Wrapf(ErrDecode, errors.CodeSchemaFailed, "compressed payload is not a string: %v", err)
	}
	raw, err := c.compressor.Decompress(packed)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, errors.CodeSchemaFailed, "decompress with %s: %v", c.compressor.Name(), err)
	}
	if !json.Valid(raw) {
		return nil, errors.Wrap(ErrDecode, errors.CodeSchemaFailed, "decompressed payload is not valid JSON")
	}
	return raw, nil
}

// Marshal renders ent as the string stored in the underlying store.
func (c *Codec) Marshal(ent *types.CacheEntry) (string, error) {
	b, err := json.Marshal(ent)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "encode cache envelope")
	}
	return string(b), nil
}

// Unmarshal parses a stored record. A malformed envelope wraps ErrDecode.
func (c *Codec) Unmarshal(record string) (*types.CacheEntry, error) {
	var ent types.CacheEntry
	if err := json.Unmarshal([]byte(record), &ent); err != nil {
		return nil, errors.Wrapf(ErrDecode, errors.CodeSchemaFailed, "parse envelope: %v", err)
	}
	if len(ent.Data) == 0 || ent.WrittenAt.IsZero() || ent.Size < 0 {
		return nil, errors.Wrap(ErrDecode, errors.CodeSchemaFailed, "envelope is missing fields")
	}
	return &ent, nil
}
