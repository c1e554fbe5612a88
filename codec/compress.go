package codec

import (
	"encoding/base64"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

/*
Compressor is the pluggable payload codec.

The store only holds strings, so Compress returns a string form (base64 of
the compressed bytes) and Decompress reverses it. Decompress must return an
error, never panic, on corrupted input.
*/
type Compressor interface {
	Name() string
	Compress(src []byte) (string, error)
	Decompress(s string) ([]byte, error)
}

// Compressor names accepted by NewCompressor.
const (
	Zstd = "zstd"
	S2   = "s2"
	None = "none"
)

// NewCompressor returns the compressor registered under name.
// None returns a nil Compressor, which disables compression.
func NewCompressor(name string) (Compressor, error) {
	switch name {
	case Zstd:
		return NewZstd()
	case S2:
		return S2Compressor{}, nil
	case None, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown compressor %q", name)
	}
}

// ZstdCompressor compresses with zstd. It is safe for concurrent use.
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd builds a compressor at the default zstd level.
func NewZstd() (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ZstdCompressor{enc: enc, dec: dec}, nil
}

// Name returns Zstd.
func (z *ZstdCompressor) Name() string { return Zstd }

// Compress returns src compressed and base64 encoded.
func (z *ZstdCompressor) Compress(src []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(z.enc.EncodeAll(src, nil)), nil
}

// Decompress reverses Compress.
func (z *ZstdCompressor) Decompress(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return z.dec.DecodeAll(b, nil)
}

// S2Compressor trades ratio for speed.
type S2Compressor struct{}

// Name returns S2.
func (S2Compressor) Name() string { return S2 }

// Compress returns src s2-encoded and base64 encoded.
func (S2Compressor) Compress(src []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(s2.Encode(nil, src)), nil
}

// Decompress reverses Compress.
func (S2Compressor) Decompress(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return s2.Decode(nil, b)
}
