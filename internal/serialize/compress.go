// Package serialize compresses encoded query options for transport in
// page tokens.
package serialize

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// MaxDecodedSize bounds payloads in both directions. Tokens come from
// clients, so a small frame must not expand without limit.
const MaxDecodedSize = 1 << 20

var (
	// ErrEmpty is returned for an empty payload or frame.
	ErrEmpty = errors.New("serialize: empty payload")
	// ErrTooLarge is returned by Compress for input Decompress would refuse.
	ErrTooLarge = fmt.Errorf("serialize: payload exceeds %d bytes", MaxDecodedSize)
)

// Codec compresses token payloads with zstd. Tokens are small and travel
// in URLs, so frames are written as a single segment at a high level.
// A Codec is safe for concurrent use.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec creates a codec. Close releases its resources.
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithSingleSegment(true),
	)
	if err != nil {
		return nil, fmt.Errorf("serialize: create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("serialize: create zstd decoder: %w", err)
	}

	return &Codec{enc: enc, dec: dec}, nil
}

var shared struct {
	once  sync.Once
	codec *Codec
	err   error
}

// Shared returns a process-wide codec, created on first use.
func Shared() (*Codec, error) {
	shared.once.Do(func() {
		shared.codec, shared.err = NewCodec()
	})
	return shared.codec, shared.err
}

// Compress returns one zstd frame holding data.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	switch {
	case len(data) == 0:
		return nil, ErrEmpty
	case len(data) > MaxDecodedSize:
		return nil, ErrTooLarge
	}
	return c.enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress restores data written by Compress.
func (c *Codec) Decompress(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmpty
	}

	data, err := c.dec.DecodeAll(frame, nil)
	if err != nil {
		return nil, fmt.Errorf("serialize: decompress: %w", err)
	}
	return data, nil
}

// Close releases the encoder and decoder.
func (c *Codec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}
