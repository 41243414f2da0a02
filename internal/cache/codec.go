package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// Codec transforms values on their way into and out of a cache backend.
type Codec interface {
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

// NewCodec returns the codec registered under name: "none", "zstd" or "brotli".
// An empty name selects "none".
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "zstd":
		return newZstdCodec()
	case "brotli":
		return brotliCodec{}, nil
	default:
		return nil, fmt.Errorf("cache: unknown compression %q", name)
	}
}

// zstdCodec shares one encoder and decoder; EncodeAll and DecodeAll are safe for concurrent use.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() (*zstdCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (z *zstdCodec) Name() string { return "zstd" }

func (z *zstdCodec) Encode(src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, nil), nil
}

func (z *zstdCodec) Decode(src []byte) ([]byte, error) {
	return z.dec.DecodeAll(src, nil)
}

type brotliCodec struct{}

func (brotliCodec) Name() string { return "brotli" }

func (brotliCodec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (brotliCodec) Decode(src []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(src)))
}

// codecCache compresses values before they reach the wrapped cache.
// Values that fail to decode are reported as misses.
type codecCache struct {
	inner  Cache
	codec  Codec
	logger Logger
}

func newCodecCache(inner Cache, codec Codec, logger Logger) *codecCache {
	return &codecCache{inner: inner, codec: codec, logger: logger}
}

func (c *codecCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, ok := c.inner.Get(ctx, key)
	if !ok {
		return nil, false
	}
	val, err := c.codec.Decode(raw)
	if err != nil {
		if c.logger != nil {
			c.logger.Error(c.codec.Name()+" decode failed for "+key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *codecCache) Set(ctx context.Context, key string, value []byte) {
	raw, err := c.codec.Encode(value)
	if err != nil {
		if c.logger != nil {
			c.logger.Error(c.codec.Name()+" encode failed for "+key, err)
		}
		return
	}
	c.inner.Set(ctx, key, raw)
}

func (c *codecCache) Contains(ctx context.Context, key string) bool {
	return c.inner.Contains(ctx, key)
}

func (c *codecCache) Len() int {
	return c.inner.Len()
}

func (c *codecCache) Close() error {
	if z, ok := c.codec.(*zstdCodec); ok {
		z.dec.Close()
		_ = z.enc.Close()
	}
	return c.inner.Close()
}
