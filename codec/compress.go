package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/nkit/internal/conv"
)

// Compression selects the block compression of a Compressed codec.
type Compression uint8

const (
	// CompressionNone stores the encoded bytes as they are.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4
	// CompressionZstd uses zstd (better ratio).
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

// ParseCompression resolves "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, bool) {
	switch s {
	case "none", "":
		return CompressionNone, true
	case "lz4":
		return CompressionLZ4, true
	case "zstd":
		return CompressionZstd, true
	default:
		return CompressionNone, false
	}
}

// ErrCorruptBlock is returned when compressed input cannot be decoded.
var ErrCorruptBlock = errors.New("codec: corrupt compressed block")

// Compressed wraps another codec and compresses its output.
//
// Format: [uncompressed size uint32][compressed size uint32][data].
// A compressed size of 0 means the data is stored raw because compression
// did not pay off.
type Compressed struct {
	inner       Codec
	compression Compression
}

// NewCompressed wraps inner (Default when nil).
func NewCompressed(inner Codec, c Compression) Compressed {
	if inner == nil {
		inner = Default
	}
	return Compressed{inner: inner, compression: c}
}

// Marshal encodes v with the inner codec and compresses the result.
func (c Compressed) Marshal(v any) ([]byte, error) {
	raw, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	return compressBlock(raw, c.compression)
}

// Unmarshal decompresses data and decodes it with the inner codec.
func (c Compressed) Unmarshal(data []byte, v any) error {
	raw, err := decompressBlock(data, c.compression)
	if err != nil {
		return err
	}
	return c.inner.Unmarshal(raw, v)
}

// Name returns the inner name with the compression suffix, e.g. "go-json+zstd".
func (c Compressed) Name() string {
	if c.compression == CompressionNone {
		return c.inner.Name()
	}
	return c.inner.Name() + "+" + c.compression.String()
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
}

const (
	blockHeaderSize = 8

	// MaxBlockSize bounds the uncompressed size a block header may declare.
	MaxBlockSize = 256 << 20

	// lz4MaxRatio is the largest expansion an LZ4 block can encode.
	lz4MaxRatio = 255
)

func compressBlock(data []byte, c Compression) ([]byte, error) {
	if len(data) > MaxBlockSize {
		return nil, fmt.Errorf("codec: payload of %d bytes exceeds block limit", len(data))
	}
	size, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("codec: payload too large: %w", err)
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], size)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	csize, err := conv.IntToUint32(len(compressed))
	if err != nil {
		return nil, err
	}
	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], size)
	binary.LittleEndian.PutUint32(out[4:], csize)
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func decompressBlock(data []byte, c Compression) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, fmt.Errorf("%w: missing header", ErrCorruptBlock)
	}
	size := uint64(binary.LittleEndian.Uint32(data[0:]))
	csize := uint64(binary.LittleEndian.Uint32(data[4:]))
	body := data[blockHeaderSize:]

	if size > MaxBlockSize {
		return nil, fmt.Errorf("%w: declared size %d exceeds limit", ErrCorruptBlock, size)
	}
	if csize == 0 {
		if uint64(len(body)) < size {
			return nil, fmt.Errorf("%w: truncated raw block", ErrCorruptBlock)
		}
		return body[:size], nil
	}
	if uint64(len(body)) < csize {
		return nil, fmt.Errorf("%w: truncated compressed block", ErrCorruptBlock)
	}
	body = body[:csize]

	switch c {
	case CompressionLZ4:
		if size > lz4MaxRatio*csize {
			return nil, fmt.Errorf("%w: declared size %d exceeds lz4 bound", ErrCorruptBlock, size)
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
		}
		if uint64(n) != size {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorruptBlock)
		}
		return out, nil
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
		}
		if uint64(len(out)) != size {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorruptBlock)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed block without compression", ErrCorruptBlock)
	}
}
