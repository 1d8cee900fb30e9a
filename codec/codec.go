// Package codec selects how values are turned into bytes.
//
// A codec name is stable and may be stored next to the encoded bytes so the
// matching codec can be found again with ByName.
package codec

import (
	"fmt"
	"strings"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name. A "+lz4" or "+zstd"
// suffix wraps the base codec with block compression.
func ByName(name string) (Codec, bool) {
	base, suffix, compressed := strings.Cut(name, "+")
	var c Codec
	switch base {
	case "json":
		c = JSON{}
	case "go-json":
		c = GoJSON{}
	default:
		return nil, false
	}
	if !compressed {
		return c, true
	}
	comp, ok := ParseCompression(suffix)
	if !ok || comp == CompressionNone {
		return nil, false
	}
	return NewCompressed(c, comp), true
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
