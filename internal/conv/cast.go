package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is wrapped by every conversion error.
var ErrOverflow = errors.New("integer overflow")

func overflow(v any, target, reason string) error {
	return fmt.Errorf("%w: %v cannot be converted to %s (%s)", ErrOverflow, v, target, reason)
}

// IntToUint32 converts int to uint32, rejecting negative and too large values.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, overflow(v, "uint32", "negative")
	}
	if uint64(v) > math.MaxUint32 {
		return 0, overflow(v, "uint32", "too large")
	}
	return uint32(v), nil
}

// Uint32ToInt converts uint32 to int. It can only fail where int is 32 bits.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, overflow(v, "int", "too large")
	}
	return int(v), nil
}
