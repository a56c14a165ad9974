package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	// On 64-bit systems, int can exceed uint32 max; on 32-bit, this is always false
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// IntToInt64 converts int to int64. It cannot fail on supported platforms
// but keeps call sites uniform.
func IntToInt64(v int) int64 {
	return int64(v)
}

// MulInt multiplies non-negative factors, failing on overflow.
func MulInt(factors ...int) (int, error) {
	p := 1
	for _, f := range factors {
		if f < 0 {
			return 0, fmt.Errorf("integer overflow: negative factor %d", f)
		}
		if f != 0 && p > math.MaxInt/f {
			return 0, fmt.Errorf("integer overflow: product of %v exceeds int", factors)
		}
		p *= f
	}
	return p, nil
}
