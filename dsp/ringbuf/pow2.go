package ringbuf

import "math/bits"

// Sample is the element constraint for ring buffers that need arithmetic
// (interpolation, overlap-add).
type Sample interface {
	~float32 | ~float64
}

// NextPowerOfTwo returns the smallest power of two >= n.
// It returns 1 for n <= 1.
//
// Subtracting one first keeps exact powers of two unchanged:
//
//	n      n-1    bits.Len  result
//	8      0111   3         8
//	9      1000   4         16
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
