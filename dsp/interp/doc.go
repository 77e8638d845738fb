// Package interp provides the fractional-read kernels used by delay-based
// processors.
//
//   - [Linear]:   2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default)
//
// Both are generic over [ringbuf.Sample] so float32 and float64 delay lines
// share one implementation.
package interp
