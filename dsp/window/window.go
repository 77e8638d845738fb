// Package window generates analysis and synthesis windows for framed
// processing.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeSqrtHann
)

var typeNames = [...]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeSqrtHann:    "sqrthann",
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// Types returns every supported window type.
func Types() []Type {
	return []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeSqrtHann}
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves a case-insensitive window name.
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range typeNames {
		if s == n {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns n window coefficients.
func Generate(t Type, n int, opts ...Option) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, n, cfg.periodic))
	}
	return out, nil
}

// Apply multiplies buf by coeffs in place.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(buf), len(coeffs))
	}
	vecmath.MulBlockInPlace(buf, coeffs)
	return nil
}

// OverlapGain returns the mean over one hop of sum_k w[i+k*hop]^2, the gain
// of weighted overlap-add with coeffs used as both analysis and synthesis
// window. Dividing each synthesized frame by it gives unity gain for
// constant-overlap windows.
func OverlapGain(coeffs []float64, hop int) (float64, error) {
	if len(coeffs) == 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, 0)
	}
	if hop < 1 || hop > len(coeffs) {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidHop, hop, len(coeffs))
	}

	sum := 0.0
	for _, w := range coeffs {
		sum += w * w
	}
	return sum / float64(hop), nil
}

// OverlapRipple returns the peak-to-peak deviation of the overlap-added
// squared window relative to its mean. It is 0 for windows that satisfy the
// constant-overlap-add condition at this hop.
func OverlapRipple(coeffs []float64, hop int) (float64, error) {
	mean, err := OverlapGain(coeffs, hop)
	if err != nil {
		return 0, err
	}

	if mean == 0 {
		return 0, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < hop; i++ {
		s := 0.0
		for k := i; k < len(coeffs); k += hop {
			s += coeffs[k] * coeffs[k]
		}
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return (hi - lo) / mean, nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, 0)
	}

	sum := 0.0
	sumSquares := 0.0
	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}
	if sum == 0 {
		return 0, nil
	}
	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeSqrtHann:
		return math.Sqrt(max(0, cosineFromCoeffs(x, hannCoeffs)))
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}
	return float64(n) / den
}
