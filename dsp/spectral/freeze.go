package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
)

// PhaseMode controls how the phases of a frozen spectrum evolve.
type PhaseMode int

const (
	// PhaseHold repeats the captured phase on every frame.
	PhaseHold PhaseMode = iota
	// PhaseAdvance rotates each bin by its center frequency times the hop.
	PhaseAdvance
)

// Freeze is a kernel that captures one magnitude spectrum and sustains it
// while frozen. Unfrozen, it passes frames through.
type Freeze struct {
	hop       int
	frameSize int
	mode      PhaseMode
	frozen    bool
	captured  bool
	mag       []float64
	phase     []float64
}

// NewFreeze returns a Freeze kernel for the given STFT geometry.
func NewFreeze(frameSize, hop int, mode PhaseMode) (*Freeze, error) {
	if frameSize < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameSize, frameSize)
	}
	if mode != PhaseHold && mode != PhaseAdvance {
		return nil, fmt.Errorf("spectral: invalid phase mode: %d", mode)
	}
	bins := frameSize/2 + 1
	return &Freeze{
		hop:       hop,
		frameSize: frameSize,
		mode:      mode,
		mag:       make([]float64, bins),
		phase:     make([]float64, bins),
	}, nil
}

// Frozen reports whether the spectrum is held.
func (f *Freeze) Frozen() bool { return f.frozen }

// SetFrozen toggles the hold. Each transition to frozen captures a fresh
// spectrum on the next frame.
func (f *Freeze) SetFrozen(frozen bool) {
	if frozen != f.frozen {
		f.captured = false
	}
	f.frozen = frozen
}

// Reset drops the captured spectrum.
func (f *Freeze) Reset() {
	f.captured = false
	clear(f.phase)
}

// ProcessFrame implements FrameProcessor.
func (f *Freeze) ProcessFrame(bins []complex128) {
	if !f.frozen {
		return
	}
	if len(bins) != len(f.mag) {
		panic(fmt.Sprintf("spectral: %d bins, want %d", len(bins), len(f.mag)))
	}

	if !f.captured {
		for k, v := range bins {
			re, im := real(v), imag(v)
			f.mag[k] = mathSqrt(re*re + im*im)
			f.phase[k] = cmplx.Phase(v)
		}
		f.captured = true
		return
	}

	step := 2 * math.Pi * float64(f.hop) / float64(f.frameSize)
	for k := range bins {
		if f.mode == PhaseAdvance {
			f.phase[k] = math.Mod(f.phase[k]+step*float64(k), 2*math.Pi)
		}
		bins[k] = cmplx.Rect(f.mag[k], f.phase[k])
	}
}
