package spectral

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-ring/dsp/window"
	"github.com/cwbudde/algo-ring/internal/testutil"
)

func rms(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}

func TestFreezeSustainsSpectrum(t *testing.T) {
	const frameSize, hop = 256, 64
	f, err := NewFreeze(frameSize, hop, PhaseHold)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewProcessor(frameSize, hop, window.TypeHann, f)
	if err != nil {
		t.Fatal(err)
	}

	// Bin-centered tone with a whole number of cycles per hop, so a held
	// frame lines up with the signal it replaces.
	in := testutil.DeterministicSine(8*48000.0/frameSize, 48000, 1, 2048)
	p.Process(in[:1024])
	f.SetFrozen(true)
	if !f.Frozen() {
		t.Fatal("Frozen() = false after SetFrozen(true)")
	}
	p.Process(in[1024:])

	silence := make([]float64, 4096)
	p.Process(silence)
	if r := rms(silence[2*frameSize:]); r < 0.3 {
		t.Fatalf("frozen tail rms = %v, want sustained tone", r)
	}

	f.SetFrozen(false)
	tail := make([]float64, 2048)
	p.Process(tail)
	if r := rms(tail[2*frameSize:]); r > 1e-9 {
		t.Fatalf("unfrozen tail rms = %v, want silence", r)
	}
}

func TestFreezeHoldRepeatsCapturedFrame(t *testing.T) {
	f, _ := NewFreeze(8, 2, PhaseHold)
	f.SetFrozen(true)

	captured := []complex128{1, 2i, -3, 0.5, 0}
	frame := append([]complex128(nil), captured...)
	f.ProcessFrame(frame)

	next := make([]complex128, 5)
	f.ProcessFrame(next)
	for k := range captured {
		if cmplx.Abs(next[k]-captured[k]) > kernelEps {
			t.Fatalf("bin %d = %v, want %v", k, next[k], captured[k])
		}
	}
}

func TestFreezeAdvanceRotatesByBinFrequency(t *testing.T) {
	f, _ := NewFreeze(8, 2, PhaseAdvance)
	f.SetFrozen(true)
	f.ProcessFrame([]complex128{1, 1, 1, 1, 1})

	next := make([]complex128, 5)
	f.ProcessFrame(next)
	want := []complex128{1, 1i, -1, -1i, 1}
	for k := range want {
		if cmplx.Abs(next[k]-want[k]) > 1e-3 {
			t.Fatalf("bin %d = %v, want %v", k, next[k], want[k])
		}
	}
}

func TestNewFreezeValidation(t *testing.T) {
	if _, err := NewFreeze(1, 1, PhaseHold); err == nil {
		t.Fatal("expected error for frame size 1")
	}
	if _, err := NewFreeze(16, 4, PhaseMode(9)); err == nil {
		t.Fatal("expected error for invalid phase mode")
	}
}

func TestCrusherQuantizesAndDecimates(t *testing.T) {
	c, err := NewCrusher(121, 2) // 1 dB steps
	if err != nil {
		t.Fatal(err)
	}
	bins := []complex128{1, 2i, 0.5, 0}
	c.ProcessFrame(bins)

	held := math.Pow(10, -6.0/20)
	want := []complex128{1, 1i, complex(held, 0), complex(held, 0)}
	for k := range want {
		if cmplx.Abs(bins[k]-want[k]) > 1e-3 {
			t.Fatalf("bin %d = %v, want %v", k, bins[k], want[k])
		}
	}
}

func TestCrusherSilenceStaysSilent(t *testing.T) {
	c, _ := NewCrusher(16, 4)
	bins := make([]complex128, 9)
	c.ProcessFrame(bins)
	for k, v := range bins {
		if v != 0 {
			t.Fatalf("bin %d = %v, want 0", k, v)
		}
	}
}

func TestCrusherValidation(t *testing.T) {
	if _, err := NewCrusher(1, 1); err == nil {
		t.Fatal("expected error for one level")
	}
	if _, err := NewCrusher(8, 0); err == nil {
		t.Fatal("expected error for zero stride")
	}
}
