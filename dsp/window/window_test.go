package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateFiniteAndBounded(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			for _, opts := range [][]Option{nil, {WithPeriodic()}} {
				w, err := Generate(typ, 64, opts...)
				if err != nil {
					t.Fatal(err)
				}
				if len(w) != 64 {
					t.Fatalf("len=%d, want 64", len(w))
				}
				for i, v := range w {
					if math.IsNaN(v) || v < -1e-12 || v > 1+1e-12 {
						t.Fatalf("coefficient[%d] = %v out of [0, 1]", i, v)
					}
				}
			}
		})
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := Generate(TypeHann, n); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("Generate(%d) error = %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestSymmetricWindowIsSymmetric(t *testing.T) {
	for _, typ := range Types() {
		w, _ := Generate(typ, 33)
		for i := range w {
			if d := math.Abs(w[i] - w[len(w)-1-i]); d > 1e-12 {
				t.Fatalf("%s: w[%d]=%v w[%d]=%v", typ, i, w[i], len(w)-1-i, w[len(w)-1-i])
			}
		}
	}
}

func TestPeriodicHannStartsAtZero(t *testing.T) {
	w, _ := Generate(TypeHann, 8, WithPeriodic())
	if w[0] != 0 {
		t.Fatalf("w[0] = %v, want 0", w[0])
	}
	if math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("w[4] = %v, want 1", w[4])
	}
}

func TestSqrtHannSquaresToHann(t *testing.T) {
	h, _ := Generate(TypeHann, 32, WithPeriodic())
	s, _ := Generate(TypeSqrtHann, 32, WithPeriodic())
	for i := range h {
		if math.Abs(s[i]*s[i]-h[i]) > 1e-12 {
			t.Fatalf("sqrt-hann[%d]^2 = %v, hann = %v", i, s[i]*s[i], h[i])
		}
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2}
	if err := Apply(buf, []float64{0, 0.5, 1, 0.25}); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 2, 0.5}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
	if err := Apply(buf, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestOverlapGain(t *testing.T) {
	tests := []struct {
		typ     Type
		frame   int
		hop     int
		want    float64
		ripple0 bool
	}{
		{TypeRectangular, 16, 16, 1, true},
		{TypeRectangular, 16, 4, 4, true},
		{TypeHann, 1024, 256, 1.5, true},
		{TypeSqrtHann, 1024, 512, 1, true},
		{TypeHann, 1024, 512, 0.75, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			w, _ := Generate(tt.typ, tt.frame, WithPeriodic())
			g, err := OverlapGain(w, tt.hop)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(g-tt.want) > 1e-9 {
				t.Fatalf("OverlapGain = %v, want %v", g, tt.want)
			}
			r, err := OverlapRipple(w, tt.hop)
			if err != nil {
				t.Fatal(err)
			}
			if tt.ripple0 && r > 1e-9 {
				t.Fatalf("OverlapRipple = %v, want 0", r)
			}
			if !tt.ripple0 && r < 1e-3 {
				t.Fatalf("OverlapRipple = %v, want > 0", r)
			}
		})
	}
}

func TestOverlapGainInvalidHop(t *testing.T) {
	w, _ := Generate(TypeHann, 8)
	for _, hop := range []int{0, 9} {
		if _, err := OverlapGain(w, hop); !errors.Is(err, ErrInvalidHop) {
			t.Fatalf("hop %d: error = %v, want ErrInvalidHop", hop, err)
		}
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(" " + typ.String() + " ")
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if got, _ := ParseType("HANN"); got != TypeHann {
		t.Fatalf("ParseType is case sensitive: %v", got)
	}
	if _, err := ParseType("kaiser"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("error = %v, want ErrUnknownType", err)
	}
}

func TestEquivalentNoiseBandwidth(t *testing.T) {
	w, _ := Generate(TypeHann, 4096, WithPeriodic())
	enbw, err := EquivalentNoiseBandwidth(w)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(enbw-1.5) > 1e-3 {
		t.Fatalf("Hann ENBW = %v, want 1.5", enbw)
	}
}
