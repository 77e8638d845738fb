package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestHermite4Float32(t *testing.T) {
	got := Hermite4[float32](0.5, 0, 1, 2, 3)
	if diff := got - 1.5; diff < -1e-6 || diff > 1e-6 {
		t.Fatalf("got %v want 1.5", got)
	}
}

func TestHermite4HitsEndpoints(t *testing.T) {
	if got := Hermite4(0.0, 3.0, -2.0, 5.0, 1.0); got != -2 {
		t.Fatalf("t=0: got %v want -2", got)
	}
	if got := Hermite4(1.0, 3.0, -2.0, 5.0, 1.0); got != 5 {
		t.Fatalf("t=1: got %v want 5", got)
	}
}

func TestLinear(t *testing.T) {
	if got := Linear(0.25, 2.0, 4.0); got != 2.5 {
		t.Fatalf("got %v want 2.5", got)
	}
	if got := Linear[float32](1, 2, 4); got != 4 {
		t.Fatalf("got %v want 4", got)
	}
}
