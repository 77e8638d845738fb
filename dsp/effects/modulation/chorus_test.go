package modulation

import (
	"math"
	"testing"
)

func TestChorusProcessInPlaceMatchesSample(t *testing.T) {
	c1, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	c2, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	input := make([]float64, 128)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 31)
	}

	want := make([]float64, len(input))
	copy(want, input)

	for i := range want {
		want[i] = c1.ProcessSample(want[i])
	}

	got := make([]float64, len(input))
	copy(got, input)
	c2.ProcessInPlace(got)

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch: got=%g want=%g diff=%g", i, got[i], want[i], diff)
		}
	}
}

func TestChorusResetRestoresState(t *testing.T) {
	c, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	in := make([]float64, 96)
	in[0] = 1

	out1 := make([]float64, len(in))
	for i := range in {
		out1[i] = c.ProcessSample(in[i])
	}

	c.Reset()

	out2 := make([]float64, len(in))
	for i := range in {
		out2[i] = c.ProcessSample(in[i])
	}

	for i := range out1 {
		if diff := math.Abs(out1[i] - out2[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch after reset: got=%g want=%g diff=%g", i, out2[i], out1[i], diff)
		}
	}
}

func TestChorusZeroDepthIsPlainDelay(t *testing.T) {
	c, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}
	if err := c.SetSampleRate(1000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	if err := c.SetDepth(0); err != nil {
		t.Fatalf("SetDepth() error = %v", err)
	}
	if err := c.SetBaseDelay(0.01); err != nil {
		t.Fatalf("SetBaseDelay() error = %v", err)
	}
	if err := c.SetMix(1); err != nil {
		t.Fatalf("SetMix() error = %v", err)
	}

	in := make([]float64, 64)
	for i := range in {
		in[i] = math.Sin(0.3 * float64(i))
	}
	out := append([]float64(nil), in...)
	c.ProcessInPlace(out)

	for i := range out {
		want := 0.0
		if i >= 10 {
			want = in[i-10]
		}
		if diff := math.Abs(out[i] - want); diff > 1e-12 {
			t.Fatalf("sample %d: got=%g want=%g", i, out[i], want)
		}
	}
}

func TestChorusParameterValidation(t *testing.T) {
	c, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	tests := []struct {
		name string
		fn   func() error
	}{
		{"zero sample rate", func() error { return c.SetSampleRate(0) }},
		{"zero speed", func() error { return c.SetSpeedHz(0) }},
		{"negative depth", func() error { return c.SetDepth(-1) }},
		{"depth beyond line", func() error { return c.SetDepth(0.09) }},
		{"base delay too small", func() error { return c.SetBaseDelay(0.0001) }},
		{"base delay beyond line", func() error { return c.SetBaseDelay(0.099) }},
		{"zero stages", func() error { return c.SetStages(0) }},
		{"mix above one", func() error { return c.SetMix(1.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestChorusBaseDelayIsNonZeroByDefault(t *testing.T) {
	c, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	if c.BaseDelay() <= 0 {
		t.Fatalf("base delay must be > 0, got %f", c.BaseDelay())
	}
}

func TestChorusLongestDelayKeepsInterpolationHistory(t *testing.T) {
	c, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}
	// 100 ms lands on 1022.5 samples, so the outer Hermite tap reaches
	// 1024 samples back.
	err = c.SetSampleRate(10225)
	if err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	err = c.SetDepth(0)
	if err != nil {
		t.Fatalf("SetDepth() error = %v", err)
	}
	err = c.SetBaseDelay(maxChorusDelaySeconds)
	if err != nil {
		t.Fatalf("SetBaseDelay() error = %v", err)
	}
	err = c.SetStages(1)
	if err != nil {
		t.Fatalf("SetStages() error = %v", err)
	}
	err = c.SetMix(1)
	if err != nil {
		t.Fatalf("SetMix() error = %v", err)
	}

	out := make([]float64, 1100)
	out[0] = 1
	c.ProcessInPlace(out)

	for i := 0; i < 1021; i++ {
		if out[i] != 0 {
			t.Fatalf("out[%d] = %g before the delayed impulse", i, out[i])
		}
	}
	if math.Abs(out[1022]-out[1023]) > 1e-9 || out[1022] < 0.5 {
		t.Fatalf("half-sample impulse = %g %g, want equal taps above 0.5", out[1022], out[1023])
	}
}
