package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ring/dsp/delay"
)

const (
	defaultShifterRatio    = 1.0
	defaultShifterWindowMs = 50.0

	minShifterRatio    = 0.25
	maxShifterRatio    = 4.0
	minShifterWindowMs = 5.0
	maxShifterWindowMs = 200.0
)

// Shifter changes pitch without changing duration by reading a delay line
// through two taps that sweep the delay window at rate 1-ratio.
//
// The taps are half a window apart. Each is weighted by a raised cosine of
// its position in the window, so a tap is silent when it wraps and the two
// weights always sum to one.
//
// With ratio 1 the output is the input delayed by Latency() samples.
// This processor is mono and streams sample by sample.
type Shifter struct {
	sampleRate float64
	ratio      float64
	windowMs   float64

	winLen float64
	phase  float64
	line   *delay.Line[float64]
}

// NewShifter constructs a pitch shifter with a 50 ms window.
func NewShifter(sampleRate float64) (*Shifter, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}
	s := &Shifter{
		sampleRate: sampleRate,
		ratio:      defaultShifterRatio,
		windowMs:   defaultShifterWindowMs,
		line:       &delay.Line[float64]{},
	}

	err := s.rebuild()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// SampleRate returns the current sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// PitchRatio returns the pitch ratio.
func (s *Shifter) PitchRatio() float64 { return s.ratio }

// PitchSemitones returns the current pitch shift in semitones.
func (s *Shifter) PitchSemitones() float64 { return 12.0 * math.Log2(s.ratio) }

// Window returns the sweep window in milliseconds.
func (s *Shifter) Window() float64 { return s.windowMs }

// Latency returns the delay of the unshifted signal in samples.
func (s *Shifter) Latency() int { return 1 + int(s.winLen)/2 }

// SetSampleRate updates the sample rate. The delay history is cleared. On
// error the previous rate is kept.
func (s *Shifter) SetSampleRate(sampleRate float64) error {
	if !isFinitePositive(sampleRate) {
		return fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}

	prev := s.sampleRate
	s.sampleRate = sampleRate

	err := s.rebuild()
	if err != nil {
		s.sampleRate = prev
		return err
	}

	return nil
}

// SetPitchRatio updates the pitch shift ratio.
func (s *Shifter) SetPitchRatio(ratio float64) error {
	if !isFinitePositive(ratio) || ratio < minShifterRatio || ratio > maxShifterRatio {
		return fmt.Errorf("pitch shifter ratio must be in [%f, %f]: %f",
			minShifterRatio, maxShifterRatio, ratio)
	}
	s.ratio = ratio
	return nil
}

// SetPitchSemitones updates pitch shift in semitones.
func (s *Shifter) SetPitchSemitones(semitones float64) error {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) {
		return fmt.Errorf("pitch shifter semitones must be finite: %f", semitones)
	}

	err := s.SetPitchRatio(math.Pow(2, semitones/12.0))
	if err != nil {
		return fmt.Errorf("pitch shifter semitones out of range: %w", err)
	}

	return nil
}

// SetWindow updates the sweep window in milliseconds. The delay history is
// cleared.
func (s *Shifter) SetWindow(ms float64) error {
	if ms < minShifterWindowMs || ms > maxShifterWindowMs || math.IsNaN(ms) {
		return fmt.Errorf("pitch shifter window must be in [%f, %f] ms: %f",
			minShifterWindowMs, maxShifterWindowMs, ms)
	}

	old := s.windowMs
	s.windowMs = ms

	err := s.rebuild()
	if err != nil {
		s.windowMs = old
		_ = s.rebuild()
		return err
	}

	return nil
}

// Reset clears the delay line and the tap phase.
func (s *Shifter) Reset() {
	s.line.ClearBuffers()
	s.phase = 0
}

// ProcessSample shifts one sample.
func (s *Shifter) ProcessSample(input float64) float64 {
	s.line.WriteSample(input)

	y := s.tap(s.phase) + s.tap(wrap01(s.phase+0.5))
	s.line.Step(1)

	s.phase = wrap01(s.phase + (1-s.ratio)/s.winLen)
	return y
}

// ProcessInPlace applies pitch shifting to buf in place.
func (s *Shifter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = s.ProcessSample(buf[i])
	}
}

func (s *Shifter) tap(phase float64) float64 {
	g := 0.5 - 0.5*math.Cos(2*math.Pi*phase)
	if g == 0 {
		return 0
	}
	return g * s.line.ReadFractional(1+phase*s.winLen)
}

func (s *Shifter) rebuild() error {
	// even, so the unshifted tap sits on a whole sample
	n := 2 * int(math.Round(s.windowMs*s.sampleRate/2000))
	if n < 4 {
		return fmt.Errorf("pitch shifter window too short at %f Hz: %d samples", s.sampleRate, n)
	}
	s.winLen = float64(n)

	err := s.line.Setup(n+2, 1)
	if err != nil {
		return err
	}

	s.phase = 0
	return nil
}

func wrap01(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	return x
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
