package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ring/dsp/core"
	"github.com/cwbudde/algo-ring/dsp/delay"
)

const (
	defaultFlangerRateHz           = 0.25
	defaultFlangerDepthSeconds     = 0.0015
	defaultFlangerBaseDelaySeconds = 0.001
	defaultFlangerFeedback         = 0.25
	defaultFlangerMix              = 0.5

	minFlangerDelaySeconds = 0.0001 // 0.1 ms
	maxFlangerDelaySeconds = 0.0100 // 10 ms
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	rateHz       float64
	depthSeconds float64
	baseDelay    float64
	feedback     float64
	mix          float64
}

func defaultFlangerConfig() flangerConfig {
	return flangerConfig{
		rateHz:       defaultFlangerRateHz,
		depthSeconds: defaultFlangerDepthSeconds,
		baseDelay:    defaultFlangerBaseDelaySeconds,
		feedback:     defaultFlangerFeedback,
		mix:          defaultFlangerMix,
	}
}

// WithFlangerRateHz sets modulation speed in Hz.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("flanger rate must be > 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithFlangerDepthSeconds sets modulation depth in seconds.
func WithFlangerDepthSeconds(depth float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("flanger depth must be >= 0 and finite: %f", depth)
		}

		cfg.depthSeconds = depth

		return nil
	}
}

// WithFlangerBaseDelaySeconds sets base delay in seconds.
func WithFlangerBaseDelaySeconds(baseDelay float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if baseDelay < minFlangerDelaySeconds || baseDelay > maxFlangerDelaySeconds ||
			math.IsNaN(baseDelay) || math.IsInf(baseDelay, 0) {
			return fmt.Errorf("flanger base delay must be in [%f, %f]: %f",
				minFlangerDelaySeconds, maxFlangerDelaySeconds, baseDelay)
		}

		cfg.baseDelay = baseDelay

		return nil
	}
}

// WithFlangerFeedback sets feedback amount in [-0.99, 0.99].
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if feedback < -0.99 || feedback > 0.99 || math.IsNaN(feedback) || math.IsInf(feedback, 0) {
			return fmt.Errorf("flanger feedback must be in [-0.99, 0.99]: %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithFlangerMix sets wet amount in [0, 1].
func WithFlangerMix(mix float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("flanger mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// Flanger is a short modulated-delay effect with feedback and wet/dry mix.
//
// The feedback path runs through a ring-buffer delay line read with Hermite
// interpolation at
//
//	d(t) = baseDelay + depth * 0.5 * (1 + sin(phase))
type Flanger struct {
	sampleRate float64
	rateHz     float64
	depth      float64
	baseDelay  float64
	feedback   float64
	mix        float64

	lfoPhase float64

	line     delay.Line[float64]
	maxDelay int
}

// NewFlanger creates a flanger with practical defaults and optional overrides.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("flanger sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultFlangerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	f := &Flanger{
		sampleRate: sampleRate,
		rateHz:     cfg.rateHz,
		depth:      cfg.depthSeconds,
		baseDelay:  cfg.baseDelay,
		feedback:   cfg.feedback,
		mix:        cfg.mix,
	}

	err := f.setupLine()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// SetSampleRate updates sample rate. The delay history is cleared.
func (f *Flanger) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("flanger sample rate must be > 0 and finite: %f", sampleRate)
	}
	prev := f.sampleRate
	f.sampleRate = sampleRate

	err := f.setupLine()
	if err != nil {
		f.sampleRate = prev
		return err
	}

	return nil
}

// SetRateHz sets modulation speed in Hz.
func (f *Flanger) SetRateHz(rateHz float64) error {
	if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return fmt.Errorf("flanger rate must be > 0 and finite: %f", rateHz)
	}
	f.rateHz = rateHz
	return nil
}

// SetDepthSeconds sets modulation depth in seconds. On error the previous
// depth is kept.
func (f *Flanger) SetDepthSeconds(depth float64) error {
	if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("flanger depth must be >= 0 and finite: %f", depth)
	}
	prev := f.depth
	f.depth = depth

	err := f.setupLine()
	if err != nil {
		f.depth = prev
		return err
	}

	return nil
}

// SetBaseDelaySeconds sets base delay in seconds. On error the previous
// value is kept.
func (f *Flanger) SetBaseDelaySeconds(baseDelay float64) error {
	if baseDelay < minFlangerDelaySeconds || baseDelay > maxFlangerDelaySeconds ||
		math.IsNaN(baseDelay) || math.IsInf(baseDelay, 0) {
		return fmt.Errorf("flanger base delay must be in [%f, %f]: %f",
			minFlangerDelaySeconds, maxFlangerDelaySeconds, baseDelay)
	}
	prev := f.baseDelay
	f.baseDelay = baseDelay

	err := f.setupLine()
	if err != nil {
		f.baseDelay = prev
		return err
	}

	return nil
}

// SetFeedback sets feedback amount in [-0.99, 0.99].
func (f *Flanger) SetFeedback(feedback float64) error {
	if feedback < -0.99 || feedback > 0.99 || math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return fmt.Errorf("flanger feedback must be in [-0.99, 0.99]: %f", feedback)
	}
	f.feedback = feedback
	return nil
}

// SetMix sets wet amount in [0, 1].
func (f *Flanger) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("flanger mix must be in [0, 1]: %f", mix)
	}
	f.mix = mix
	return nil
}

// Reset clears delay and LFO state.
func (f *Flanger) Reset() {
	f.line.ClearBuffers()
	f.lfoPhase = 0
}

// ProcessSample processes one sample.
func (f *Flanger) ProcessSample(sample float64) float64 {
	mod := 0.5 * (1 + math.Sin(f.lfoPhase))
	d := (f.baseDelay + f.depth*mod) * f.sampleRate
	d = min(max(d, 1), float64(f.maxDelay))

	delayed := f.line.ReadFractional(d)
	f.line.WriteSample(core.FlushDenormals(sample + delayed*f.feedback))
	f.line.Step(1)

	f.lfoPhase += 2 * math.Pi * f.rateHz / f.sampleRate
	if f.lfoPhase >= 2*math.Pi {
		f.lfoPhase -= 2 * math.Pi
	}

	return sample*(1-f.mix) + delayed*f.mix
}

// ProcessInPlace applies flanging to buf in place.
func (f *Flanger) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// SampleRate returns sample rate in Hz.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// RateHz returns LFO speed in Hz.
func (f *Flanger) RateHz() float64 { return f.rateHz }

// DepthSeconds returns modulation depth in seconds.
func (f *Flanger) DepthSeconds() float64 { return f.depth }

// BaseDelaySeconds returns base delay in seconds.
func (f *Flanger) BaseDelaySeconds() float64 { return f.baseDelay }

// Feedback returns feedback amount in [-0.99, 0.99].
func (f *Flanger) Feedback() float64 { return f.feedback }

// Mix returns wet amount in [0, 1].
func (f *Flanger) Mix() float64 { return f.mix }

// setupLine validates the delay range and sizes the line for it. The
// Hermite taps reach two samples past maxDelay, so the line keeps that much
// extra history.
func (f *Flanger) setupLine() error {
	if f.baseDelay+f.depth > maxFlangerDelaySeconds {
		return fmt.Errorf("flanger max delay exceeds %f seconds: base=%f depth=%f",
			maxFlangerDelaySeconds, f.baseDelay, f.depth)
	}
	f.maxDelay = max(int(math.Ceil((f.baseDelay+f.depth)*f.sampleRate)), 1)
	return f.line.Setup(f.maxDelay+2, 1)
}
