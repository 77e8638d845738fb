package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ring/dsp/core"
	"github.com/cwbudde/algo-ring/dsp/delay"
)

const (
	defaultDelayTimeSeconds = 0.25
	defaultDelayFeedback    = 0.35
	defaultDelayMix         = 0.25
	maxDelayTimeSeconds     = 2.0
	minDelayTimeSeconds     = 0.001
)

// Delay is a feedback echo with dry/wet mix on a ring-buffer delay line.
//
// Blocks are processed in chunks no longer than the delay, so each chunk
// reads only history and writes the feedback signal in one pass.
type Delay struct {
	cfg          core.ProcessorConfig
	delaySeconds float64
	feedback     float64
	mix          float64

	line    *delay.Line[float64]
	scratch []float64

	// After Reset only the newest fresh slots behind the cursor are valid.
	stale bool
	fresh int
}

// NewDelay creates a delay with practical defaults.
func NewDelay(cfg core.ProcessorConfig) (*Delay, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", cfg.SampleRate)
	}
	maxDelay := int(math.Ceil(maxDelayTimeSeconds * cfg.SampleRate))

	line, err := delay.New[float64](maxDelay, cfg.MaxBlockLen)
	if err != nil {
		return nil, err
	}

	d := &Delay{
		cfg:      cfg,
		feedback: defaultDelayFeedback,
		mix:      defaultDelayMix,
		line:     line,
		scratch:  make([]float64, cfg.MaxBlockLen),
	}

	err = d.SetTime(defaultDelayTimeSeconds)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// SetTime sets delay time in seconds.
func (d *Delay) SetTime(seconds float64) error {
	if seconds < minDelayTimeSeconds || seconds > maxDelayTimeSeconds ||
		math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("delay time must be in [%f, %f]: %f",
			minDelayTimeSeconds, maxDelayTimeSeconds, seconds)
	}
	n := min(max(int(math.Round(seconds*d.cfg.SampleRate)), 1), d.line.MaxDelay())
	if d.stale && n > d.fresh {
		d.line.ClearBuffers()
		d.stale = false
	}
	d.delaySeconds = seconds
	d.line.SetDelay(n)
	return nil
}

// SetFeedback sets feedback amount in [0, 0.99].
func (d *Delay) SetFeedback(feedback float64) error {
	if feedback < 0 || feedback > 0.99 || math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return fmt.Errorf("delay feedback must be in [0, 0.99]: %f", feedback)
	}
	d.feedback = feedback
	return nil
}

// SetMix sets wet amount in [0, 1].
func (d *Delay) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("delay mix must be in [0, 1]: %f", mix)
	}
	d.mix = mix
	return nil
}

// Reset silences the echo. Only the slots the current delay will read are
// cleared.
func (d *Delay) Reset() {
	d.line.ClearBuffersQuick()
	d.stale = true
	d.fresh = d.line.Delay()
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(input float64) float64 {
	delayed := d.line.ReadAt(d.line.Delay())
	d.line.WriteSample(core.FlushDenormals(input + delayed*d.feedback))
	d.line.Step(1)
	d.track(1)
	return input*(1-d.mix) + delayed*d.mix
}

// ProcessInPlace applies the delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float64) {
	for pos := 0; pos < len(buf); {
		n := min(len(buf)-pos, d.line.Delay(), len(d.scratch))
		wet := d.scratch[:n]
		d.line.ReadBlock(wet)
		for i, x := range buf[pos : pos+n] {
			delayed := wet[i]
			wet[i] = core.FlushDenormals(x + delayed*d.feedback)
			buf[pos+i] = x*(1-d.mix) + delayed*d.mix
		}
		d.line.PushBlock(wet)
		d.track(n)
		pos += n
	}
}

// SampleRate returns sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.cfg.SampleRate }

// Time returns delay time in seconds.
func (d *Delay) Time() float64 { return d.delaySeconds }

// DelaySamples returns the delay rounded to whole samples.
func (d *Delay) DelaySamples() int { return d.line.Delay() }

// Feedback returns feedback amount in [0, 0.99].
func (d *Delay) Feedback() float64 { return d.feedback }

// Mix returns wet amount in [0, 1].
func (d *Delay) Mix() float64 { return d.mix }

func (d *Delay) track(n int) {
	if !d.stale {
		return
	}
	d.fresh += n
	if d.fresh >= d.line.MaxDelay() {
		d.stale = false
	}
}
