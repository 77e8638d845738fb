package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ring/dsp/delay"
)

const (
	defaultChorusSampleRate   = 44100.0
	defaultChorusSpeedHz      = 0.35
	defaultChorusDepthSeconds = 0.003
	defaultChorusBaseSeconds  = 0.018
	defaultChorusMix          = 0.18
	defaultChorusStages       = 3
	minChorusDelaySeconds     = 0.001
	maxChorusDelaySeconds     = 0.1
)

// Chorus is a standard multi-voice modulated-delay chorus effect.
//
// Delay time follows:
//
//	d(t) = baseDelay + depth * 0.5 * (1 + sin(phase + voiceOffset))
//
// with independent base delay, depth, and LFO rate controls. baseDelay+depth
// is limited to 100 ms.
type Chorus struct {
	sampleRate       float64
	speedHz          float64
	depthSeconds     float64
	baseDelaySeconds float64
	mix              float64
	stages           int

	lfoPhase float64
	line     *delay.Line[float64]
}

// NewChorus creates a chorus effect with tuned musical defaults.
func NewChorus() (*Chorus, error) {
	c := &Chorus{
		speedHz:          defaultChorusSpeedHz,
		depthSeconds:     defaultChorusDepthSeconds,
		baseDelaySeconds: defaultChorusBaseSeconds,
		mix:              defaultChorusMix,
		stages:           defaultChorusStages,
		line:             &delay.Line[float64]{},
	}

	err := c.SetSampleRate(defaultChorusSampleRate)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// SetSampleRate updates sample rate. The delay history is cleared.
func (c *Chorus) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("chorus sample rate must be > 0: %f", sampleRate)
	}
	maxDelay := int(math.Ceil(maxChorusDelaySeconds * sampleRate))

	err := c.line.Setup(maxDelay+2, 1)
	if err != nil {
		return err
	}

	c.sampleRate = sampleRate
	return nil
}

// SetSpeedHz updates LFO modulation rate.
func (c *Chorus) SetSpeedHz(speedHz float64) error {
	if speedHz <= 0 || math.IsNaN(speedHz) || math.IsInf(speedHz, 0) {
		return fmt.Errorf("chorus speed must be > 0: %f", speedHz)
	}
	c.speedHz = speedHz
	return nil
}

// SetDepth updates modulation depth in seconds.
func (c *Chorus) SetDepth(depth float64) error {
	if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("chorus depth must be >= 0 and finite: %f", depth)
	}
	if c.baseDelaySeconds+depth > maxChorusDelaySeconds {
		return fmt.Errorf("chorus base delay + depth must be <= %f: %f", maxChorusDelaySeconds, c.baseDelaySeconds+depth)
	}
	c.depthSeconds = depth
	return nil
}

// SetBaseDelay sets the base delay in seconds.
func (c *Chorus) SetBaseDelay(baseDelay float64) error {
	if baseDelay < minChorusDelaySeconds || math.IsNaN(baseDelay) || math.IsInf(baseDelay, 0) {
		return fmt.Errorf("chorus base delay must be >= %f: %f", minChorusDelaySeconds, baseDelay)
	}
	if baseDelay+c.depthSeconds > maxChorusDelaySeconds {
		return fmt.Errorf("chorus base delay + depth must be <= %f: %f", maxChorusDelaySeconds, baseDelay+c.depthSeconds)
	}
	c.baseDelaySeconds = baseDelay
	return nil
}

// SetStages updates the number of chorus voices.
func (c *Chorus) SetStages(stages int) error {
	if stages <= 0 {
		return fmt.Errorf("chorus stages must be > 0: %d", stages)
	}
	c.stages = stages
	return nil
}

// SetMix updates wet amount in range [0, 1].
func (c *Chorus) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("chorus mix must be in [0,1]: %f", mix)
	}
	c.mix = mix
	return nil
}

// Reset clears delay state and modulation phase.
func (c *Chorus) Reset() {
	c.line.ClearBuffers()
	c.lfoPhase = 0
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	c.line.WriteSample(input)

	baseDelaySamples := c.baseDelaySeconds * c.sampleRate
	depthSamples := c.depthSeconds * c.sampleRate

	wetSum := 0.0
	stageCount := float64(c.stages)
	for i := 0; i < c.stages; i++ {
		phaseOffset := (2 * math.Pi * float64(i)) / stageCount
		mod := 0.5 * (1 + math.Sin(c.lfoPhase+phaseOffset)) // 0..1
		wetSum += c.line.ReadFractional(baseDelaySamples + depthSamples*mod)
	}
	wet := wetSum / stageCount
	c.line.Step(1)

	c.lfoPhase += 2 * math.Pi * c.speedHz / c.sampleRate
	if c.lfoPhase >= 2*math.Pi {
		c.lfoPhase -= 2 * math.Pi
	}

	return input*(1-c.mix) + wet*c.mix
}

// ProcessInPlace applies chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// SampleRate returns sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

// SpeedHz returns modulation speed in Hz.
func (c *Chorus) SpeedHz() float64 { return c.speedHz }

// Depth returns modulation depth in seconds.
func (c *Chorus) Depth() float64 { return c.depthSeconds }

// BaseDelay returns the base delay in seconds.
func (c *Chorus) BaseDelay() float64 { return c.baseDelaySeconds }

// Mix returns wet mix amount in [0, 1].
func (c *Chorus) Mix() float64 { return c.mix }

// Stages returns number of chorus voices.
func (c *Chorus) Stages() int { return c.stages }
