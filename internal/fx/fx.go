// Package fx builds single-channel effect instances from a preset.
package fx

import (
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/core"
	"github.com/cwbudde/algo-ring/dsp/effects"
	"github.com/cwbudde/algo-ring/dsp/effects/modulation"
	"github.com/cwbudde/algo-ring/dsp/effects/pitch"
	"github.com/cwbudde/algo-ring/dsp/rebuffer"
	"github.com/cwbudde/algo-ring/dsp/spectral"
	"github.com/cwbudde/algo-ring/internal/preset"
)

// Effect processes one channel in place.
type Effect interface {
	Process(buf []float64)
	// Latency is the delay in samples the effect adds to the dry signal.
	Latency() int
	Reset()
}

// New returns one effect instance for p at the given configuration. When
// p.FixedBlock > 0 the effect runs behind a rebuffer.Adapter and the
// adapter latency is included in Latency.
func New(p *preset.Preset, cfg core.ProcessorConfig) (Effect, error) {
	if p.FixedBlock > 0 {
		cfg.MaxBlockLen = p.FixedBlock
	}

	eff, err := build(p, cfg)
	if err != nil {
		return nil, err
	}

	if p.FixedBlock == 0 {
		return eff, nil
	}
	return newFixed(eff, p.FixedBlock)
}

func build(p *preset.Preset, cfg core.ProcessorConfig) (Effect, error) {
	switch p.Effect {
	case preset.EffectDelay:
		return newDelay(p.Delay, cfg)
	case preset.EffectChorus:
		return newChorus(p.Chorus, cfg)
	case preset.EffectFlanger:
		return newFlanger(p.Flanger, cfg)
	case preset.EffectPitch:
		return newPitch(p.Pitch, cfg)
	case preset.EffectFreeze:
		return newFreeze(p, cfg)
	case preset.EffectCrusher:
		return newCrusher(p)
	default:
		return nil, fmt.Errorf("%w: %q", preset.ErrUnknownEffect, p.Effect)
	}
}

type inPlace interface {
	ProcessInPlace(buf []float64)
	Reset()
}

// zeroLatency adapts the time-domain effects, which have no lookahead.
type zeroLatency struct{ inPlace }

func (z zeroLatency) Process(buf []float64) { z.ProcessInPlace(buf) }
func (zeroLatency) Latency() int { return 0 }

func newDelay(c preset.DelayConfig, cfg core.ProcessorConfig) (Effect, error) {
	d, err := effects.NewDelay(cfg)
	if err != nil {
		return nil, err
	}

	err = d.SetTime(c.TimeMs / 1000)
	if err != nil {
		return nil, err
	}

	err = d.SetFeedback(c.Feedback)
	if err != nil {
		return nil, err
	}

	err = d.SetMix(c.Mix)
	if err != nil {
		return nil, err
	}

	return zeroLatency{d}, nil
}

func newChorus(c preset.ChorusConfig, cfg core.ProcessorConfig) (Effect, error) {
	ch, err := modulation.NewChorus()
	if err != nil {
		return nil, err
	}

	for _, set := range []func() error{
		func() error { return ch.SetSampleRate(cfg.SampleRate) },
		func() error { return ch.SetSpeedHz(c.SpeedHz) },
		func() error { return ch.SetDepth(0) },
		func() error { return ch.SetBaseDelay(c.BaseMs / 1000) },
		func() error { return ch.SetDepth(c.DepthMs / 1000) },
		func() error { return ch.SetStages(c.Voices) },
		func() error { return ch.SetMix(c.Mix) },
	} {
		err = set()
		if err != nil {
			return nil, err
		}
	}
	return zeroLatency{ch}, nil
}

func newFlanger(c preset.FlangerConfig, cfg core.ProcessorConfig) (Effect, error) {
	f, err := modulation.NewFlanger(cfg.SampleRate,
		modulation.WithFlangerRateHz(c.RateHz),
		modulation.WithFlangerBaseDelaySeconds(c.BaseMs/1000),
		modulation.WithFlangerDepthSeconds(c.DepthMs/1000),
		modulation.WithFlangerFeedback(c.Feedback),
		modulation.WithFlangerMix(c.Mix),
	)
	if err != nil {
		return nil, err
	}
	return zeroLatency{f}, nil
}

type pitchEffect struct{ *pitch.Shifter }

func (p pitchEffect) Process(buf []float64) { p.ProcessInPlace(buf) }

func newPitch(c preset.PitchConfig, cfg core.ProcessorConfig) (Effect, error) {
	s, err := pitch.NewShifter(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	err = s.SetWindow(c.WindowMs)
	if err != nil {
		return nil, err
	}

	err = s.SetPitchSemitones(c.Semitones)
	if err != nil {
		return nil, err
	}

	return pitchEffect{s}, nil
}

// freezeEffect engages the freeze once afterSamples input samples have passed.
type freezeEffect struct {
	*spectral.Processor
	kernel       *spectral.Freeze
	afterSamples int
	seen         int
}

func newFreeze(p *preset.Preset, cfg core.ProcessorConfig) (Effect, error) {
	mode, err := p.Freeze.PhaseMode()
	if err != nil {
		return nil, err
	}

	winType, err := p.STFT.WindowType()
	if err != nil {
		return nil, err
	}

	kernel, err := spectral.NewFreeze(p.STFT.FrameSize, p.STFT.Hop, mode)
	if err != nil {
		return nil, err
	}

	proc, err := spectral.NewProcessor(p.STFT.FrameSize, p.STFT.Hop, winType, kernel)
	if err != nil {
		return nil, err
	}

	return &freezeEffect{
		Processor:    proc,
		kernel:       kernel,
		afterSamples: cfg.MsToSamples(p.Freeze.AfterMs),
	}, nil
}

func (f *freezeEffect) Process(buf []float64) {
	if !f.kernel.Frozen() && f.seen+len(buf) > f.afterSamples {
		split := max(f.afterSamples-f.seen, 0)
		f.Processor.Process(buf[:split])
		f.kernel.SetFrozen(true)
		f.Processor.Process(buf[split:])
	} else {
		f.Processor.Process(buf)
	}
	f.seen += len(buf)
}

func (f *freezeEffect) Reset() {
	f.Processor.Reset()
	f.kernel.Reset()
	f.seen = 0
}

func newCrusher(p *preset.Preset) (Effect, error) {
	winType, err := p.STFT.WindowType()
	if err != nil {
		return nil, err
	}

	kernel, err := spectral.NewCrusher(p.Crusher.Levels, p.Crusher.Stride)
	if err != nil {
		return nil, err
	}

	proc, err := spectral.NewProcessor(p.STFT.FrameSize, p.STFT.Hop, winType, kernel)
	if err != nil {
		return nil, err
	}

	return proc, nil
}

// fixed runs an effect in constant-size blocks whatever the host block size.
type fixed struct {
	inner   Effect
	adapter *rebuffer.Adapter[float64]
}

func newFixed(inner Effect, blockSize int) (Effect, error) {
	a, err := rebuffer.New(blockSize, inner.Process)
	if err != nil {
		return nil, err
	}

	return &fixed{inner: inner, adapter: a}, nil
}

func (f *fixed) Process(buf []float64) { f.adapter.Process(buf) }
func (f *fixed) Latency() int { return f.inner.Latency() + f.adapter.Latency() }

func (f *fixed) Reset() {
	f.inner.Reset()
	f.adapter.Reset()
}

// Run processes src through eff in blocks of blockSize and returns a new
// slice of the same length. With trim set, the effect latency is removed:
// the input is padded with Latency() zeros and the first Latency() output
// samples are dropped.
func Run(eff Effect, src []float64, blockSize int, trim bool) []float64 {
	lat := 0
	if trim {
		lat = eff.Latency()
	}
	buf := make([]float64, len(src)+lat)
	copy(buf, src)
	for pos := 0; pos < len(buf); pos += blockSize {
		eff.Process(buf[pos:min(pos+blockSize, len(buf))])
	}
	return buf[lat:]
}
