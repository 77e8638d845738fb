// Package preset loads effect settings for the ringfx command from YAML.
package preset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/algo-ring/dsp/ringbuf"
	"github.com/cwbudde/algo-ring/dsp/spectral"
	"github.com/cwbudde/algo-ring/dsp/window"
	"gopkg.in/yaml.v3"
)

// Effect names accepted in presets and on the command line.
const (
	EffectDelay   = "delay"
	EffectChorus  = "chorus"
	EffectFlanger = "flanger"
	EffectPitch   = "pitch"
	EffectFreeze  = "freeze"
	EffectCrusher = "crusher"
)

// ErrUnknownEffect is returned for an effect name outside Effects().
var ErrUnknownEffect = errors.New("preset: unknown effect")

// Effects returns the supported effect names.
func Effects() []string {
	return []string{EffectDelay, EffectChorus, EffectFlanger, EffectPitch, EffectFreeze, EffectCrusher}
}

// Preset is the complete processing setup for one run.
type Preset struct {
	Effect     string `yaml:"effect"`      // One of Effects().
	BlockSize  int    `yaml:"block_size"`  // Host block length fed to the effect chain.
	FixedBlock int    `yaml:"fixed_block"` // Run the effect in blocks of exactly this size; 0 disables.
	// Drop the processing latency from the start of the output.
	TrimLatency bool `yaml:"trim_latency"`

	Delay   DelayConfig   `yaml:"delay"`
	Chorus  ChorusConfig  `yaml:"chorus"`
	Flanger FlangerConfig `yaml:"flanger"`
	Pitch   PitchConfig   `yaml:"pitch"`
	STFT    STFTConfig    `yaml:"stft"`
	Freeze  FreezeConfig  `yaml:"freeze"`
	Crusher CrusherConfig `yaml:"crusher"`
}

// DelayConfig holds feedback delay settings.
type DelayConfig struct {
	TimeMs   float64 `yaml:"time_ms"`
	Feedback float64 `yaml:"feedback"`
	Mix      float64 `yaml:"mix"`
}

// ChorusConfig holds chorus settings.
type ChorusConfig struct {
	SpeedHz float64 `yaml:"speed_hz"`
	DepthMs float64 `yaml:"depth_ms"`
	BaseMs  float64 `yaml:"base_ms"`
	Mix     float64 `yaml:"mix"`
	Voices  int     `yaml:"voices"`
}

// FlangerConfig holds flanger settings.
type FlangerConfig struct {
	RateHz   float64 `yaml:"rate_hz"`
	DepthMs  float64 `yaml:"depth_ms"`
	BaseMs   float64 `yaml:"base_ms"`
	Feedback float64 `yaml:"feedback"`
	Mix      float64 `yaml:"mix"`
}

// PitchConfig holds pitch shifter settings.
type PitchConfig struct {
	Semitones float64 `yaml:"semitones"`
	WindowMs  float64 `yaml:"window_ms"`
}

// STFTConfig holds the framing shared by the spectral effects.
type STFTConfig struct {
	FrameSize int    `yaml:"frame_size"`
	Hop       int    `yaml:"hop"`
	Window    string `yaml:"window"`
}

// FreezeConfig holds spectral freeze settings.
type FreezeConfig struct {
	AfterMs float64 `yaml:"after_ms"` // Freeze once this much audio has passed.
	Phase   string  `yaml:"phase"`    // "hold" or "advance".
}

// CrusherConfig holds spectral crusher settings.
type CrusherConfig struct {
	Levels int `yaml:"levels"`
	Stride int `yaml:"stride"`
}

// Default returns the built-in preset.
func Default() Preset {
	return Preset{
		Effect:      EffectDelay,
		BlockSize:   256,
		TrimLatency: true,
		Delay: DelayConfig{
			TimeMs:   250,
			Feedback: 0.35,
			Mix:      0.25,
		},
		Chorus: ChorusConfig{
			SpeedHz: 0.35,
			DepthMs: 3,
			BaseMs:  18,
			Mix:     0.5,
			Voices:  3,
		},
		Flanger: FlangerConfig{
			RateHz:   0.25,
			DepthMs:  1.5,
			BaseMs:   1,
			Feedback: 0.25,
			Mix:      0.5,
		},
		Pitch: PitchConfig{
			Semitones: 0,
			WindowMs:  50,
		},
		STFT: STFTConfig{
			FrameSize: 1024,
			Hop:       256,
			Window:    "hann",
		},
		Freeze: FreezeConfig{
			AfterMs: 500,
			Phase:   "advance",
		},
		Crusher: CrusherConfig{
			Levels: 16,
			Stride: 4,
		},
	}
}

// Load reads a preset from path on top of Default(). An empty path returns
// the defaults. The result is validated.
func Load(path string) (*Preset, error) {
	p := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read preset file: %w", err)
		}

		err = yaml.Unmarshal(data, &p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse preset file: %w", err)
		}
	}
	p.Effect = strings.ToLower(strings.TrimSpace(p.Effect))

	err := p.Validate()
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the fields used by the selected effect.
func (p *Preset) Validate() error {
	if p.BlockSize < 1 {
		return fmt.Errorf("block_size must be > 0: %d", p.BlockSize)
	}
	if p.FixedBlock < 0 {
		return fmt.Errorf("fixed_block must be >= 0: %d", p.FixedBlock)
	}

	switch p.Effect {
	case EffectDelay:
		return p.Delay.validate()
	case EffectChorus:
		return p.Chorus.validate()
	case EffectFlanger:
		return p.Flanger.validate()
	case EffectPitch:
		return p.Pitch.validate()
	case EffectFreeze:
		if p.Freeze.AfterMs < 0 {
			return fmt.Errorf("freeze.after_ms must be >= 0: %f", p.Freeze.AfterMs)
		}

		_, err := p.Freeze.PhaseMode()
		if err != nil {
			return err
		}

		return p.STFT.validate()
	case EffectCrusher:
		if p.Crusher.Levels < 2 {
			return fmt.Errorf("crusher.levels must be >= 2: %d", p.Crusher.Levels)
		}
		if p.Crusher.Stride < 1 {
			return fmt.Errorf("crusher.stride must be >= 1: %d", p.Crusher.Stride)
		}

		return p.STFT.validate()
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownEffect, p.Effect, strings.Join(Effects(), ", "))
	}
}

// checkRange reports the first value outside its closed range. NaN never
// passes.
func checkRange(checks ...rangeCheck) error {
	for _, c := range checks {
		if !(c.v >= c.lo && c.v <= c.hi) {
			return fmt.Errorf("%s must be in [%g, %g]: %g", c.name, c.lo, c.hi, c.v)
		}
	}
	return nil
}

type rangeCheck struct {
	name      string
	v, lo, hi float64
}

func (c DelayConfig) validate() error {
	return checkRange(
		rangeCheck{"delay.time_ms", c.TimeMs, 1, 2000},
		rangeCheck{"delay.feedback", c.Feedback, 0, 0.99},
		rangeCheck{"delay.mix", c.Mix, 0, 1},
	)
}

func (c ChorusConfig) validate() error {
	if c.Voices < 1 {
		return fmt.Errorf("chorus.voices must be > 0: %d", c.Voices)
	}

	return checkRange(
		rangeCheck{"chorus.speed_hz", c.SpeedHz, math.SmallestNonzeroFloat64, math.MaxFloat64},
		rangeCheck{"chorus.base_ms", c.BaseMs, 1, 100},
		rangeCheck{"chorus.depth_ms", c.DepthMs, 0, 100 - c.BaseMs},
		rangeCheck{"chorus.mix", c.Mix, 0, 1},
	)
}

func (c FlangerConfig) validate() error {
	return checkRange(
		rangeCheck{"flanger.rate_hz", c.RateHz, math.SmallestNonzeroFloat64, math.MaxFloat64},
		rangeCheck{"flanger.base_ms", c.BaseMs, 0.1, 10},
		rangeCheck{"flanger.depth_ms", c.DepthMs, 0, 10 - c.BaseMs},
		rangeCheck{"flanger.feedback", c.Feedback, -0.99, 0.99},
		rangeCheck{"flanger.mix", c.Mix, 0, 1},
	)
}

func (c PitchConfig) validate() error {
	return checkRange(
		rangeCheck{"pitch.semitones", c.Semitones, -24, 24},
		rangeCheck{"pitch.window_ms", c.WindowMs, 5, 200},
	)
}

// WindowType resolves the configured window name.
func (c STFTConfig) WindowType() (window.Type, error) {
	return window.ParseType(c.Window)
}

func (c STFTConfig) validate() error {
	if !ringbuf.IsPowerOfTwo(c.FrameSize) {
		return fmt.Errorf("stft.frame_size must be a power of two: %d", c.FrameSize)
	}
	if c.Hop < 1 || c.Hop > c.FrameSize {
		return fmt.Errorf("stft.hop must be in [1, %d]: %d", c.FrameSize, c.Hop)
	}
	_, err := c.WindowType()
	return err
}

// PhaseMode resolves the configured phase strategy.
func (c FreezeConfig) PhaseMode() (spectral.PhaseMode, error) {
	switch strings.ToLower(c.Phase) {
	case "hold":
		return spectral.PhaseHold, nil
	case "advance", "":
		return spectral.PhaseAdvance, nil
	default:
		return 0, fmt.Errorf("freeze.phase must be hold or advance: %q", c.Phase)
	}
}
