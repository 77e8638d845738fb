package fx

import (
	"testing"

	"github.com/cwbudde/algo-ring/dsp/core"
	"github.com/cwbudde/algo-ring/internal/preset"
	"github.com/cwbudde/algo-ring/internal/testutil"
	"github.com/cwbudde/algo-ring/stats/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(sampleRate float64, block int) core.ProcessorConfig {
	return core.ApplyProcessorOptions(core.WithSampleRate(sampleRate), core.WithMaxBlockLen(block))
}

func delayPreset() *preset.Preset {
	p := preset.Default()
	p.Effect = preset.EffectDelay
	p.Delay = preset.DelayConfig{TimeMs: 1, Feedback: 0.5, Mix: 0.5}
	return &p
}

func TestDelayEchoes(t *testing.T) {
	eff, err := New(delayPreset(), config(8000, 16))
	require.NoError(t, err)
	assert.Equal(t, 0, eff.Latency())

	out := Run(eff, testutil.Impulse(40, 0), 3, true)
	require.Len(t, out, 40)

	want := make([]float64, 40)
	want[0], want[8], want[16], want[24], want[32] = 0.5, 0.5, 0.25, 0.125, 0.0625
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-12)
}

func TestFixedBlockMatchesHostBlocks(t *testing.T) {
	in := testutil.DeterministicNoise(5, 0.5, 500)

	plain, err := New(delayPreset(), config(8000, 64))
	require.NoError(t, err)
	want := Run(plain, in, 37, true)

	p := delayPreset()
	p.FixedBlock = 5
	fixed, err := New(p, config(8000, 64))
	require.NoError(t, err)
	assert.Equal(t, 5, fixed.Latency())

	got := Run(fixed, in, 37, true)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	fixed.Reset()
	untrimmed := Run(fixed, in, 37, false)
	assert.Equal(t, make([]float64, 5), untrimmed[:5])
	testutil.RequireSliceNearlyEqual(t, untrimmed[5:], want[:len(want)-5], 1e-12)
}

func TestSpectralTrimAlignsOutput(t *testing.T) {
	p := preset.Default()
	p.Effect = preset.EffectFreeze
	p.STFT = preset.STFTConfig{FrameSize: 64, Hop: 16, Window: "hann"}
	p.Freeze.AfterMs = 1e6

	eff, err := New(&p, config(8000, 32))
	require.NoError(t, err)
	require.Equal(t, 64, eff.Latency())

	in := testutil.DeterministicNoise(11, 1, 1000)
	out := Run(eff, in, 32, true)
	require.Len(t, out, len(in))
	testutil.RequireSliceNearlyEqual(t, out[64:], in[64:], 1e-9)
}

func TestFreezeSustainsAfterInputStops(t *testing.T) {
	p := preset.Default()
	p.Effect = preset.EffectFreeze
	p.STFT = preset.STFTConfig{FrameSize: 256, Hop: 64, Window: "hann"}
	p.Freeze = preset.FreezeConfig{AfterMs: 100, Phase: "hold"}

	eff, err := New(&p, config(8000, 128))
	require.NoError(t, err)

	// 1 s of input: tone for the first half, silence after.
	in := make([]float64, 8000)
	copy(in, testutil.DeterministicSine(500, 8000, 0.5, 4000))
	out := Run(eff, in, 128, true)

	tail := level.Calculate(out[6000:])
	assert.Greater(t, tail.RMS, 0.05, "frozen spectrum should keep sounding")
}

func TestCrusherKeepsLength(t *testing.T) {
	p := preset.Default()
	p.Effect = preset.EffectCrusher
	p.STFT = preset.STFTConfig{FrameSize: 128, Hop: 32, Window: "hann"}
	p.Crusher = preset.CrusherConfig{Levels: 16, Stride: 1}
	p.FixedBlock = 100

	eff, err := New(&p, config(8000, 64))
	require.NoError(t, err)
	assert.Equal(t, 228, eff.Latency())

	in := testutil.DeterministicSine(440, 8000, 0.5, 2000)
	out := Run(eff, in, 64, true)
	require.Len(t, out, len(in))
	testutil.RequireFinite(t, out)
	assert.Greater(t, level.Calculate(out[500:]).RMS, 0.1)
}

func TestPitchAndChorusBuild(t *testing.T) {
	for _, name := range []string{preset.EffectPitch, preset.EffectChorus, preset.EffectFlanger} {
		p := preset.Default()
		p.Effect = name
		p.Pitch.Semitones = 7
		eff, err := New(&p, config(44100, 256))
		require.NoError(t, err, name)

		in := testutil.DeterministicSine(220, 44100, 0.5, 4096)
		out := Run(eff, in, 256, true)
		require.Len(t, out, len(in))
		testutil.RequireFinite(t, out)
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*preset.Preset)
	}{
		{"unknown effect", func(p *preset.Preset) { p.Effect = "wah" }},
		{"delay too long", func(p *preset.Preset) { p.Delay.TimeMs = 10000 }},
		{"chorus too deep", func(p *preset.Preset) {
			p.Effect = preset.EffectChorus
			p.Chorus.BaseMs = 90
			p.Chorus.DepthMs = 20
		}},
		{"flanger too long", func(p *preset.Preset) {
			p.Effect = preset.EffectFlanger
			p.Flanger.BaseMs = 9
			p.Flanger.DepthMs = 2
		}},
		{"pitch too far", func(p *preset.Preset) { p.Effect = preset.EffectPitch; p.Pitch.Semitones = 48 }},
		{"crusher one level", func(p *preset.Preset) { p.Effect = preset.EffectCrusher; p.Crusher.Levels = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := preset.Default()
			tt.mutate(&p)
			_, err := New(&p, config(44100, 256))
			require.Error(t, err)
		})
	}
}

func TestChorusAcceptsLongBaseWithSmallDepth(t *testing.T) {
	p := preset.Default()
	p.Effect = preset.EffectChorus
	p.Chorus.BaseMs = 98
	p.Chorus.DepthMs = 1
	_, err := New(&p, config(44100, 256))
	require.NoError(t, err)
}
