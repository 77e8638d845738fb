// Package core holds the configuration and numeric helpers shared by the
// processors built on the ring-buffer primitives.
package core

// ProcessorConfig carries the stream parameters a processor is prepared for.
// MaxBlockLen bounds the host block length and sizes delay lines.
type ProcessorConfig struct {
	SampleRate  float64
	MaxBlockLen int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with 1024-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:  48000,
		MaxBlockLen: 1024,
	}
}

// WithSampleRate sets the processing sample rate. Non-positive values are
// ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockLen sets the largest block the host will pass. Values < 1 are
// ignored.
func WithMaxBlockLen(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.MaxBlockLen = n
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// MsToSamples converts a duration in milliseconds to the nearest whole
// number of samples, never negative.
func (c ProcessorConfig) MsToSamples(ms float64) int {
	n := int(ms*c.SampleRate/1000 + 0.5)
	return max(n, 0)
}

// SamplesToMs converts a sample count to milliseconds.
func (c ProcessorConfig) SamplesToMs(n int) float64 {
	return float64(n) * 1000 / c.SampleRate
}
