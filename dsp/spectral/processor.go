package spectral

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-ring/dsp/frame"
	"github.com/cwbudde/algo-ring/dsp/ringbuf"
	"github.com/cwbudde/algo-ring/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const minFrameSize = 16

// ErrInvalidFrameSize is returned for a frame size that is not a power of two
// of at least 16.
var ErrInvalidFrameSize = errors.New("spectral: frame size must be a power of two >= 16")

// FrameProcessor modifies one spectrum in place. bins holds frameSize/2+1
// values from DC to Nyquist; the negative frequencies are rebuilt from them.
type FrameProcessor interface {
	ProcessFrame(bins []complex128)
}

// FrameProcessorFunc adapts a function to FrameProcessor.
type FrameProcessorFunc func(bins []complex128)

// ProcessFrame calls f(bins).
func (f FrameProcessorFunc) ProcessFrame(bins []complex128) { f(bins) }

// Option configures a Processor.
type Option func(*options)

type options struct {
	offset int
}

// WithOffset shifts the frame boundaries by offset samples in [0, hop).
// Channels with different offsets spread their FFT load across blocks.
func WithOffset(offset int) Option {
	return func(o *options) {
		o.offset = offset
	}
}

// Processor is a mono STFT engine with latency FrameSize().
//
// It is not safe for concurrent use.
type Processor struct {
	ana    *frame.Analyzer[float64]
	syn    *frame.Synthesizer[float64]
	plan   *algofft.Plan[complex128]
	kernel FrameProcessor
	win    []float64
	scale  float64
	buf    []float64
	spec   []complex128
}

// NewProcessor returns a Processor applying kernel to every frame. The window
// is used for analysis and synthesis in its periodic form.
func NewProcessor(frameSize, hop int, winType window.Type, kernel FrameProcessor, opts ...Option) (*Processor, error) {
	if frameSize < minFrameSize || !ringbuf.IsPowerOfTwo(frameSize) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameSize, frameSize)
	}
	if kernel == nil {
		return nil, errors.New("spectral: kernel must not be nil")
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ana, err := frame.NewAnalyzer[float64](frameSize, hop, o.offset)
	if err != nil {
		return nil, err
	}

	syn, err := frame.NewSynthesizer[float64](frameSize, hop, o.offset)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return nil, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}

	win, err := window.Generate(winType, frameSize, window.WithPeriodic())
	if err != nil {
		return nil, err
	}

	gain, err := window.OverlapGain(win, hop)
	if err != nil {
		return nil, err
	}

	if gain == 0 {
		return nil, fmt.Errorf("spectral: window %s has zero overlap gain", winType)
	}

	return &Processor{
		ana:    ana,
		syn:    syn,
		plan:   plan,
		kernel: kernel,
		win:    win,
		scale:  1 / gain,
		buf:    make([]float64, frameSize),
		spec:   make([]complex128, frameSize),
	}, nil
}

// FrameSize returns the FFT length.
func (p *Processor) FrameSize() int { return len(p.win) }

// HopSize returns the distance between frames.
func (p *Processor) HopSize() int { return p.ana.HopSize() }

// Latency returns the delay between input and output in samples.
func (p *Processor) Latency() int { return len(p.win) }

// ProcessBlock reads src and writes the processed stream to dst. dst and src
// may be the same slice.
func (p *Processor) ProcessBlock(dst, src []float64) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("spectral: dst length %d != src length %d", len(dst), len(src)))
	}
	for pos := 0; pos < len(src); {
		k := min(len(src)-pos, p.ana.LenBeforeNextFrame())
		ready := p.ana.ProcessBlock(src[pos : pos+k])
		p.syn.ProcessBlock(dst[pos : pos+k])
		if ready {
			p.processFrame()
		}
		pos += k
	}
}

// Process runs ProcessBlock in place.
func (p *Processor) Process(buf []float64) {
	p.ProcessBlock(buf, buf)
}

// Reset clears the framing state. The kernel is not reset.
func (p *Processor) Reset() {
	p.ana.ClearBuffers()
	p.syn.ClearBuffers()
}

func (p *Processor) processFrame() {
	n := len(p.buf)
	half := n / 2

	p.ana.GetFrame(p.buf)
	vecmath.MulBlockInPlace(p.buf, p.win)
	for i, x := range p.buf {
		p.spec[i] = complex(x, 0)
	}

	err := p.plan.Forward(p.spec, p.spec)
	if err != nil {
		panic(fmt.Sprintf("spectral: forward FFT: %v", err))
	}

	p.kernel.ProcessFrame(p.spec[:half+1])

	p.spec[0] = complex(real(p.spec[0]), 0)
	p.spec[half] = complex(real(p.spec[half]), 0)
	for k := 1; k < half; k++ {
		v := p.spec[k]
		p.spec[n-k] = complex(real(v), -imag(v))
	}

	err = p.plan.Inverse(p.spec, p.spec)
	if err != nil {
		panic(fmt.Sprintf("spectral: inverse FFT: %v", err))
	}

	for i, v := range p.spec {
		p.buf[i] = real(v)
	}
	vecmath.MulBlockInPlace(p.buf, p.win)
	vecmath.ScaleBlockInPlace(p.buf, p.scale)
	p.syn.SetFrame(p.buf)
}
