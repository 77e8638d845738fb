package frame

import (
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/ringbuf"
	"github.com/cwbudde/algo-vecmath"
)

// Synthesizer accumulates overlapping frames and plays them out as a
// continuous stream.
//
// Each output cell is cleared as soon as it is read, so SetFrame only ever
// adds to contributions that have not been played yet.
type Synthesizer[T ringbuf.Sample] struct {
	buf       []T
	mask      int
	readPos   int
	frameSize int
	hop       int
	offset    int
	lenBefore int
	required  bool
	vec       ringbuf.Vectorizer
}

// NewSynthesizer returns a Synthesizer for the given geometry. Use the same
// values as the paired Analyzer.
func NewSynthesizer[T ringbuf.Sample](frameSize, hop, offset int) (*Synthesizer[T], error) {
	s := &Synthesizer[T]{}

	err := s.Setup(frameSize, hop, offset)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Setup reconfigures the geometry and clears pending output.
func (s *Synthesizer[T]) Setup(frameSize, hop, offset int) error {
	err := validateGeometry(frameSize, hop, offset)
	if err != nil {
		return err
	}

	size := ringbuf.NextPowerOfTwo(frameSize + hop)
	if size != len(s.buf) {
		s.buf = make([]T, size)
	}
	s.mask = size - 1
	s.frameSize = frameSize
	s.hop = hop
	s.offset = offset
	s.vec.SetSize(size)
	s.ClearBuffers()
	return nil
}

// FrameSize returns the frame length.
func (s *Synthesizer[T]) FrameSize() int { return s.frameSize }

// HopSize returns the distance between frame boundaries.
func (s *Synthesizer[T]) HopSize() int { return s.hop }

// Offset returns the configured phase offset.
func (s *Synthesizer[T]) Offset() int { return s.offset }

// LenBeforeNextFrame returns the number of samples to play before the next
// frame is required, in [1, hop].
func (s *Synthesizer[T]) LenBeforeNextFrame() int { return s.lenBefore }

// IsFrameProcRequired reports whether a boundary was reached and SetFrame
// has not been called yet.
func (s *Synthesizer[T]) IsFrameProcRequired() bool { return s.required }

// ProcessSample plays one sample.
func (s *Synthesizer[T]) ProcessSample() T {
	s.checkNotRequired()
	y := s.buf[s.readPos]
	s.buf[s.readPos] = 0
	s.readPos = (s.readPos + 1) & s.mask
	s.advance(1)
	return y
}

// ProcessBlock plays len(dst) samples into dst and reports whether a frame is
// now required. len(dst) must not exceed LenBeforeNextFrame().
func (s *Synthesizer[T]) ProcessBlock(dst []T) bool {
	s.checkNotRequired()
	if len(dst) > s.lenBefore {
		panic(fmt.Sprintf("frame: block length %d crosses frame boundary in %d", len(dst), s.lenBefore))
	}
	for s.vec.Start(len(dst), s.readPos); !s.vec.End(); s.vec.Next() {
		off := s.vec.Offset()
		seg := s.vec.SegLen()
		pos := s.vec.CursorPos(0)
		copy(dst[off:off+seg], s.buf[pos:pos+seg])
		clear(s.buf[pos : pos+seg])
	}
	s.readPos = (s.readPos + len(dst)) & s.mask
	return s.advance(len(dst))
}

// SetFrame adds src to the output starting at the next sample to be played.
func (s *Synthesizer[T]) SetFrame(src []T) {
	if !s.required {
		panic("frame: SetFrame called without a pending boundary")
	}
	if len(src) != s.frameSize {
		panic(fmt.Sprintf("frame: frame length %d, want %d", len(src), s.frameSize))
	}
	for s.vec.Start(s.frameSize, s.readPos); !s.vec.End(); s.vec.Next() {
		off := s.vec.Offset()
		seg := s.vec.SegLen()
		pos := s.vec.CursorPos(0)
		addBlock(s.buf[pos:pos+seg], src[off:off+seg])
	}
	s.required = false
}

// ClearBuffers drops pending output and restores the initial hop phase.
func (s *Synthesizer[T]) ClearBuffers() {
	clear(s.buf)
	s.readPos = 0
	s.lenBefore = s.hop - s.offset
	s.required = false
}

func (s *Synthesizer[T]) advance(n int) bool {
	s.lenBefore -= n
	if s.lenBefore == 0 {
		s.lenBefore = s.hop
		s.required = true
	}
	return s.required
}

func (s *Synthesizer[T]) checkNotRequired() {
	if s.required {
		panic("frame: pending frame must be set with SetFrame before more output")
	}
}

func addBlock[T ringbuf.Sample](dst, src []T) {
	if d, ok := any(dst).([]float64); ok {
		vecmath.AddBlockInPlace(d, any(src).([]float64))
		return
	}
	for i := range dst {
		dst[i] += src[i]
	}
}
