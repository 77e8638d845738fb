package frame

import (
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/ringbuf"
)

// Analyzer collects input samples and exposes the latest frameSize of them
// once every hop samples.
type Analyzer[T any] struct {
	buf       []T
	mask      int
	writePos  int
	frameSize int
	hop       int
	offset    int
	lenBefore int
	ready     bool
	vec       ringbuf.Vectorizer
}

// NewAnalyzer returns an Analyzer for the given geometry.
// offset in [0, hop) shortens the distance to the first boundary, which lets
// several channels run phase-staggered.
func NewAnalyzer[T any](frameSize, hop, offset int) (*Analyzer[T], error) {
	a := &Analyzer[T]{}

	err := a.Setup(frameSize, hop, offset)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Setup reconfigures the geometry and clears the history.
func (a *Analyzer[T]) Setup(frameSize, hop, offset int) error {
	err := validateGeometry(frameSize, hop, offset)
	if err != nil {
		return err
	}

	size := ringbuf.NextPowerOfTwo(frameSize)
	if size != len(a.buf) {
		a.buf = make([]T, size)
	}
	a.mask = size - 1
	a.frameSize = frameSize
	a.hop = hop
	a.offset = offset
	a.vec.SetSize(size)
	a.ClearBuffers()
	return nil
}

// FrameSize returns the frame length.
func (a *Analyzer[T]) FrameSize() int { return a.frameSize }

// HopSize returns the distance between frame boundaries.
func (a *Analyzer[T]) HopSize() int { return a.hop }

// Offset returns the configured phase offset.
func (a *Analyzer[T]) Offset() int { return a.offset }

// LenBeforeNextFrame returns the number of samples to feed before the next
// boundary, in [1, hop].
func (a *Analyzer[T]) LenBeforeNextFrame() int { return a.lenBefore }

// IsFrameProcRequired reports whether a boundary was reached and GetFrame
// has not been called yet.
func (a *Analyzer[T]) IsFrameProcRequired() bool { return a.ready }

// ProcessSample appends one sample and reports whether it completed a frame.
func (a *Analyzer[T]) ProcessSample(x T) bool {
	a.checkNotPending()
	a.buf[a.writePos] = x
	a.writePos = (a.writePos + 1) & a.mask
	return a.advance(1)
}

// ProcessBlock appends src and reports whether it completed a frame.
// len(src) must not exceed LenBeforeNextFrame().
func (a *Analyzer[T]) ProcessBlock(src []T) bool {
	a.checkNotPending()
	if len(src) > a.lenBefore {
		panic(fmt.Sprintf("frame: block length %d crosses frame boundary in %d", len(src), a.lenBefore))
	}
	for a.vec.Start(len(src), a.writePos); !a.vec.End(); a.vec.Next() {
		off := a.vec.Offset()
		copy(a.buf[a.vec.CursorPos(0):], src[off:off+a.vec.SegLen()])
	}
	a.writePos = (a.writePos + len(src)) & a.mask
	return a.advance(len(src))
}

// GetFrame copies the most recent frameSize samples into dst, oldest first,
// and acknowledges the boundary.
func (a *Analyzer[T]) GetFrame(dst []T) {
	if !a.ready {
		panic("frame: GetFrame called without a pending frame")
	}
	if len(dst) != a.frameSize {
		panic(fmt.Sprintf("frame: frame length %d, want %d", len(dst), a.frameSize))
	}
	for a.vec.Start(a.frameSize, (a.writePos-a.frameSize)&a.mask); !a.vec.End(); a.vec.Next() {
		off := a.vec.Offset()
		seg := a.vec.SegLen()
		pos := a.vec.CursorPos(0)
		copy(dst[off:off+seg], a.buf[pos:pos+seg])
	}
	a.ready = false
}

// ClearBuffers zeroes the history and restores the initial hop phase.
func (a *Analyzer[T]) ClearBuffers() {
	clear(a.buf)
	a.writePos = 0
	a.lenBefore = a.hop - a.offset
	a.ready = false
}

func (a *Analyzer[T]) advance(n int) bool {
	a.lenBefore -= n
	if a.lenBefore == 0 {
		a.lenBefore = a.hop
		a.ready = true
	}
	return a.ready
}

func (a *Analyzer[T]) checkNotPending() {
	if a.ready {
		panic("frame: pending frame must be read with GetFrame before more input")
	}
}
