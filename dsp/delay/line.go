package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ring/dsp/interp"
	"github.com/cwbudde/algo-ring/dsp/ringbuf"
)

var (
	// ErrInvalidMaxDelay is returned by Setup for a negative maximum delay.
	ErrInvalidMaxDelay = errors.New("delay: max delay must be >= 0")
	// ErrInvalidBlockLen is returned by Setup for a maximum block length < 1.
	ErrInvalidBlockLen = errors.New("delay: max block length must be > 0")
)

// Line is a single-channel circular delay line with a power-of-two buffer.
//
// The write cursor w marks the slot of the next sample. ReadAt(d) returns
// buf[w-d], so after WriteSample(x) ReadAt(0) is x, and after the following
// Step(1) the same sample is ReadAt(1).
//
// Setup is the only method that allocates. Hot-path methods panic on
// precondition violations (delay out of range, oversize block); they never
// return errors.
type Line[T ringbuf.Sample] struct {
	buf         []T
	mask        int
	writePos    int
	delay       int
	maxDelay    int
	maxBlockLen int
	vec         ringbuf.Vectorizer
}

// New returns a delay line sized for maxDelay and maxBlockLen.
func New[T ringbuf.Sample](maxDelay, maxBlockLen int) (*Line[T], error) {
	d := &Line[T]{}

	err := d.Setup(maxDelay, maxBlockLen)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Setup sizes the buffer to the next power of two >= maxBlockLen+maxDelay and
// clears it. The delay is reset to 0. Call it again if either bound grows.
func (d *Line[T]) Setup(maxDelay, maxBlockLen int) error {
	if maxDelay < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDelay, maxDelay)
	}
	if maxBlockLen < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockLen, maxBlockLen)
	}

	size := ringbuf.NextPowerOfTwo(maxBlockLen + maxDelay)
	if size != len(d.buf) {
		d.buf = make([]T, size)
	} else {
		clear(d.buf)
	}
	d.mask = size - 1
	d.writePos = 0
	d.delay = 0
	d.maxDelay = maxDelay
	d.maxBlockLen = maxBlockLen
	d.vec.SetSize(size)
	return nil
}

// Len returns the physical buffer length.
func (d *Line[T]) Len() int { return len(d.buf) }

// MaxDelay returns the configured maximum delay in samples.
func (d *Line[T]) MaxDelay() int { return d.maxDelay }

// MaxBlockLen returns the configured maximum block length.
func (d *Line[T]) MaxBlockLen() int { return d.maxBlockLen }

// Delay returns the current delay in samples.
func (d *Line[T]) Delay() int { return d.delay }

// SetDelay changes the read offset. It takes effect on the next read.
func (d *Line[T]) SetDelay(delay int) {
	d.checkDelay(delay)
	d.delay = delay
}

// ReadAt returns the sample written delay positions before the write cursor.
func (d *Line[T]) ReadAt(delay int) T {
	d.checkDelay(delay)
	return d.buf[(d.writePos-delay)&d.mask]
}

// ReadFractional reads a fractional delay with 4-point Hermite
// interpolation. delay is clamped to [0, MaxDelay()].
func (d *Line[T]) ReadFractional(delay float64) T {
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}
	if maxDelay := float64(d.maxDelay); delay > maxDelay {
		delay = maxDelay
	}

	p := int(delay)
	t := T(delay - float64(p))

	// The outer taps may step one or two slots past MaxDelay; those slots hold
	// the oldest history in the buffer.
	pos := d.writePos - p
	x0 := d.buf[pos&d.mask]
	xm1 := x0
	if p > 0 {
		xm1 = d.buf[(pos+1)&d.mask]
	}
	x1 := d.buf[(pos-1)&d.mask]
	x2 := d.buf[(pos-2)&d.mask]
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// WriteSample stores x at the write cursor without advancing it.
func (d *Line[T]) WriteSample(x T) {
	d.buf[d.writePos] = x
}

// Step advances the write cursor by n samples.
func (d *Line[T]) Step(n int) {
	d.writePos = (d.writePos + n) & d.mask
}

// ProcessSample writes x, returns the sample at the configured delay and
// advances the write cursor by one. A zero delay returns x.
func (d *Line[T]) ProcessSample(x T) T {
	d.buf[d.writePos] = x
	y := d.buf[(d.writePos-d.delay)&d.mask]
	d.writePos = (d.writePos + 1) & d.mask
	return y
}

// WriteBlock stores src starting at the write cursor without advancing it.
// Use ReadBlock or ReadBlockAt to fetch the delayed block, then Step.
func (d *Line[T]) WriteBlock(src []T) {
	d.checkBlock(len(src))
	for d.vec.Start(len(src), d.writePos); !d.vec.End(); d.vec.Next() {
		off := d.vec.Offset()
		copy(d.buf[d.vec.CursorPos(0):], src[off:off+d.vec.SegLen()])
	}
}

// PushBlock stores src at the write cursor and advances past it.
func (d *Line[T]) PushBlock(src []T) {
	d.WriteBlock(src)
	d.Step(len(src))
}

// ReadBlock reads len(dst) samples at the configured delay relative to the
// write cursor: dst[i] = buf[w-delay+i].
func (d *Line[T]) ReadBlock(dst []T) {
	d.ReadBlockAt(dst, d.delay)
}

// ReadBlockAt reads len(dst) samples starting delay positions before the
// write cursor, oldest first: dst[i] = buf[w-delay+i].
//
// dst[i] is what ReadAt(delay-i) returns. Between WriteBlock and Step the
// block itself is readable, so n <= delay+len(block); after Step only
// n <= delay samples are history.
func (d *Line[T]) ReadBlockAt(dst []T, delay int) {
	d.checkDelay(delay)
	d.checkBlock(len(dst))
	for d.vec.Start(len(dst), (d.writePos-delay)&d.mask); !d.vec.End(); d.vec.Next() {
		off := d.vec.Offset()
		copy(dst[off:off+d.vec.SegLen()], d.buf[d.vec.CursorPos(0):])
	}
}

// ProcessBlock writes src, reads the delayed signal into dst and advances the
// write cursor, giving the same output as ProcessSample per element.
//
// dst and src may be the same slice; partially overlapping slices are not
// supported. Blocks longer than MaxBlockLen are handled in chunks.
func (d *Line[T]) ProcessBlock(dst, src []T) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("delay: dst length %d != src length %d", len(dst), len(src)))
	}
	n := len(src)
	if n == 0 {
		return
	}

	chunk := min(n, d.maxBlockLen)
	base := 0
	d.vec.Start2(chunk, d.writePos, (d.writePos-d.delay)&d.mask)
	for {
		for ; !d.vec.End(); d.vec.Next() {
			seg := d.vec.SegLen()
			off := base + d.vec.Offset()
			copy(d.buf[d.vec.CursorPos(0):], src[off:off+seg])
			copy(dst[off:off+seg], d.buf[d.vec.CursorPos(1):d.vec.CursorPos(1)+seg])
		}
		base += chunk
		if base >= n {
			break
		}
		chunk = min(n-base, d.maxBlockLen)
		d.vec.Restart(chunk)
	}
	d.writePos = (d.writePos + n) & d.mask
}

// ProcessBlockInPlace is ProcessBlock with a single buffer for input and
// output.
func (d *Line[T]) ProcessBlockInPlace(buf []T) {
	d.ProcessBlock(buf, buf)
}

// ClearBuffers zeroes the whole buffer and resets the write cursor.
func (d *Line[T]) ClearBuffers() {
	clear(d.buf)
	d.writePos = 0
}

// ClearBuffersQuick zeroes only the slots the next Delay() reads will hit
// and moves the write cursor past them. The next Delay() output samples
// match those after ClearBuffers; reads at larger delays may see stale data.
func (d *Line[T]) ClearBuffersQuick() {
	clear(d.buf[:d.delay])
	d.writePos = d.delay & d.mask
}

func (d *Line[T]) checkDelay(delay int) {
	if delay < 0 || delay > d.maxDelay {
		panic(fmt.Sprintf("delay: delay %d out of range [0, %d]", delay, d.maxDelay))
	}
}

func (d *Line[T]) checkBlock(n int) {
	if n > d.maxBlockLen {
		panic(fmt.Sprintf("delay: block length %d exceeds max %d", n, d.maxBlockLen))
	}
}
