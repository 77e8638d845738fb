// Package fifo provides a bounded, non-allocating queue on a power-of-two
// ring buffer.
package fifo

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/ringbuf"
)

// ErrInvalidCapacity is returned by Setup for a capacity < 1.
var ErrInvalidCapacity = errors.New("fifo: capacity must be > 0")

// Fifo is a capacity-bounded first-in first-out queue.
//
// The queue is never lossy: pushing more than Room() or popping more than
// Size() elements panics. Size()+Room() == Capacity() after every call.
type Fifo[T any] struct {
	buf      []T
	mask     int
	readPos  int
	size     int
	capacity int
	vec      ringbuf.Vectorizer
}

// New returns a Fifo holding up to capacity elements.
func New[T any](capacity int) (*Fifo[T], error) {
	f := &Fifo[T]{}

	err := f.Setup(capacity)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Setup sizes the ring to the next power of two >= capacity and empties it.
func (f *Fifo[T]) Setup(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	size := ringbuf.NextPowerOfTwo(capacity)
	if size != len(f.buf) {
		f.buf = make([]T, size)
	} else {
		clear(f.buf)
	}
	f.mask = size - 1
	f.capacity = capacity
	f.readPos = 0
	f.size = 0
	f.vec.SetSize(size)
	return nil
}

// Capacity returns the maximum number of queued elements.
func (f *Fifo[T]) Capacity() int { return f.capacity }

// Size returns the number of queued elements.
func (f *Fifo[T]) Size() int { return f.size }

// Room returns the number of elements that can still be pushed.
func (f *Fifo[T]) Room() int { return f.capacity - f.size }

// Push appends one element.
func (f *Fifo[T]) Push(x T) {
	f.checkRoom(1)
	f.buf[(f.readPos+f.size)&f.mask] = x
	f.size++
}

// PushBlock appends all elements of src.
func (f *Fifo[T]) PushBlock(src []T) {
	f.checkRoom(len(src))
	for f.vec.Start(len(src), (f.readPos+f.size)&f.mask); !f.vec.End(); f.vec.Next() {
		off := f.vec.Offset()
		copy(f.buf[f.vec.CursorPos(0):], src[off:off+f.vec.SegLen()])
	}
	f.size += len(src)
}

// Peek returns the oldest element without removing it.
func (f *Fifo[T]) Peek() T {
	f.checkSize(1)
	return f.buf[f.readPos]
}

// Pop removes and returns the oldest element.
func (f *Fifo[T]) Pop() T {
	f.checkSize(1)
	x := f.buf[f.readPos]
	var zero T
	f.buf[f.readPos] = zero
	f.readPos = (f.readPos + 1) & f.mask
	f.size--
	return x
}

// PopBlock removes len(dst) elements into dst, oldest first.
func (f *Fifo[T]) PopBlock(dst []T) {
	f.checkSize(len(dst))
	for f.vec.Start(len(dst), f.readPos); !f.vec.End(); f.vec.Next() {
		off := f.vec.Offset()
		pos := f.vec.CursorPos(0)
		seg := f.vec.SegLen()
		copy(dst[off:off+seg], f.buf[pos:pos+seg])
		clear(f.buf[pos : pos+seg])
	}
	f.readPos = (f.readPos + len(dst)) & f.mask
	f.size -= len(dst)
}

// Discard removes the n oldest elements.
func (f *Fifo[T]) Discard(n int) {
	f.checkSize(n)
	for f.vec.Start(n, f.readPos); !f.vec.End(); f.vec.Next() {
		pos := f.vec.CursorPos(0)
		clear(f.buf[pos : pos+f.vec.SegLen()])
	}
	f.readPos = (f.readPos + n) & f.mask
	f.size -= n
}

// ClearBuffers empties the queue and zeroes its storage.
func (f *Fifo[T]) ClearBuffers() {
	clear(f.buf)
	f.readPos = 0
	f.size = 0
}

func (f *Fifo[T]) checkRoom(n int) {
	if n < 0 || n > f.capacity-f.size {
		panic(fmt.Sprintf("fifo: push of %d exceeds room %d", n, f.capacity-f.size))
	}
}

func (f *Fifo[T]) checkSize(n int) {
	if n < 0 || n > f.size {
		panic(fmt.Sprintf("fifo: pop of %d exceeds size %d", n, f.size))
	}
}
