// Package rebuffer runs a fixed-size block processor over host blocks of any
// length.
package rebuffer

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ring/dsp/fifo"
)

// ErrInvalidBlockSize is returned for a block size < 1.
var ErrInvalidBlockSize = errors.New("rebuffer: block size must be > 0")

// BlockFunc processes exactly one fixed-size block in place.
type BlockFunc[T any] func(block []T)

// Adapter buffers input until a full block is available, hands it to the
// block function and plays the result back. The output lags the input by
// exactly BlockSize samples.
type Adapter[T any] struct {
	in      *fifo.Fifo[T]
	out     *fifo.Fifo[T]
	scratch []T
	fn      BlockFunc[T]
}

// New returns an Adapter calling fn with blocks of blockSize samples.
func New[T any](blockSize int, fn BlockFunc[T]) (*Adapter[T], error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if fn == nil {
		return nil, errors.New("rebuffer: block function must not be nil")
	}

	in, err := fifo.New[T](blockSize)
	if err != nil {
		return nil, err
	}

	out, err := fifo.New[T](blockSize)
	if err != nil {
		return nil, err
	}

	a := &Adapter[T]{
		in:      in,
		out:     out,
		scratch: make([]T, blockSize),
		fn:      fn,
	}
	a.Reset()
	return a, nil
}

// BlockSize returns the fixed block length passed to the block function.
func (a *Adapter[T]) BlockSize() int { return len(a.scratch) }

// Latency returns the added delay in samples.
func (a *Adapter[T]) Latency() int { return len(a.scratch) }

// Process replaces buf with the processed stream.
//
// in.Size()+out.Size() == BlockSize() holds between calls, so the output
// queue always has as many samples as the input queue has room.
func (a *Adapter[T]) Process(buf []T) {
	for pos := 0; pos < len(buf); {
		k := min(len(buf)-pos, a.in.Room())
		chunk := buf[pos : pos+k]
		a.in.PushBlock(chunk)
		a.out.PopBlock(chunk)
		pos += k

		if a.in.Room() == 0 {
			a.in.PopBlock(a.scratch)
			a.fn(a.scratch)
			a.out.PushBlock(a.scratch)
		}
	}
}

// Reset drops buffered audio and restores the initial latency.
func (a *Adapter[T]) Reset() {
	a.in.ClearBuffers()
	a.out.ClearBuffers()
	clear(a.scratch)
	a.out.PushBlock(a.scratch)
}
