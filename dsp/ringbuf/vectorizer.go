package ringbuf

import "fmt"

// MaxCursors is the number of cursors a Vectorizer can advance in lock-step.
const MaxCursors = 16

// Vectorizer decomposes a run of samples on a ring buffer into segments that
// never cross the wrap boundary for any tracked cursor.
//
// A run is started with Start, Start2 or StartMulti and walked with
//
//	for v.Start(n, pos); !v.End(); v.Next() { ... }
//
// Each step exposes SegLen, Offset (position of the segment within the run)
// and CursorPos for every cursor. Segment lengths of one run sum to n, and
// CursorPos(i)+SegLen() <= Size() holds for every cursor in every segment.
//
// A Vectorizer is a small value type; it performs no allocation.
type Vectorizer struct {
	size      int
	nbrCurs   int
	curs      [MaxCursors]int
	remaining int
	offset    int
	segLen    int
}

// NewVectorizer returns a Vectorizer for a ring of the given power-of-two size.
func NewVectorizer(size int) Vectorizer {
	var v Vectorizer
	v.SetSize(size)
	return v
}

// SetSize changes the ring size and drops any run in progress.
// It panics if size is not a power of two.
func (v *Vectorizer) SetSize(size int) {
	if !IsPowerOfTwo(size) {
		panic(fmt.Sprintf("ringbuf: size must be a power of two: %d", size))
	}
	v.size = size
	v.nbrCurs = 0
	v.remaining = 0
	v.offset = 0
	v.segLen = 0
}

// Size returns the ring size.
func (v *Vectorizer) Size() int { return v.size }

// Start begins a run of n samples tracking a single cursor.
func (v *Vectorizer) Start(n, pos int) {
	v.nbrCurs = 1
	v.curs[0] = pos
	v.begin(n)
}

// Start2 begins a run of n samples tracking two cursors, typically a write
// and a read position.
func (v *Vectorizer) Start2(n, pos0, pos1 int) {
	v.nbrCurs = 2
	v.curs[0] = pos0
	v.curs[1] = pos1
	v.begin(n)
}

// StartMulti begins a run of n samples tracking up to MaxCursors cursors.
func (v *Vectorizer) StartMulti(n int, pos []int) {
	if len(pos) == 0 || len(pos) > MaxCursors {
		panic(fmt.Sprintf("ringbuf: cursor count must be in [1, %d]: %d", MaxCursors, len(pos)))
	}
	v.nbrCurs = copy(v.curs[:], pos)
	v.begin(n)
}

// Restart begins a new run of n samples from the current cursor positions.
// It is used when a run is cut for reasons unrelated to the ring geometry,
// for example a block limit.
func (v *Vectorizer) Restart(n int) {
	if v.nbrCurs == 0 {
		panic("ringbuf: Restart called before Start")
	}
	v.begin(n)
}

// End reports whether the run is exhausted.
func (v *Vectorizer) End() bool { return v.remaining <= 0 }

// Next advances all cursors past the current segment.
func (v *Vectorizer) Next() {
	mask := v.size - 1
	for i := 0; i < v.nbrCurs; i++ {
		v.curs[i] = (v.curs[i] + v.segLen) & mask
	}
	v.offset += v.segLen
	v.remaining -= v.segLen
	v.computeSegLen()
}

// SegLen returns the length of the current segment.
func (v *Vectorizer) SegLen() int { return v.segLen }

// Offset returns the position of the current segment within the run.
func (v *Vectorizer) Offset() int { return v.offset }

// Remaining returns the number of samples left in the run, current segment
// included.
func (v *Vectorizer) Remaining() int { return v.remaining }

// NumCursors returns the number of tracked cursors.
func (v *Vectorizer) NumCursors() int { return v.nbrCurs }

// CursorPos returns the ring position of cursor i at the current segment.
func (v *Vectorizer) CursorPos(i int) int {
	if i < 0 || i >= v.nbrCurs {
		panic(fmt.Sprintf("ringbuf: cursor index %d out of range [0, %d)", i, v.nbrCurs))
	}
	return v.curs[i]
}

func (v *Vectorizer) begin(n int) {
	if n < 0 {
		panic(fmt.Sprintf("ringbuf: run length must be >= 0: %d", n))
	}
	for i := 0; i < v.nbrCurs; i++ {
		if v.curs[i] < 0 || v.curs[i] >= v.size {
			panic(fmt.Sprintf("ringbuf: cursor %d position %d out of range [0, %d)", i, v.curs[i], v.size))
		}
	}
	v.remaining = n
	v.offset = 0
	v.computeSegLen()
}

func (v *Vectorizer) computeSegLen() {
	seg := v.remaining
	for i := 0; i < v.nbrCurs; i++ {
		if room := v.size - v.curs[i]; room < seg {
			seg = room
		}
	}
	if seg < 0 {
		seg = 0
	}
	v.segLen = seg
}
