// Package ringbuf provides the wraparound arithmetic shared by every circular
// buffer in this module.
//
// All ring buffers have a power-of-two length so positions wrap with a bit
// mask instead of a modulo. [Vectorizer] splits a run of n samples into
// contiguous segments in which none of the tracked cursors crosses the end of
// the buffer, so callers can move each segment with a single copy or loop:
//
//	v := ringbuf.NewVectorizer(len(buf))
//	for v.Start2(n, writePos, readPos); !v.End(); v.Next() {
//		seg := v.SegLen()
//		off := v.Offset()
//		copy(buf[v.CursorPos(0):], src[off:off+seg])
//		copy(dst[off:off+seg], buf[v.CursorPos(1):])
//	}
//
// The package owns no sample storage.
package ringbuf
