// Package frame slices a continuous stream into overlapping analysis frames
// and reassembles synthesis frames by overlap-add.
//
// [Analyzer] and [Synthesizer] run on the same hop schedule. A frame boundary
// occurs every hop samples; LenBeforeNextFrame reports how many samples
// remain until the next one. A typical STFT loop splits each host block at
// the boundaries:
//
//	for pos < n {
//		k := min(n-pos, ana.LenBeforeNextFrame())
//		ready := ana.ProcessBlock(in[pos : pos+k])
//		syn.ProcessBlock(out[pos : pos+k])
//		if ready {
//			ana.GetFrame(frame)
//			// window, transform, modify, inverse, window
//			syn.SetFrame(frame)
//		}
//		pos += k
//	}
//
// With matching geometry the output lags the input by frameSize samples.
// Windowing and gain normalization are left to the caller.
package frame
