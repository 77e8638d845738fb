// Package spectral runs short-time Fourier transform kernels on a stream.
//
// [Processor] frames the input with [frame.Analyzer], transforms each frame,
// hands the positive-frequency bins to a [FrameProcessor] and resynthesizes
// with weighted overlap-add through [frame.Synthesizer]. Kernels such as
// [Freeze] and [Crusher] only ever see bins, never the framing.
package spectral
