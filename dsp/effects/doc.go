// Package effects provides time-domain effects built on ring-buffer delay
// lines.
//
// Subpackages:
//   - github.com/cwbudde/algo-ring/dsp/effects/modulation
//   - github.com/cwbudde/algo-ring/dsp/effects/pitch
//
// Effects remaining in this package:
//   - Delay: Feedback delay with dry/wet mix.
//
// All effects have allocation-free hot paths and give identical results for
// single-sample and buffer-based processing.
package effects
