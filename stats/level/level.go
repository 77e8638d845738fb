// Package level measures signal levels of processed audio.
package level

import (
	"math"

	"github.com/cwbudde/algo-ring/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// Stats holds level statistics of a signal.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max(|max|, |min|)
	Peak_dB        float64
	CrestFactor_dB float64
}

// Calculate computes level statistics of signal.
func Calculate(signal []float64) Stats {
	var m Meter
	m.Update(signal)
	return m.Result()
}

// Meter accumulates level statistics across blocks.
type Meter struct {
	n     int
	sum   float64
	sumSq float64
	peak  float64
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	if len(samples) == 0 {
		return
	}
	m.n += len(samples)
	m.sum += floats.Sum(samples)
	norm := floats.Norm(samples, 2)
	m.sumSq += norm * norm
	m.peak = max(m.peak, floats.Norm(samples, math.Inf(1)))
}

// Reset discards accumulated data.
func (m *Meter) Reset() { *m = Meter{} }

// Result returns the statistics of everything seen so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{
			RMS_dB:  math.Inf(-1),
			Peak_dB: math.Inf(-1),
		}
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)
	crest := 0.0
	if rms > 0 {
		crest = core.LinearToDB(m.peak / rms)
	}
	return Stats{
		Length:         m.n,
		DC:             m.sum / nf,
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Peak:           m.peak,
		Peak_dB:        core.LinearToDB(m.peak),
		CrestFactor_dB: crest,
	}
}
