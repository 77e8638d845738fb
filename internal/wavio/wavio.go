// Package wavio reads and writes PCM WAV files as de-interleaved float64
// channels in [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const readChunk = 4096

var (
	// ErrInvalidFile is returned when the input is not a WAV file.
	ErrInvalidFile = errors.New("wavio: not a valid wav file")
	// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24 and 32.
	ErrUnsupportedBitDepth = errors.New("wavio: unsupported bit depth")
	// ErrChannelMismatch is returned by Write for ragged channel data.
	ErrChannelMismatch = errors.New("wavio: channels differ in length")
)

// Audio is a de-interleaved clip.
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int { return len(a.Channels) }

// Len returns the number of frames.
func (a *Audio) Len() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Read decodes the WAV file at path.
func Read(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}
	bitDepth := int(dec.BitDepth)
	if !supported(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	numChannels := format.NumChannels
	out := &Audio{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float64, numChannels),
	}

	scale := 1 / fullScale(bitDepth)
	ib := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, readChunk*numChannels),
		SourceBitDepth: bitDepth,
	}
	for {
		n, err := dec.PCMBuffer(ib)
		if err != nil {
			return nil, fmt.Errorf("wavio: decode %s: %w", path, err)
		}

		if n == 0 {
			break
		}
		for i, v := range ib.Data[:n] {
			ch := i % numChannels
			out.Channels[ch] = append(out.Channels[ch], float64(v)*scale)
		}
	}
	return out, nil
}

// Write encodes a as integer PCM at a.BitDepth. Samples are clipped to
// [-1, 1].
func Write(path string, a *Audio) error {
	if !supported(a.BitDepth) {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, a.BitDepth)
	}
	frames := a.Len()
	for _, ch := range a.Channels {
		if len(ch) != frames {
			return ErrChannelMismatch
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	numChannels := a.NumChannels()
	enc := wav.NewEncoder(f, a.SampleRate, a.BitDepth, numChannels, 1)
	full := fullScale(a.BitDepth)
	data := make([]int, frames*numChannels)
	for c, ch := range a.Channels {
		for i, v := range ch {
			data[i*numChannels+c] = quantize(v, full)
		}
	}
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  a.SampleRate,
		},
		Data:           data,
		SourceBitDepth: a.BitDepth,
	}

	err = enc.Write(ib)
	if err != nil {
		f.Close()
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}

	err = enc.Close()
	if err != nil {
		f.Close()
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}

	return f.Close()
}

func supported(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

func quantize(v, full float64) int {
	v = math.Round(v * full)
	if v > full-1 {
		v = full - 1
	}
	if v < -full {
		v = -full
	}
	return int(v)
}
