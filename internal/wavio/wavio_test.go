package wavio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	for _, bitDepth := range []int{16, 24, 32} {
		path := filepath.Join(t.TempDir(), "clip.wav")
		in := &Audio{
			SampleRate: 44100,
			BitDepth:   bitDepth,
			Channels: [][]float64{
				{0, 0.5, -0.5, 0.25, -1},
				{0.1, -0.1, 0.2, -0.2, 0.75},
			},
		}
		require.NoError(t, Write(path, in))

		out, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, 44100, out.SampleRate)
		assert.Equal(t, bitDepth, out.BitDepth)
		require.Equal(t, 2, out.NumChannels())
		require.Equal(t, 5, out.Len())

		eps := 2 / fullScale(bitDepth)
		for c := range in.Channels {
			for i := range in.Channels[c] {
				assert.InDelta(t, in.Channels[c][i], out.Channels[c][i], eps, "bits %d ch %d sample %d", bitDepth, c, i)
			}
		}
	}
}

func TestWriteClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, Write(path, &Audio{SampleRate: 8000, BitDepth: 16, Channels: [][]float64{{2, -2}}}))

	out, err := Read(path)
	require.NoError(t, err)
	assert.InDelta(t, 1, out.Channels[0][0], 1e-4)
	assert.InDelta(t, -1, out.Channels[0][1], 1e-9)
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	err := Write(filepath.Join(dir, "a.wav"), &Audio{SampleRate: 8000, BitDepth: 12, Channels: [][]float64{{0}}})
	require.ErrorIs(t, err, ErrUnsupportedBitDepth)

	err = Write(filepath.Join(dir, "b.wav"), &Audio{SampleRate: 8000, BitDepth: 16, Channels: [][]float64{{0, 1}, {0}}})
	require.ErrorIs(t, err, ErrChannelMismatch)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff data"), 0o644))
	_, err = Read(path)
	require.ErrorIs(t, err, ErrInvalidFile)
}
