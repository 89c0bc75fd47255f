package clipper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-clipper/internal/testutil"
)

// TestClipMono_DryIsAligned verifies the one-shot output is trimmed by the
// latency: a fully dry mix returns the input unchanged.
func TestClipMono_DryIsAligned(t *testing.T) {
	input := testutil.Sine(1000, 300, testRate, 0.9)

	v := DefaultValues()
	v.Mix = 0
	v.DriveDB = 30

	out, err := ClipMono(input, testRate, v)
	require.NoError(t, err)
	require.Len(t, out, len(input))
	assert.Equal(t, input, out)
}

func TestClipMono_BypassIsAligned(t *testing.T) {
	input := testutil.Noise(777, 0.5, 11)

	v := DefaultValues()
	v.Bypass = true
	out, err := ClipMono(input, testRate, v)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

// TestClipMono_IdentityWithinCeiling checks that a hard clip at unity gain
// passes a quiet band-limited signal through the oversampler with only
// passband error, aligned with the input.
func TestClipMono_IdentityWithinCeiling(t *testing.T) {
	input := testutil.Sine(4000, 1000, testRate, 0.5)

	v := DefaultValues()
	v.Hardness = 1
	out, err := ClipMono(input, testRate, v)
	require.NoError(t, err)

	// Skip the filters' start-up transient.
	err2 := testutil.RMSError(out[200:], input[200:])
	assert.Less(t, err2, 0.01)
}

func TestClipMono_InvalidRate(t *testing.T) {
	_, err := ClipMono(make([]float32, 10), 100, DefaultValues())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClipStereo(t *testing.T) {
	left := testutil.Sine(600, 200, testRate, 1)
	right := testutil.Sine(600, 400, testRate, 1)

	v := DefaultValues()
	v.DriveDB = 12
	l, r, err := ClipStereo(left, right, testRate, v)
	require.NoError(t, err)
	require.Len(t, l, len(left))
	require.Len(t, r, len(right))

	lMono, err := ClipMono(left, testRate, v)
	require.NoError(t, err)
	assert.Equal(t, lMono, l, "stereo left must match mono processing")

	_, _, err = ClipStereo(left, right[:10], testRate, v)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}

func TestInterleaveDeinterleaveStereo(t *testing.T) {
	left := []float32{1, 2, 3, 4, 5}
	right := []float32{-1, -2, -3, -4}

	interleaved := InterleaveToStereo(left, right)
	assert.Equal(t, []float32{1, -1, 2, -2, 3, -3, 4, -4}, interleaved)

	l, r := DeinterleaveFromStereo(interleaved)
	assert.Equal(t, left[:4], l)
	assert.Equal(t, right, r)
}

func TestInterleaveDeinterleave_MultiChannel(t *testing.T) {
	planar := [][]float32{
		{1, 2, 3},
		{10, 20, 30},
		{100, 200, 300},
	}

	interleaved, err := Interleave(planar)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 10, 100, 2, 20, 200, 3, 30, 300}, interleaved)

	back, err := Deinterleave(append(interleaved, 9), 3)
	require.NoError(t, err)
	assert.Equal(t, planar, back, "partial trailing frame is dropped")

	_, err = Interleave([][]float32{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	_, err = Deinterleave(interleaved, 0)
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	stereo, err := Interleave([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 2, 4}, stereo)
}
