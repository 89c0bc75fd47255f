package clipper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-clipper/internal/testutil"
)

func TestLevels_FollowSignal(t *testing.T) {
	p := newProcessor(t, 2, Factor4x)
	require.NoError(t, p.SetParam(ParamPostGain, -6))
	require.NoError(t, p.SetParam(ParamHardness, 1))

	buf := [][]float32{
		testutil.Sine(2400, 500, testRate, 0.5),
		make([]float32, 2400),
	}
	require.NoError(t, p.Process(buf, buf))

	left, err := p.Level(0)
	require.NoError(t, err)
	assert.InDelta(t, -6.02, left.InputDB, 0.1)
	assert.InDelta(t, -12.04, left.OutputDB, 0.2)

	right, err := p.Level(1)
	require.NoError(t, err)
	assert.Less(t, right.InputDB, -150.0)
	assert.Less(t, right.OutputDB, -150.0)

	assert.Equal(t, []Level{left, right}, p.Levels())
	assert.InDelta(t, left.OutputDB, p.PeakDB(), 1e-9)
}

func TestLevel_InvalidChannel(t *testing.T) {
	p := newProcessor(t, 1, Factor2x)
	_, err := p.Level(1)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
	_, err = p.Level(-1)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}

func TestLevels_ClearedByReset(t *testing.T) {
	p := newProcessor(t, 1, Factor4x)
	buf := [][]float32{testutil.Sine(480, 1000, testRate, 1)}
	require.NoError(t, p.Process(buf, buf))

	p.Reset()
	l, err := p.Level(0)
	require.NoError(t, err)
	assert.Less(t, l.InputDB, -150.0)
	assert.Less(t, l.OutputDB, -150.0)
}
