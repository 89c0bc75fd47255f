package clipper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-clipper/internal/testutil"
)

const testRate = 48000.0

func newProcessor(t testing.TB, channels int, factor Factor) *Processor {
	t.Helper()
	config := DefaultConfig(testRate, channels)
	config.Factor = factor
	p, err := New(config)
	require.NoError(t, err)
	return p
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"sample rate too low", func(c *Config) { c.SampleRate = 1000 }},
		{"sample rate too high", func(c *Config) { c.SampleRate = 1e6 }},
		{"sample rate NaN", func(c *Config) { c.SampleRate = math.NaN() }},
		{"no channels", func(c *Config) { c.Channels = 0 }},
		{"too many channels", func(c *Config) { c.Channels = maxChannels + 1 }},
		{"factor 3", func(c *Config) { c.Factor = 3 }},
		{"factor 0", func(c *Config) { c.Factor = 0 }},
		{"zero block", func(c *Config) { c.MaxBlockSize = 0 }},
		{"huge block", func(c *Config) { c.MaxBlockSize = maxBlockSize + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig(testRate, 2)
			tt.modify(config)
			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)

			_, err := New(config)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	assert.NoError(t, DefaultConfig(testRate, 2).Validate())
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_InitialParams(t *testing.T) {
	v := DefaultValues()
	v.DriveDB = 12
	v.Mix = 2 // out of range, clamped

	config := DefaultConfig(testRate, 1)
	config.Params = &v
	p, err := New(config)
	require.NoError(t, err)

	got := p.Values()
	assert.InDelta(t, 12, got.DriveDB, 1e-12)
	assert.InDelta(t, 1, got.Mix, 1e-12)
	assert.Nil(t, p.Config().Params)
}

func TestProcessor_Latency(t *testing.T) {
	for _, tt := range []struct {
		factor Factor
		want   int
	}{
		{Factor1x, 0},
		{Factor2x, 39},
		{Factor4x, 46},
	} {
		p := newProcessor(t, 2, tt.factor)
		assert.Equal(t, tt.want, p.Latency(), "factor %s", tt.factor)
	}
}

func TestProcess_BufferMismatch(t *testing.T) {
	p := newProcessor(t, 2, Factor4x)

	mono := [][]float32{make([]float32, 16)}
	assert.ErrorIs(t, p.Process(mono, mono), ErrInvalidBuffer)

	ragged := [][]float32{make([]float32, 16), make([]float32, 8)}
	assert.ErrorIs(t, p.Process(ragged, ragged), ErrInvalidBuffer)

	src := [][]float32{make([]float32, 16), make([]float32, 16)}
	dst := [][]float32{make([]float32, 16), make([]float32, 15)}
	assert.ErrorIs(t, p.Process(dst, src), ErrInvalidBuffer)
}

func TestProcess_EmptyBlock(t *testing.T) {
	p := newProcessor(t, 2, Factor4x)
	buf := [][]float32{{}, {}}
	assert.NoError(t, p.Process(buf, buf))
}

func TestProcess_Silence(t *testing.T) {
	for _, f := range []Factor{Factor1x, Factor2x, Factor4x} {
		p := newProcessor(t, 2, f)
		require.NoError(t, p.SetParam(ParamDrive, 24))

		buf := [][]float32{make([]float32, 1000), make([]float32, 1000)}
		require.NoError(t, p.Process(buf, buf))
		testutil.AssertAllZero(t, buf[0])
		testutil.AssertAllZero(t, buf[1])
	}
}

// TestProcess_LongBlocksMatchShort verifies that host blocks longer than
// MaxBlockSize give the same result as feeding MaxBlockSize pieces.
func TestProcess_LongBlocksMatchShort(t *testing.T) {
	input := testutil.Sine(2000, 997, testRate, 0.9)

	long := newProcessor(t, 1, Factor4x)
	short := newProcessor(t, 1, Factor4x)
	for _, p := range []*Processor{long, short} {
		require.NoError(t, p.SetParam(ParamDrive, 18))
		require.NoError(t, p.SetParam(ParamHardness, 0.3))
	}

	a := [][]float32{append([]float32(nil), input...)}
	require.NoError(t, long.Process(a, a))

	b := append([]float32(nil), input...)
	step := long.Config().MaxBlockSize
	for start := 0; start < len(b); start += step {
		end := min(start+step, len(b))
		blk := [][]float32{b[start:end]}
		require.NoError(t, short.Process(blk, blk))
	}

	assert.InDeltaSlice(t, b, a[0], 1e-6)
}

func TestProcess_SeparateDestination(t *testing.T) {
	input := testutil.Sine(500, 440, testRate, 0.5)

	inPlace := newProcessor(t, 1, Factor2x)
	separate := newProcessor(t, 1, Factor2x)

	a := [][]float32{append([]float32(nil), input...)}
	require.NoError(t, inPlace.Process(a, a))

	src := [][]float32{append([]float32(nil), input...)}
	dst := [][]float32{make([]float32, len(input))}
	require.NoError(t, separate.Process(dst, src))

	assert.Equal(t, a[0], dst[0])
	assert.Equal(t, input, src[0], "source must be left untouched")
}

func TestProcess_BoundedOutput(t *testing.T) {
	p := newProcessor(t, 1, Factor4x)
	require.NoError(t, p.SetParam(ParamDrive, 36))
	require.NoError(t, p.SetParam(ParamHardness, 1))

	buf := [][]float32{testutil.Noise(4096, 4, 7)}
	require.NoError(t, p.Process(buf, buf))

	testutil.AssertFinite(t, buf[0])
	// Filter overshoot around a hard clip stays well under 2x the ceiling.
	assert.Less(t, testutil.MaxAbs(buf[0]), 2.0)
}

func TestProcess_NonFiniteInputRecovers(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		config := DefaultConfig(testRate, 2)
		config.EnableParallel = parallel
		p, err := New(config)
		require.NoError(t, err)
		require.NoError(t, p.SetParam(ParamDCBlock, 1))
		require.NoError(t, p.SetParam(ParamMix, 0.5))

		left := testutil.Sine(4096, 440, testRate, 0.5)
		right := testutil.Sine(4096, 440, testRate, 0.5)
		left[5] = float32(math.NaN())
		left[900] = float32(math.Inf(1))
		left[901] = float32(math.Inf(-1))
		buf := [][]float32{left, right}
		require.NoError(t, p.Process(buf, buf))

		for ch := range buf {
			testutil.AssertFinite(t, buf[ch])
			assert.Greater(t, testutil.MaxAbs(buf[ch][3000:]), 0.1, "channel %d parallel %t", ch, parallel)
		}
		for _, level := range p.Levels() {
			assert.False(t, math.IsNaN(level.OutputDB))
		}
	}
}

func TestReset_MatchesFresh(t *testing.T) {
	input := testutil.Sine(700, 1200, testRate, 0.8)

	used := newProcessor(t, 2, Factor4x)
	fresh := newProcessor(t, 2, Factor4x)

	warm := [][]float32{testutil.Noise(900, 1, 3), testutil.Noise(900, 1, 4)}
	require.NoError(t, used.Process(warm, warm))
	used.Reset()

	a := [][]float32{append([]float32(nil), input...), append([]float32(nil), input...)}
	b := [][]float32{append([]float32(nil), input...), append([]float32(nil), input...)}
	require.NoError(t, used.Process(a, a))
	require.NoError(t, fresh.Process(b, b))

	assert.Equal(t, b, a)
	for _, l := range used.Levels() {
		assert.Greater(t, l.InputDB, -10.0)
	}
}

func TestSetParam(t *testing.T) {
	p := newProcessor(t, 1, Factor4x)

	require.NoError(t, p.SetParam(ParamThreshold, -12))
	assert.InDelta(t, -12, p.Values().ThresholdDB, 1e-12)

	require.NoError(t, p.SetParam(ParamDrive, 100))
	assert.InDelta(t, 36, p.Values().DriveDB, 1e-12, "clamped to range")

	assert.Error(t, p.SetParam(ParamID(99), 1))
	assert.Error(t, p.SetParam(ParamMix, math.Inf(1)))

	v := DefaultValues()
	v.Bypass = true
	p.SetParams(v)
	assert.True(t, p.Values().Bypass)

	require.NoError(t, p.Params().SetNormalized(ParamMix, 0.25))
	assert.InDelta(t, 0.25, p.Values().Mix, 1e-12)
}

func TestProcess_SequentialDoesNotAllocate(t *testing.T) {
	p := newProcessor(t, 2, Factor4x)
	buf := [][]float32{testutil.Sine(256, 440, testRate, 0.7), testutil.Sine(256, 660, testRate, 0.7)}

	allocs := testing.AllocsPerRun(50, func() {
		_ = p.Process(buf, buf)
	})
	assert.Zero(t, allocs)
}

func TestParams_Lookup(t *testing.T) {
	specs := Params()
	require.Len(t, specs, 9)
	assert.Equal(t, ParamPreGain, specs[0].ID)

	s, err := LookupParam("drive")
	require.NoError(t, err)
	assert.Equal(t, ParamDrive, s.ID)

	_, err = LookupParam("nope")
	assert.Error(t, err)
}

func BenchmarkProcess(b *testing.B) {
	for _, f := range []Factor{Factor1x, Factor2x, Factor4x} {
		b.Run(f.String(), func(b *testing.B) {
			p := newProcessor(b, 2, f)
			require.NoError(b, p.SetParam(ParamDrive, 12))
			buf := [][]float32{testutil.Sine(512, 440, testRate, 0.7), testutil.Sine(512, 550, testRate, 0.7)}

			b.ReportAllocs()
			b.SetBytes(int64(2 * 512 * 4))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = p.Process(buf, buf)
			}
		})
	}
}
