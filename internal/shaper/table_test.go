package shaper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Invalid(t *testing.T) {
	_, err := NewTable(1, 100)
	assert.ErrorIs(t, err, ErrInvalidTable)
	_, err = NewTable(10, 0)
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestTable_MatchesExact(t *testing.T) {
	tbl := SharedTable()

	var worst, worstSoft float64
	for hi := 0; hi <= 100; hi++ {
		h := float32(hi) / 100
		for xi := 0; xi <= 1700; xi++ {
			x := float32(xi)*0.01 + 0.003
			d := math.Abs(float64(tbl.Lookup(x, h) - Apply(x, h)))
			worst = max(worst, d)
			if h <= 0.8 {
				worstSoft = max(worstSoft, d)
			}
		}
	}

	assert.Less(t, worst, 2e-3)
	assert.Less(t, worstSoft, 5e-4)
}

func TestTable_ExactAtGridPoints(t *testing.T) {
	tbl, err := NewTable(5, 17)
	require.NoError(t, err)

	for _, h := range []float32{0, 0.25, 0.5, 0.75, 1} {
		for j := range 17 {
			x := float32(j)
			assert.InDelta(t, Apply(x, h), tbl.Lookup(x, h), 1e-6, "h=%g x=%g", h, x)
		}
	}
}

func TestTable_Properties(t *testing.T) {
	tbl := SharedTable()
	for _, h := range testHardness {
		c := tbl.Curve(h)
		prev := c.Apply(-20)
		for _, x := range inputs() {
			y := c.Apply(x)
			assert.Equal(t, -y, c.Apply(-x), "odd h=%g x=%g", h, x)
			// float32 interpolation may round by an ulp on saturated rows
			assert.GreaterOrEqual(t, y, prev-1e-6, "monotone h=%g x=%g", h, x)
			assert.LessOrEqual(t, math.Abs(float64(y)), Ceiling)
			prev = y
		}
	}
}

func TestTable_NonFinite(t *testing.T) {
	c := SharedTable().Curve(0.3)
	assert.Zero(t, c.Apply(float32(math.NaN())))
	assert.Equal(t, float32(Ceiling), c.Apply(float32(math.Inf(1))))
	assert.Equal(t, float32(-Ceiling), c.Apply(float32(math.Inf(-1))))
}

func TestSharedTable_Once(t *testing.T) {
	assert.Same(t, SharedTable(), SharedTable())
}

func BenchmarkTableApply(b *testing.B) {
	c := SharedTable().Curve(0.843)
	xs := inputs()
	var sink float32
	for b.Loop() {
		for _, x := range xs {
			sink += c.Apply(x)
		}
	}
	_ = sink
}
