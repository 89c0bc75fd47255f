package shaper

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Default table resolution: hardness rows × |x| columns over
// [0, StabilityRange]. Worst-case deviation from Apply is below 1e-3.
const (
	DefaultTableRows = 65
	DefaultTableCols = 1025

	minTableSize = 2
)

// ErrInvalidTable indicates a table size below 2×2.
var ErrInvalidTable = errors.New("invalid shaper table size")

// Table approximates the curve with bilinear interpolation over hardness
// and |x|, restoring the sign afterwards. Interpolating between monotone,
// bounded rows keeps the result odd, monotone and bounded.
//
// A Table is read-only after construction and safe for concurrent use.
type Table struct {
	rows, cols int
	xScale     float64 // column index per unit of |x|
	data       []float32
}

// NewTable samples the exact curve into a rows×cols table.
func NewTable(rows, cols int) (*Table, error) {
	if rows < minTableSize || cols < minTableSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTable, rows, cols)
	}

	t := &Table{
		rows:   rows,
		cols:   cols,
		xScale: float64(cols-1) / StabilityRange,
		data:   make([]float32, rows*cols),
	}

	for i := range rows {
		c := NewCurve(float32(float64(i) / float64(rows-1)))
		row := t.data[i*cols : (i+1)*cols]
		for j := range row {
			row[j] = c.Apply(float32(float64(j) / t.xScale))
		}
	}

	return t, nil
}

var (
	sharedOnce  sync.Once
	sharedTable *Table
)

// SharedTable returns the process-wide table at the default resolution,
// building it on first use.
func SharedTable() *Table {
	sharedOnce.Do(func() {
		t, err := NewTable(DefaultTableRows, DefaultTableCols)
		if err != nil {
			panic(fmt.Sprintf("shaper: default table: %v", err))
		}
		sharedTable = t
	})
	return sharedTable
}

// TableCurve is a Table bound to one hardness.
type TableCurve struct {
	lo, hi []float32 // neighbouring rows
	frac   float32   // weight of hi
	xScale float64
	cols   int
}

// Curve binds the table to hardness, clamped to [0, 1].
func (t *Table) Curve(hardness float32) TableCurve {
	h := float64(hardness)
	if !(h > 0) {
		h = 0
	}
	h = min(h, 1)

	pos := h * float64(t.rows-1)
	i := min(int(pos), t.rows-2)

	return TableCurve{
		lo:     t.data[i*t.cols : (i+1)*t.cols],
		hi:     t.data[(i+1)*t.cols : (i+2)*t.cols],
		frac:   float32(pos - float64(i)),
		xScale: t.xScale,
		cols:   t.cols,
	}
}

// Lookup shapes x with the given hardness.
func (t *Table) Lookup(x, hardness float32) float32 {
	return t.Curve(hardness).Apply(x)
}

// Apply shapes one sample. NaN maps to 0 and ±Inf to ±Ceiling.
func (c TableCurve) Apply(x float32) float32 {
	if x != x {
		return 0
	}
	xf := float64(x)
	if math.IsInf(xf, 0) {
		return float32(math.Copysign(Ceiling, xf))
	}

	pos := min(math.Abs(xf), StabilityRange) * c.xScale
	j := min(int(pos), c.cols-2)
	tx := float32(pos - float64(j))

	a := c.lo[j] + tx*(c.lo[j+1]-c.lo[j])
	b := c.hi[j] + tx*(c.hi[j+1]-c.hi[j])
	v := a + c.frac*(b-a)

	if x < 0 {
		return -v
	}
	return v
}

// ApplyBlock shapes src into dst, which may alias src.
func (c TableCurve) ApplyBlock(dst, src []float32) {
	for i, x := range src {
		dst[i] = c.Apply(x)
	}
}
