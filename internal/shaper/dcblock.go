package shaper

// DCBlockPole is the feedback coefficient of DCBlocker, a corner of roughly
// 19 Hz at 48 kHz.
const DCBlockPole = 0.9975

// DCBlocker is a one-pole, one-zero high-pass: y = x - x₁ + R·y₁.
// The zero value is ready to use. A non-finite output clears the state so
// the filter recovers on the next sample instead of ringing NaN forever.
type DCBlocker struct {
	x1, y1 float32
}

// Step filters one sample.
func (d *DCBlocker) Step(x float32) float32 {
	y := x - d.x1 + DCBlockPole*d.y1
	if y-y != 0 {
		d.Reset()
		return 0
	}
	d.x1 = x
	d.y1 = y
	return y
}

// Process filters buf in place.
func (d *DCBlocker) Process(buf []float32) {
	x1, y1 := d.x1, d.y1
	for i, x := range buf {
		y := x - x1 + DCBlockPole*y1
		if y-y != 0 {
			x, y = 0, 0
		}
		x1 = x
		y1 = y
		buf[i] = y
	}
	d.x1, d.y1 = x1, y1
}

// Reset clears the filter state.
func (d *DCBlocker) Reset() {
	d.x1, d.y1 = 0, 0
}
