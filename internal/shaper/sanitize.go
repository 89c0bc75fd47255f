package shaper

// Sanitize copies src into dst, replacing NaN and ±Inf with 0 and clamping
// finite samples to ±StabilityRange. dst may alias src. It returns the
// number of non-finite samples replaced.
//
// Everything downstream keeps state across blocks (DC blocker, filter
// history, dry delay), so a single bad sample must not get past here.
func Sanitize(dst, src []float32) int {
	bad := 0
	for i, x := range src {
		switch {
		case x-x != 0: // NaN or ±Inf
			dst[i] = 0
			bad++
		case x > StabilityRange:
			dst[i] = StabilityRange
		case x < -StabilityRange:
			dst[i] = -StabilityRange
		default:
			dst[i] = x
		}
	}
	return bad
}
