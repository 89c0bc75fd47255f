// Command analyze-filter prints the design and measured response of the
// half-band stages used by the oversampler.
//
// Usage:
//
//	analyze-filter                        # Both built-in stages
//	analyze-filter -order 12 -atten 90    # A custom half-band design
//	analyze-filter -transition 0.05       # Size a design from its transition width
//	analyze-filter -fft 65536             # Finer frequency grid
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-audio-clipper/internal/filter"
	"github.com/tphakala/go-audio-clipper/internal/oversample"
)

const (
	// Display limits
	maxTapsToShow = 6 // Branch taps printed from the centre outwards
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.WithError(err).Fatal("analyze-filter failed")
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze-filter", flag.ContinueOnError)
	order := fs.Int("order", 0, "Design a custom half-band with this many taps per branch half (0 = built-in stages)")
	atten := fs.Float64("atten", filter.Stage1Attenuation, "Stopband attenuation in dB for -order")
	transition := fs.Float64("transition", 0, "Transition width as a fraction of the rate; picks -order when it is not given")
	fftSize := fs.Int("fft", filter.DefaultFFTSize, "FFT length for the response measurement")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *order == 0 && *transition > 0 {
		*order = filter.OrderFor(*atten, *transition)
	}
	if *order > 0 {
		h, err := filter.DesignHalfBand(*order, *atten)
		if err != nil {
			return err
		}
		return report(out, "Custom half-band", h, *fftSize)
	}

	stages := []struct {
		name string
		h    *filter.HalfBand
	}{
		{"Stage 1 (1x <-> 2x)", filter.HalfBandStage1()},
		{"Stage 2 (2x <-> 4x)", filter.HalfBandStage2()},
	}
	for _, s := range stages {
		if err := report(out, s.name, s.h, *fftSize); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(out, "=== Round-trip latency (base-rate samples) ===\n")
	for _, f := range []oversample.Factor{oversample.Factor1x, oversample.Factor2x, oversample.Factor4x} {
		_, _ = fmt.Fprintf(out, "  %s: %d\n", f, oversample.LatencyFor(f))
	}
	return nil
}

// report prints the design parameters, branch gains and measured response
// of one half-band filter.
func report(out io.Writer, name string, h *filter.HalfBand, fftSize int) error {
	a, err := filter.Analyze(h, fftSize)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "=== %s ===\n", name)
	_, _ = fmt.Fprintf(out, "  Order K:         %d\n", a.Order)
	_, _ = fmt.Fprintf(out, "  Taps:            %d (%d non-zero)\n", a.Taps, h.BranchLen()+1)
	_, _ = fmt.Fprintf(out, "  Group delay:     %d samples\n", a.GroupDelay)
	_, _ = fmt.Fprintf(out, "  Design target:   %.1f dB\n", h.Attenuation)
	_, _ = fmt.Fprintf(out, "  Transition:      %.4f\n", h.TransitionWidth())
	_, _ = fmt.Fprintf(out, "  Passband edge:   %.4f\n", a.PassbandEdge)
	_, _ = fmt.Fprintf(out, "  Stopband edge:   %.4f\n", a.StopbandEdge)
	_, _ = fmt.Fprintf(out, "  Passband ripple: %.6f dB\n", a.RippleDB)
	_, _ = fmt.Fprintf(out, "  Stopband atten:  %.2f dB\n", a.StopbandDB)
	_, _ = fmt.Fprintf(out, "  Gain at 0.25:    %.4f dB\n", a.HalfPointDB)

	// Each polyphase branch must carry half the DC gain.
	var dense float64
	for _, c := range h.Branch {
		dense += float64(c)
	}
	_, _ = fmt.Fprintf(out, "  Branch DC gain:  dense %.10f, centre %.10f\n", dense, h.Taps[h.Center()])

	_, _ = fmt.Fprintf(out, "  Taps from centre:\n")
	for i := range min(maxTapsToShow, h.Order) {
		k := h.Center() + 2*i + 1
		_, _ = fmt.Fprintf(out, "    h[c+%2d] = % .12f\n", 2*i+1, h.Taps[k])
	}
	_, _ = fmt.Fprintln(out)
	return nil
}
