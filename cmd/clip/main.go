// Command clip shows what the clipper does to a signal: its parameters,
// latency, meter readings on a test tone and the static transfer curve.
//
// Usage:
//
//	clip -drive 18 -hardness 0.8
//	clip -factor 2 -points 25 -min-db -48 -max-db 6
//	clip -demo
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	clipper "github.com/tphakala/go-audio-clipper"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.WithError(err).Fatal("clip failed")
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("clip", flag.ContinueOnError)
	var (
		sampleRate = fs.Float64("rate", defaultSampleRate, "Sample rate in Hz")
		channels   = fs.Int("channels", defaultChannels, "Number of audio channels")
		factor     = fs.Int("factor", defaultFactor, "Oversampling factor: 1, 2 or 4")
		drive      = fs.Float64("drive", 0, "Drive in dB")
		threshold  = fs.Float64("threshold", 0, "Threshold in dB")
		hardness   = fs.Float64("hardness", clipper.DefaultValues().Hardness, "Hardness from 0 (soft) to 1 (hard)")
		mix        = fs.Float64("mix", 1, "Dry/wet mix from 0 to 1")
		points     = fs.Int("points", defaultPoints, "Transfer curve points")
		minDB      = fs.Float64("min-db", defaultMinDB, "Lowest curve input level in dB")
		maxDB      = fs.Float64("max-db", defaultMaxDB, "Highest curve input level in dB")
		demo       = fs.Bool("demo", false, "Run a demonstration")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	logrus.SetLevel(logrus.WarnLevel)

	if *demo {
		return runDemo(out, *sampleRate)
	}

	v := clipper.DefaultValues()
	v.DriveDB = *drive
	v.ThresholdDB = *threshold
	v.Hardness = *hardness
	v.Mix = *mix

	config := clipper.DefaultConfig(*sampleRate, *channels)
	config.Factor = clipper.Factor(*factor)
	config.Params = &v
	p, err := clipper.New(config)
	if err != nil {
		return fmt.Errorf("failed to create clipper: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Clipper created:\n")
	_, _ = fmt.Fprintf(out, "  Oversampling: %s\n", config.Factor)
	_, _ = fmt.Fprintf(out, "  Latency: %d samples (%.3f ms)\n", p.Latency(), 1000*float64(p.Latency())/config.SampleRate)
	_, _ = fmt.Fprintf(out, "  Channels: %d\n", config.Channels)
	printParams(out, p.Values())

	// Example: process a test signal
	_, _ = fmt.Fprintf(out, "\nProcessing %.0f Hz test tone at %.1f dBFS...\n",
		testSignalFrequency, 20*math.Log10(testSignalAmplitude))
	buf := make([][]float32, config.Channels)
	for ch := range buf {
		buf[ch] = generateTestSignal(testSignalSamples, *sampleRate)
	}
	if err := p.Process(buf, buf); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	level, err := p.Level(0)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "  Input peak:  %7.2f dB\n", level.InputDB)
	_, _ = fmt.Fprintf(out, "  Output peak: %7.2f dB\n", level.OutputDB)

	curve, err := p.TransferCurve(*points, *minDB, *maxDB)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\nTransfer curve:\n")
	printCurve(out, curve)
	return nil
}

func printParams(out io.Writer, v clipper.Values) {
	_, _ = fmt.Fprintf(out, "  Parameters:\n")
	for _, spec := range clipper.Params() {
		_, _ = fmt.Fprintf(out, "    %-13s %s\n", spec.Name+":", spec.Format(v.Get(spec.ID)))
	}
}

// printCurve draws one bar per point, scaled from the lowest to the highest
// output level in the curve.
func printCurve(out io.Writer, curve []clipper.CurvePoint) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range curve {
		lo = min(lo, pt.OutputDB)
		hi = max(hi, pt.OutputDB)
	}
	span := max(hi-lo, 1e-9)

	for _, pt := range curve {
		width := int(math.Round((pt.OutputDB - lo) / span * plotWidth))
		_, _ = fmt.Fprintf(out, "  %7.2f dB -> %7.2f dB |%s\n", pt.InputDB, pt.OutputDB, strings.Repeat("#", width))
	}
}

func generateTestSignal(samples int, sampleRate float64) []float32 {
	signal := make([]float32, samples)

	omega := 2 * math.Pi * testSignalFrequency / sampleRate
	for i := range signal {
		signal[i] = float32(testSignalAmplitude * math.Sin(omega*float64(i)))
	}

	return signal
}

func runDemo(out io.Writer, sampleRate float64) error {
	_, _ = fmt.Fprintln(out, "=== Go Audio Clipper Demo ===")

	// Demo 1: Hardness against drive
	_, _ = fmt.Fprintln(out, "1. Output peak (dB) by hardness and drive")
	_, _ = fmt.Fprintln(out, "-----------------------------------------")
	_, _ = fmt.Fprintf(out, "%10s", "hardness")
	for _, d := range demoDrives {
		_, _ = fmt.Fprintf(out, "%9.0f dB", d)
	}
	_, _ = fmt.Fprintln(out)

	tone := generateTestSignal(testSignalSamples, sampleRate)
	for _, h := range demoHardness {
		_, _ = fmt.Fprintf(out, "%10.2f", h)
		for _, d := range demoDrives {
			v := clipper.DefaultValues()
			v.Hardness = h
			v.DriveDB = d

			clipped, err := clipper.ClipMono(tone, sampleRate, v)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%12.2f", peakDB(clipped))
		}
		_, _ = fmt.Fprintln(out)
	}

	// Demo 2: Latency by factor
	_, _ = fmt.Fprintln(out, "\n2. Latency by oversampling factor")
	_, _ = fmt.Fprintln(out, "---------------------------------")
	for _, f := range []clipper.Factor{clipper.Factor1x, clipper.Factor2x, clipper.Factor4x} {
		p, err := clipper.NewStereo(sampleRate, f, clipper.DefaultValues())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "  %s: %d samples\n", f, p.Latency())
	}

	// Demo 3: Multi-channel processing
	_, _ = fmt.Fprintln(out, "\n3. Multi-channel processing")
	_, _ = fmt.Fprintln(out, "---------------------------")
	for _, ch := range demoChannels {
		config := clipper.DefaultConfig(sampleRate, ch)
		config.EnableParallel = true
		p, err := clipper.New(config)
		if err != nil {
			_, _ = fmt.Fprintf(out, "  %d channels: Error - %v\n", ch, err)
			continue
		}

		buf := make([][]float32, ch)
		for i := range buf {
			buf[i] = append([]float32(nil), tone...)
		}
		if err := p.Process(buf, buf); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "  %d channels: loudest output %.2f dB\n", ch, p.PeakDB())
	}

	_, _ = fmt.Fprintln(out, "\n=== Demo Complete ===")
	return nil
}

func peakDB(s []float32) float64 {
	var peak float64
	for _, x := range s {
		peak = max(peak, math.Abs(float64(x)))
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(peak)
}
