// Command clip-wav renders WAV audio files through the oversampled clipper.
//
// Usage:
//
//	clip-wav -drive 12 input.wav output.wav
//	clip-wav -drive 24 -hardness 90 -threshold -6 input.wav output.wav
//	clip-wav -factor 2 -fast input.wav output.wav        # 2x oversampling, lookup-table shaper
//	clip-wav -parallel=false input.wav out.wav           # Disable parallel processing
//
// Every plugin parameter has a flag named after its key. Values accept the
// display unit, so "-pre-gain '-3 dB'" and "-mix 50%" both work; percentages
// are given as 0 to 100. The output is aligned with the input: the
// processing latency is trimmed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	clipper "github.com/tphakala/go-audio-clipper"
)

const (
	// Buffer size for processing (number of frames per chunk)
	bufferSize = 16384

	monoChannels = 1

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	// WAV audio format tag for integer PCM
	wavFormatPCM = 1

	// CLI defaults
	defaultFactor   = 4
	minRequiredArgs = 2
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		logrus.WithError(err).Fatal("clip-wav failed")
	}
}

// options holds parsed command line settings.
type options struct {
	inputPath  string
	outputPath string
	factor     int
	blockSize  int
	fast       bool
	parallel   bool
	verbose    bool
	cpuprofile string
	params     paramFlags
}

func parseArgs(args []string, errOut io.Writer) (*options, error) {
	fs := flag.NewFlagSet("clip-wav", flag.ContinueOnError)
	fs.SetOutput(errOut)
	opts := &options{params: paramFlags{}}

	fs.IntVar(&opts.factor, "factor", defaultFactor, "Oversampling factor: 1, 2 or 4")
	fs.IntVar(&opts.blockSize, "block", clipper.DefaultConfig(clipper.RateDAT, 1).MaxBlockSize, "Internal block size in frames")
	fs.BoolVar(&opts.fast, "fast", false, "Use the lookup-table waveshaper")
	fs.BoolVar(&opts.parallel, "parallel", true, "Enable parallel channel processing (faster for stereo/multichannel)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.StringVar(&opts.cpuprofile, "cpuprofile", "", "Write CPU profile to file (for PGO)")
	opts.params.register(fs)

	fs.Usage = func() {
		out := fs.Output()
		_, _ = fmt.Fprintf(out, "Usage: clip-wav [options] input.wav output.wav\n\nOptions:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(out, "\nExamples:\n")
		_, _ = fmt.Fprintf(out, "  clip-wav -drive 12 input.wav output.wav           # Moderate clipping\n")
		_, _ = fmt.Fprintf(out, "  clip-wav -hardness 100 -drive 18 drums.wav out.wav # Hard digital clip\n")
		_, _ = fmt.Fprintf(out, "  clip-wav -mix 50%% -drive 24 bass.wav bass_par.wav # Parallel distortion\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return nil, errors.New("insufficient arguments")
	}
	opts.inputPath = fs.Arg(0)
	opts.outputPath = fs.Arg(1)
	return opts, nil
}

func run(args []string, errOut io.Writer) error {
	opts, err := parseArgs(args, errOut)
	if err != nil {
		return err
	}

	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	// Start CPU profiling if requested (for PGO)
	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	start := time.Now()
	stats, err := clipWAV(opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Clipped %s -> %s\n", filepath.Base(opts.inputPath), filepath.Base(opts.outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %dx oversampling\n",
		stats.sampleRate, stats.channels, stats.bitDepth, opts.factor)
	fmt.Printf("  %d frames, latency %d frames (trimmed)\n", stats.frames, stats.latency)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.frames)/float64(stats.sampleRate)/elapsed.Seconds())

	return nil
}

type clipStats struct {
	sampleRate int
	channels   int
	bitDepth   int
	latency    int
	frames     int64
}

// newProcessor builds a clipper for the input file and applies the
// command line parameters.
func newProcessor(opts *options, input *wavInputInfo) (*clipper.Processor, error) {
	config := &clipper.Config{
		SampleRate:     float64(input.rate),
		Channels:       input.channels,
		Factor:         clipper.Factor(opts.factor),
		MaxBlockSize:   opts.blockSize,
		FastShaper:     opts.fast,
		EnableParallel: opts.parallel,
	}
	p, err := clipper.New(config)
	if err != nil {
		return nil, err
	}
	if err := opts.params.apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

func clipWAV(opts *options) (stats *clipStats, err error) {
	// 1. Open and validate input
	input, err := openWAVInput(opts.inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	// 2. Create processor
	proc, err := newProcessor(opts, input)
	if err != nil {
		return nil, err
	}

	// 3. Create output writer
	output, err := createWAVOutput(opts.outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	// 4. Initialize processing buffers and tracking
	buffers := newClipBuffers(input.channels, input.bitDepth, input.format)
	stats = &clipStats{
		sampleRate: input.rate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
		latency:    proc.Latency(),
	}
	trimmer := &latencyTrimmer{remaining: proc.Latency()}
	progress := newProgressTracker(input.totalFrames, opts.verbose)

	// 5. Main processing loop
	for {
		buffers.intBuffer.Data = buffers.intBuffer.Data[:cap(buffers.intBuffer.Data)]
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}

		deinterleaveInto(buffers.intBuffer.Data, buffers.channelBufs, input.channels, frames, buffers.invMaxVal)
		if err := writeBlock(proc, output, buffers, trimmer, frames); err != nil {
			return nil, err
		}

		stats.frames += int64(frames)
		progress.reportIfNeeded(stats.frames)
	}

	// 6. Flush the latency with silence
	for remaining := proc.Latency(); remaining > 0; {
		frames := min(remaining, bufferSize)
		for ch := range buffers.channelBufs {
			clear(buffers.channelBufs[ch][:frames])
		}
		if err := writeBlock(proc, output, buffers, trimmer, frames); err != nil {
			return nil, err
		}
		remaining -= frames
	}

	for ch, level := range proc.Levels() {
		logrus.WithFields(logrus.Fields{
			"channel":   ch,
			"input_db":  level.InputDB,
			"output_db": level.OutputDB,
		}).Debug("Final meter levels")
	}
	return stats, nil
}

// writeBlock clips frames of the channel buffers in place and writes what
// remains after latency trimming.
func writeBlock(proc *clipper.Processor, output *wavOutputWriter, buffers *clipBuffers, trimmer *latencyTrimmer, frames int) error {
	block := buffers.frames(frames)
	if err := proc.Process(block, block); err != nil {
		return fmt.Errorf("clipping failed: %w", err)
	}

	skip := trimmer.trim(frames)
	if skip == frames {
		return nil
	}
	n := interleaveInto(sliceFrames(block, skip, frames), buffers.outputIntBuf, buffers.maxVal)
	if err := output.WriteSamples(buffers.outputIntBuf[:n]); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return nil
}
