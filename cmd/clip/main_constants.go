package main

// Default command-line flag values
const (
	defaultSampleRate = 48000.0 // DAT/DVD sample rate
	defaultChannels   = 2       // Stereo
	defaultFactor     = 4
	defaultPoints     = 13
	defaultMinDB      = -36.0
	defaultMaxDB      = 12.0
)

// Test signal parameters
const (
	testSignalFrequency = 1000.0 // 1 kHz test tone
	testSignalSamples   = 4800   // 100 ms at 48 kHz
	testSignalAmplitude = 0.8
)

// Demo settings
var (
	demoHardness = []float64{0, 0.25, 0.5, 0.75, 1}
	demoDrives   = []float64{0, 12, 24, 36}
	demoChannels = []int{monoChannels, stereoChannels, surround5_1, surround7_1}
)

// Demo channel configurations
const (
	monoChannels   = 1
	stereoChannels = 2
	surround5_1    = 6
	surround7_1    = 8
)

// Curve plot width in characters
const plotWidth = 40
