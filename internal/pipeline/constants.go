package pipeline

// Block and meter defaults.
const (
	// DefaultMaxBlockSize is the longest block a Channel processes in one
	// pass. Longer host blocks are split by the caller.
	DefaultMaxBlockSize = 64

	// Peak meters fall to meterDecayFraction of a held peak over
	// MeterDecayMS of silence.
	MeterDecayMS       = 650.0
	meterDecayFraction = 0.25

	minDelayCapacity = 2
)

// Drive compensation blends division by the clipped drive with division
// by the raw drive. The weight puts the level of a heavily driven sine
// around -6 dB.
const (
	driveCalibration    = 0.9310508
	invDriveCalibration = 1 - driveCalibration
)
