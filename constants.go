package clipper

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Sample rate limits
const (
	minSampleRate = 8000.0
	maxSampleRate = 768000.0
)

// Block size limits
const (
	minBlockSize = 1
	maxBlockSize = 8192
)

// Transfer curve limits
const (
	minCurvePoints = 2
	maxCurvePoints = 65536
	curveFloorDB   = -120.0 // Output level reported for silence
)
