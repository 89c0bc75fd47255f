package mathutil

// Threshold between the polynomial and asymptotic I₀ approximations.
const besselSmallArgThreshold = 3.75

// Polynomial coefficients for I₀(x), |x| < 3.75
// (Abramowitz & Stegun 9.8.1).
const (
	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2
)

// Asymptotic coefficients for I₀(x), |x| >= 3.75
// (Abramowitz & Stegun 9.8.2).
const (
	besselI0AsympCoeff0 = 0.39894228
	besselI0AsympCoeff1 = 0.1328592e-1
	besselI0AsympCoeff2 = 0.225319e-2
	besselI0AsympCoeff3 = -0.157565e-2
	besselI0AsympCoeff4 = 0.916281e-2
	besselI0AsympCoeff5 = -0.2057706e-1
	besselI0AsympCoeff6 = 0.2635537e-1
	besselI0AsympCoeff7 = -0.1647633e-1
	besselI0AsympCoeff8 = 0.392377e-2
)

// Kaiser & Schafer window formulas.
const (
	kaiserAttHigh   = 50.0
	kaiserAttMedium = 21.0

	kaiserBetaHighCoeff1 = 0.1102
	kaiserBetaHighOffset = 8.7

	kaiserBetaMediumCoeff1 = 0.5842
	kaiserBetaMediumPower  = 0.4
	kaiserBetaMediumCoeff2 = 0.07886

	// N ≈ (att - 8) / (2.285 * 2π * Δf)
	kaiserFilterLengthOffset     = 8.0
	kaiserFilterLengthMultiplier = 2.285
)

// Half-band filter lengths are 4K-1 taps, K >= 1.
const (
	halfBandLengthModulus = 4
	minHalfBandK          = 1
	maxHalfBandK          = 256

	// Absorbs rounding when a length is recovered from its own width.
	lengthRoundingSlack = 1e-9
)

// Level conversion constants.
const (
	dbToLog      = 0.11512925464970228 // ln(10) / 20
	dbAmplitude  = 20.0
	minMagnitude = 1e-10

	msPerSecond = 1000.0
)
