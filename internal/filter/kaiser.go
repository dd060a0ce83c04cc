// Package filter designs the Kaiser windowed-sinc lowpass filters used by
// the streaming resampler.
package filter

import (
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

const (
	// Window normalization
	windowNormalizationFactor = 2.0

	// Sinc function constants
	sincZeroThreshold = 1e-10

	// Frequency response defaults
	defaultResponsePoints = 512
)

// KaiserWindow generates a symmetric Kaiser window of the given length:
//
//	w[n] = I₀(β·sqrt(1 - ((n - α)/α)²)) / I₀(β),  α = (N-1)/2
//
// The center tap is 1.0 and w[i] = w[length-1-i].
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1.0
		return window
	}

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}

	return window
}

// KaiserAt evaluates the continuous Kaiser window at x, where x is the
// offset from the center divided by the half width. It is zero for |x| >= 1.
func KaiserAt(x, beta float64) float64 {
	if x <= -1 || x >= 1 {
		return 0
	}
	return mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / mathutil.BesselI0(beta)
}

// Sinc returns the normalized sinc sin(πx)/(πx), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1.0
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates the DTFT of a FIR filter at numPoints
// frequencies between DC and Nyquist. numPoints <= 0 selects 512.
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / float64(windowNormalizationFactor*numPoints)
		response.Frequencies[k] = freq
		realPart, imagPart := dtft(coeffs, freq)
		response.Magnitude[k] = math.Hypot(realPart, imagPart)
		response.Phase[k] = math.Atan2(imagPart, realPart)
	}

	return response
}

// MagnitudeAt returns the linear magnitude response of coeffs at a single
// normalized frequency (cycles per sample).
func MagnitudeAt(coeffs []float64, freq float64) float64 {
	realPart, imagPart := dtft(coeffs, freq)
	return math.Hypot(realPart, imagPart)
}

// dtft computes H(e^jω) = Σ h[n]·e^(-jωn).
func dtft(coeffs []float64, freq float64) (realPart, imagPart float64) {
	omega := windowNormalizationFactor * math.Pi * freq
	for n, h := range coeffs {
		angle := omega * float64(n)
		realPart += h * math.Cos(angle)
		imagPart -= h * math.Sin(angle)
	}
	return realPart, imagPart
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-10 // Avoid log(0)
		dbMultiplier = 20.0  // 20*log10 for magnitude
	)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
