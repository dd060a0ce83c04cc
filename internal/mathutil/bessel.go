// Package mathutil provides the numeric helpers behind filter design and
// rate arithmetic.
package mathutil

import (
	"math"
)

// besselKnee splits the two Abramowitz & Stegun approximations of I₀
// (9.8.1 below, 9.8.2 above).
const besselKnee = 3.75

// Polynomial coefficients in ascending powers of (x/3.75)², 9.8.1.
var besselI0Small = [...]float64{
	1.0, 3.5156229, 3.0899424, 1.2067492, 0.2659732, 0.360768e-1, 0.45813e-2,
}

// Polynomial coefficients in ascending powers of 3.75/x, 9.8.2.
var besselI0Large = [...]float64{
	0.39894228, 0.1328592e-1, 0.225319e-2, -0.157565e-2, 0.916281e-2,
	-0.2057706e-1, 0.2635537e-1, -0.1647633e-1, 0.392377e-2,
}

// BesselI0 computes the modified Bessel function of the first kind, order zero.
//
// It is only used to shape Kaiser windows, so the ~1e-7 relative accuracy of
// the Abramowitz & Stegun approximations is more than enough.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < besselKnee {
		t := x / besselKnee
		return horner(besselI0Small[:], t*t)
	}
	return math.Exp(ax) / math.Sqrt(ax) * horner(besselI0Large[:], besselKnee/ax)
}

// horner evaluates Σ c[i]·x^i.
func horner(c []float64, x float64) float64 {
	var y float64
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}

// Kaiser & Schafer design formula breakpoints in dB.
const (
	kaiserHighAtt = 50.0
	kaiserLowAtt  = 21.0
)

// KaiserBeta returns the Kaiser window β that achieves the given stopband
// attenuation in dB:
//
//	att > 50:        β = 0.1102 * (att - 8.7)
//	21 <= att <= 50: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//	att < 21:        β = 0 (rectangular window)
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserHighAtt:
		return 0.1102 * (attenuation - 8.7)
	case attenuation >= kaiserLowAtt:
		d := attenuation - kaiserLowAtt
		return 0.5842*math.Pow(d, 0.4) + 0.07886*d
	default:
		return 0
	}
}
