// Package analysis measures 16-bit PCM: level, clipping, discontinuities
// and spectral content. It backs the CLI's analyze command and the
// quality tests.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

const (
	// ClipThreshold is the magnitude at or above which a sample counts as
	// clipped.
	ClipThreshold = 32000

	// JumpThreshold is the sample-to-sample step above which a transition
	// counts as an audible discontinuity.
	JumpThreshold = 12000

	// FullScale is the reference for dBFS values.
	FullScale = 32768.0

	// SilenceDB is reported for a zero level.
	SilenceDB = -200.0

	// windowAttenuation sets the Kaiser window's sidelobe level.
	windowAttenuation = 120.0
)

// Stats summarizes a block of samples.
type Stats struct {
	Samples  int
	Peak     int
	RMS      float64
	PeakDBFS float64
	RMSDBFS  float64
	Clipped  int
	Jumps    int
}

// Measure computes Stats for samples.
func Measure(samples []int16) Stats {
	st := Stats{Samples: len(samples), PeakDBFS: SilenceDB, RMSDBFS: SilenceDB}
	if len(samples) == 0 {
		return st
	}

	x := toFloat(samples)
	st.RMS = math.Sqrt(f64.DotProduct(x, x) / float64(len(x)))

	prev := int(samples[0])
	for _, s := range samples {
		v := int(s)
		a := abs(v)
		st.Peak = max(st.Peak, a)
		if a >= ClipThreshold {
			st.Clipped++
		}
		if abs(v-prev) > JumpThreshold {
			st.Jumps++
		}
		prev = v
	}

	st.PeakDBFS = DBFS(float64(st.Peak))
	st.RMSDBFS = DBFS(st.RMS)
	return st
}

// DBFS converts a linear level in int16 units to dB relative to full scale.
func DBFS(level float64) float64 {
	if level <= 0 {
		return SilenceDB
	}
	return 20 * math.Log10(level/FullScale)
}

// ToneLevelDB estimates the peak level of a sinusoid at freq Hz in dBFS. The
// block is Kaiser windowed so that other components leak far below the
// result.
func ToneLevelDB(samples []int16, sampleRate int, freq float64) float64 {
	n := len(samples)
	if n == 0 || sampleRate <= 0 {
		return SilenceDB
	}

	w := window(n)
	x := toFloat(samples)
	for i := range x {
		x[i] *= w[i]
	}

	cos := make([]float64, n)
	sin := make([]float64, n)
	omega := 2 * math.Pi * freq / float64(sampleRate)
	for i := range n {
		cos[i] = math.Cos(omega * float64(i))
		sin[i] = math.Sin(omega * float64(i))
	}

	re := f64.DotProduct(x, cos)
	im := f64.DotProduct(x, sin)
	amplitude := 2 * math.Hypot(re, im) / f64.Sum(w)
	return DBFS(amplitude)
}

// Bin is one spectrum line.
type Bin struct {
	Freq float64
	DB   float64
}

// Spectrum returns the windowed magnitude spectrum of samples in dBFS, one
// bin per non-negative frequency up to Nyquist.
func Spectrum(samples []int16, sampleRate int) []Bin {
	n := len(samples)
	if n == 0 || sampleRate <= 0 {
		return nil
	}

	w := window(n)
	x := toFloat(samples)
	for i := range x {
		x[i] *= w[i]
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, x)
	gain := 2 / f64.Sum(w)

	bins := make([]Bin, len(coeffs))
	for i, c := range coeffs {
		bins[i] = Bin{
			Freq: fft.Freq(i) * float64(sampleRate),
			DB:   DBFS(cmplx.Abs(c) * gain),
		}
	}
	return bins
}

// Peak returns the loudest bin at or above minFreq.
func Peak(bins []Bin, minFreq float64) Bin {
	best := Bin{DB: math.Inf(-1)}
	for _, b := range bins {
		if b.Freq >= minFreq && b.DB > best.DB {
			best = b
		}
	}
	return best
}

// MaxLevel returns the loudest level in dBFS among bins in [lo, hi].
func MaxLevel(bins []Bin, lo, hi float64) float64 {
	level := SilenceDB
	for _, b := range bins {
		if b.Freq >= lo && b.Freq <= hi {
			level = max(level, b.DB)
		}
	}
	return level
}

func window(n int) []float64 {
	return filter.KaiserWindow(n, mathutil.KaiserBeta(windowAttenuation))
}

func toFloat(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
