// Package testutil provides shared assertions and signal generators for the
// resampler tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/simd/f64"
)

// DBTolerance is the default tolerance for levels in dB.
const DBTolerance = 0.01

// AssertSymmetric checks that taps[i] == taps[n-1-i] within tolerance.
func AssertSymmetric(t *testing.T, taps []float64, tolerance float64) bool {
	t.Helper()
	for i, j := 0, len(taps)-1; i < j; i, j = i+1, j-1 {
		if math.Abs(taps[i]-taps[j]) > tolerance {
			return assert.Fail(t, "not symmetric",
				"taps[%d]=%g, taps[%d]=%g", i, taps[i], j, taps[j])
		}
	}
	return true
}

// AssertFinite fails on the first NaN or infinite value.
func AssertFinite(t *testing.T, values []float64) bool {
	t.Helper()
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "non-finite value", "values[%d] = %g", i, v)
		}
	}
	return true
}

// AssertDCGain checks the sum of taps against want.
func AssertDCGain(t *testing.T, taps []float64, want, tolerance float64) bool {
	t.Helper()
	got := f64.Sum(taps)
	return assert.InDelta(t, want, got, tolerance, "DC gain %g, want %g", got, want)
}

// AssertPeakAtCenter checks that no value exceeds the one at len/2.
func AssertPeakAtCenter(t *testing.T, values []float64) bool {
	t.Helper()
	if len(values) == 0 {
		return assert.Fail(t, "empty slice")
	}
	c := len(values) / 2
	for i, v := range values {
		if v > values[c] {
			return assert.Fail(t, "peak off center",
				"values[%d]=%g > values[%d]=%g", i, v, c, values[c])
		}
	}
	return true
}

// AssertRelativeError checks |got-want|/|want| <= tolerance. A zero want
// falls back to an absolute comparison.
func AssertRelativeError(t *testing.T, want, got, tolerance float64) bool {
	t.Helper()
	if want == 0 {
		return assert.InDelta(t, want, got, tolerance)
	}
	rel := math.Abs(got-want) / math.Abs(want)
	return assert.LessOrEqual(t, rel, tolerance, "got %g, want %g (relative error %.2e)", got, want, rel)
}

// AssertInRange checks lo <= v <= hi.
func AssertInRange(t *testing.T, v, lo, hi float64) bool {
	t.Helper()
	return assert.True(t, v >= lo && v <= hi, "%g outside [%g, %g]", v, lo, hi)
}

// AssertSamplesEqual compares two int16 streams and reports the first
// differing index instead of dumping both slices.
func AssertSamplesEqual(t *testing.T, expected, actual []int16, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return assert.Fail(t, "samples differ",
				"first difference at %d: expected %d, got %d", i, expected[i], actual[i])
		}
	}
	return true
}
