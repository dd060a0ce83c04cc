package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

const (
	// Phase budget bounds
	minPhases = 2
	maxPhases = 8192

	// Filter length bounds (total taps per phase row)
	minBankTaps = 2
	maxBankTaps = 8190

	// Zero crossings of the sinc kept on each side of the center
	minZeroCrossings = 2
	maxZeroCrossings = 256

	// Cutoff factor bounds, relative to min(input, output) Nyquist
	maxCutoffFactor = 0.99
)

// BankParams describes a polyphase lowpass bank for an L/M rational ratio.
type BankParams struct {
	// Up is the reduced interpolation factor L (output samples per M inputs).
	Up int

	// Down is the reduced decimation factor M.
	Down int

	// ZeroCrossings is the number of sinc zero crossings on each side of
	// the center. Longer filters give steeper transitions.
	ZeroCrossings int

	// Attenuation is the Kaiser stopband attenuation target in dB.
	Attenuation float64

	// CutoffFactor places the cutoff as a fraction of the lower of the two
	// Nyquist frequencies, in (0, 0.99].
	CutoffFactor float64

	// MaxPhases bounds the number of stored phase rows. When Up exceeds it,
	// MaxPhases+1 rows are stored and intermediate phases are interpolated.
	MaxPhases int
}

// Validate checks if bank parameters are valid.
func (bp *BankParams) Validate() error {
	if bp.Up < 1 || bp.Down < 1 {
		return fmt.Errorf("invalid ratio %d/%d (both factors must be >= 1)", bp.Up, bp.Down)
	}

	if bp.ZeroCrossings < minZeroCrossings || bp.ZeroCrossings > maxZeroCrossings {
		return fmt.Errorf("zero crossings %d out of range [%d, %d]",
			bp.ZeroCrossings, minZeroCrossings, maxZeroCrossings)
	}

	if bp.Attenuation < 0 {
		return fmt.Errorf("attenuation %f dB must be positive", bp.Attenuation)
	}

	if bp.CutoffFactor <= 0 || bp.CutoffFactor > maxCutoffFactor {
		return fmt.Errorf("cutoff factor %f out of range (0, %.2f]", bp.CutoffFactor, maxCutoffFactor)
	}

	if bp.MaxPhases < minPhases || bp.MaxPhases > maxPhases {
		return fmt.Errorf("phase budget %d out of range [%d, %d]", bp.MaxPhases, minPhases, maxPhases)
	}

	return nil
}

// Bank is a polyphase decomposition of a Kaiser windowed-sinc lowpass.
//
// Row p holds the taps for an output that falls p/Step of the way between
// two input samples. Tap j of a row weights the input p/Step + Taps/2-1-j
// samples before the output instant, so a window of Taps consecutive inputs
// is centered on the output. Every row has unit DC gain.
type Bank struct {
	// Coeffs stores the rows back to back: row p is Coeffs[p*Taps : (p+1)*Taps].
	Coeffs []float64

	// Rows is the number of stored phase rows.
	Rows int

	// Taps is the number of taps per row. Always even.
	Taps int

	// Step is the fractional phase resolution: row p sits at offset p/Step.
	// Equal to Up for exact banks and to MaxPhases for interpolated banks.
	Step int

	// Interpolated reports whether Rows = Step+1 and phases between rows
	// must be linearly interpolated.
	Interpolated bool

	// Cutoff is the cutoff relative to the input Nyquist frequency.
	Cutoff float64

	// Beta is the Kaiser window β.
	Beta float64
}

// DesignBank builds the polyphase bank described by params.
//
// The prototype is h(t) = fc·sinc(fc·t)·kaiser(t/W), with t in input
// samples, fc = CutoffFactor·min(1, Up/Down) and W = ZeroCrossings/fc
// (clipped to the tap budget).
func DesignBank(params BankParams) (*Bank, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bank parameters: %w", err)
	}

	fc := params.CutoffFactor * math.Min(1.0, float64(params.Up)/float64(params.Down))
	halfSupport := float64(params.ZeroCrossings) / fc

	half := int(math.Ceil(halfSupport))
	half = max(half, minBankTaps/2)
	half = min(half, maxBankTaps/2)
	taps := 2 * half
	width := math.Min(halfSupport, float64(half))

	bank := &Bank{
		Taps:   taps,
		Cutoff: fc,
		Beta:   mathutil.KaiserBeta(params.Attenuation),
	}

	if params.Up <= params.MaxPhases {
		bank.Step = params.Up
		bank.Rows = params.Up
	} else {
		bank.Step = params.MaxPhases
		bank.Rows = params.MaxPhases + 1
		bank.Interpolated = true
	}

	bank.Coeffs = make([]float64, bank.Rows*taps)
	for p := range bank.Rows {
		row := bank.Coeffs[p*taps : (p+1)*taps]
		offset := float64(p) / float64(bank.Step)
		for j := range taps {
			t := offset + float64(half-1-j)
			row[j] = fc * Sinc(fc*t) * KaiserAt(t/width, bank.Beta)
		}
		normalizeRow(row)
	}

	return bank, nil
}

// normalizeRow scales a phase row to unit DC gain.
func normalizeRow(row []float64) {
	sum := f64.Sum(row)
	if math.Abs(sum) > sincZeroThreshold {
		f64.Scale(row, row, 1.0/sum)
	}
}

// Row returns the taps of phase row p.
func (b *Bank) Row(p int) []float64 {
	start := p * b.Taps
	return b.Coeffs[start : start+b.Taps : start+b.Taps]
}

// Half returns the number of taps on each side of the output instant.
func (b *Bank) Half() int {
	return b.Taps / 2
}

// Prototype reassembles the rows of an exact bank into the single lowpass
// filter they were cut from, sampled at Step times the input rate. Each row
// has unit DC gain, so the prototype's DC gain is Step.
func (b *Bank) Prototype() []float64 {
	rows := b.Rows
	if b.Interpolated {
		rows = b.Step
	}
	proto := make([]float64, rows*b.Taps)
	for p := range rows {
		row := b.Row(p)
		for j, c := range row {
			// Row p tap j sits at t = p/rows + half-1-j input samples.
			idx := (b.Taps-1-j)*rows + p
			proto[idx] = c
		}
	}
	return proto
}

// MemoryUsage returns the approximate coefficient storage in bytes.
func (b *Bank) MemoryUsage() int64 {
	const bytesPerFloat64 = 8
	return int64(len(b.Coeffs)) * bytesPerFloat64
}
