// Package engine implements the streaming rational-ratio resampler that
// converts mono 16-bit PCM between two sample rates.
package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

// Params configures the interpolation kernel of a Resampler.
type Params struct {
	// Kernel selects sinc (default), cubic or linear interpolation.
	Kernel Kernel

	// ZeroCrossings is the sinc half length in zero crossings.
	ZeroCrossings int

	// Attenuation is the Kaiser stopband target in dB.
	Attenuation float64

	// CutoffFactor places the cutoff relative to the lower Nyquist
	// frequency of the pair, in (0, 0.99].
	CutoffFactor float64

	// MaxPhases bounds the stored phase rows of the sinc bank.
	MaxPhases int

	// RemoveDC enables a one-pole DC blocker on the output.
	RemoveDC bool
}

// DefaultParams returns the sinc kernel at medium quality.
func DefaultParams() Params {
	return Params{
		Kernel:        KernelSinc,
		ZeroCrossings: defaultZeroCrossings,
		Attenuation:   defaultAttenuation,
		CutoffFactor:  defaultCutoffFactor,
		MaxPhases:     defaultMaxPhases,
	}
}

// Validate checks the parameters. Sinc design fields are only checked for
// the sinc kernel.
func (p *Params) Validate() error {
	switch p.Kernel {
	case KernelCubic, KernelLinear:
		return nil
	case KernelSinc:
	default:
		return fmt.Errorf("unknown kernel %d", int(p.Kernel))
	}

	if p.ZeroCrossings < 2 {
		return fmt.Errorf("zero crossings must be >= 2, got %d", p.ZeroCrossings)
	}
	if p.CutoffFactor <= 0 || p.CutoffFactor > 0.99 {
		return fmt.Errorf("cutoff factor must be in (0, 0.99], got %f", p.CutoffFactor)
	}
	if p.Attenuation < 0 {
		return fmt.Errorf("attenuation must be positive, got %f", p.Attenuation)
	}
	if p.MaxPhases < 2 {
		return fmt.Errorf("phase budget must be >= 2, got %d", p.MaxPhases)
	}
	return nil
}

// Stats reports running totals since the last reset.
type Stats struct {
	SamplesIn  int64
	SamplesOut int64
	Buffered   int
}

// Resampler converts mono int16 samples from one rate to another,
// keeping enough state between calls that splitting the input at any
// point yields exactly the same output as a single call.
//
// A Resampler is not safe for concurrent use.
type Resampler struct {
	sourceRate int
	destRate   int
	up, down   int

	kernel   kernel
	buf      *ContinuityBuffer
	identity bool

	scratch  []float64
	removeDC bool
	dc       float64

	samplesIn  int64
	samplesOut int64
}

// New creates a resampler for sourceRate → destinationRate.
func New(sourceRate, destinationRate int, params Params) (*Resampler, error) {
	if sourceRate <= 0 || destinationRate <= 0 {
		return nil, fmt.Errorf("sample rates must be positive: source=%d, destination=%d",
			sourceRate, destinationRate)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine parameters: %w", err)
	}

	up, down := mathutil.ReduceRatio(sourceRate, destinationRate)

	r := &Resampler{
		sourceRate: sourceRate,
		destRate:   destinationRate,
		up:         up,
		down:       down,
		identity:   up == down,
		removeDC:   params.RemoveDC,
	}

	if r.identity {
		return r, nil
	}

	switch params.Kernel {
	case KernelCubic:
		r.kernel = &cubicKernel{up: up}
	case KernelLinear:
		r.kernel = &linearKernel{up: up}
	default:
		k, err := newSincKernel(up, down, params)
		if err != nil {
			return nil, fmt.Errorf("failed to design sinc kernel: %w", err)
		}
		r.kernel = k
	}

	r.buf = NewContinuityBuffer(up, down, r.kernel.taps())
	r.scratch = make([]float64, r.kernel.taps())
	return r, nil
}

// Process resamples the next chunk of input. The output may be empty while
// the filter fills. An empty input returns an empty output and leaves the
// state untouched.
func (r *Resampler) Process(in []int16) []int16 {
	if len(in) == 0 {
		return []int16{}
	}
	r.samplesIn += int64(len(in))

	if r.identity {
		return r.passthrough(in)
	}

	r.buf.Append(in)
	return r.drain(math.MaxInt)
}

// Flush pads the stream with silence, returns the outputs still owed for
// the input seen since the last reset, then resets. After Flush the total
// output count is ceil(totalIn·up/down).
func (r *Resampler) Flush() []int16 {
	defer r.Reset()

	if r.identity {
		return []int16{}
	}

	total := mathutil.CeilDiv(r.samplesIn*int64(r.up), int64(r.down))
	owed := total - r.samplesOut
	if owed <= 0 {
		return []int16{}
	}

	// The last owed output needs input up to floor((total-1)·down/up)+taps/2.
	lastInput := (total-1)*int64(r.down)/int64(r.up) + int64(r.kernel.taps()/2)
	if pad := lastInput + 1 - r.samplesIn; pad > 0 {
		r.buf.AppendSilence(int(pad))
	}
	return r.drain(int(owed))
}

// Reset clears all streaming state. The filter design is kept.
func (r *Resampler) Reset() {
	if r.buf != nil {
		r.buf.Reset()
	}
	r.dc = 0
	r.samplesIn = 0
	r.samplesOut = 0
}

// drain emits up to limit outputs whose windows are complete.
func (r *Resampler) drain(limit int) []int16 {
	out := make([]int16, 0, r.pending())
	for len(out) < limit && r.buf.Ready() {
		copy(r.scratch, r.buf.Window())
		y := r.kernel.apply(r.scratch, r.buf.Phase())
		out = append(out, r.finish(y))
		r.buf.Advance()
	}
	r.buf.Compact()
	r.samplesOut += int64(len(out))
	return out
}

// pending estimates how many outputs the current history can produce.
func (r *Resampler) pending() int {
	avail := r.buf.Buffered() - r.buf.taps - r.buf.pos + 1
	if avail <= 0 {
		return 0
	}
	return int(mathutil.CeilDiv(int64(avail)*int64(r.up), int64(r.down)))
}

func (r *Resampler) passthrough(in []int16) []int16 {
	out := make([]int16, len(in))
	if !r.removeDC {
		copy(out, in)
	} else {
		for i, s := range in {
			out[i] = r.finish(float64(s))
		}
	}
	r.samplesOut += int64(len(out))
	return out
}

// finish applies the optional DC blocker, rounds half to even and
// saturates to int16.
func (r *Resampler) finish(y float64) int16 {
	if r.removeDC {
		r.dc = dcPole*r.dc + dcGain*y
		y -= r.dc
	}
	y = math.RoundToEven(y)
	switch {
	case y > maxInt16:
		return maxInt16
	case y < minInt16:
		return minInt16
	default:
		return int16(y)
	}
}

// Latency returns the filter lookahead in input samples: an input sample
// first influences the output once this many later samples have arrived.
func (r *Resampler) Latency() int {
	if r.identity {
		return 0
	}
	return r.kernel.taps() / 2
}

// Ratio returns the reduced ratio up/down (output samples per down inputs).
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Rates returns the source and destination sample rates.
func (r *Resampler) Rates() (source, destination int) {
	return r.sourceRate, r.destRate
}

// Phases returns the number of stored phase rows (0 for the bypass).
func (r *Resampler) Phases() int {
	if r.identity {
		return 0
	}
	return r.kernel.phases()
}

// Taps returns the kernel length in input samples (0 for the bypass).
func (r *Resampler) Taps() int {
	if r.identity {
		return 0
	}
	return r.kernel.taps()
}

// IsIdentity reports whether source and destination rates are equal.
func (r *Resampler) IsIdentity() bool {
	return r.identity
}

// FramePos returns the fractional position of the next output between two
// input samples, in [0, 1).
func (r *Resampler) FramePos() float64 {
	if r.identity {
		return 0
	}
	return r.buf.FramePos()
}

// Stats returns running totals since the last reset.
func (r *Resampler) Stats() Stats {
	s := Stats{SamplesIn: r.samplesIn, SamplesOut: r.samplesOut}
	if r.buf != nil {
		s.Buffered = r.buf.Buffered()
	}
	return s
}
