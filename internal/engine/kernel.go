package engine

import (
	"fmt"

	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/simd/f64"
)

// Kernel selects the interpolation kernel.
type Kernel int

const (
	// KernelSinc is the Kaiser windowed-sinc polyphase FIR. It band limits
	// both directions and is the default.
	KernelSinc Kernel = iota
	// KernelCubic is 4-point Catmull-Rom interpolation. No band limiting.
	KernelCubic
	// KernelLinear is 2-point linear interpolation. No band limiting.
	KernelLinear
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelSinc:
		return "sinc"
	case KernelCubic:
		return "cubic"
	case KernelLinear:
		return "linear"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// ParseKernel maps a kernel name back to its Kernel.
func ParseKernel(name string) (Kernel, error) {
	switch name {
	case "sinc", "":
		return KernelSinc, nil
	case "cubic":
		return KernelCubic, nil
	case "linear":
		return KernelLinear, nil
	default:
		return 0, fmt.Errorf("unknown kernel %q (want sinc, cubic or linear)", name)
	}
}

// kernel computes one output from a window of taps() history samples.
//
// The window is centered so that its output instant lies phase/up of the
// way from window[taps()/2-1] to window[taps()/2].
type kernel interface {
	taps() int
	phases() int
	apply(window []float64, phase int) float64
}

// sincKernel evaluates a polyphase bank, interpolating between stored
// rows when the bank holds fewer rows than the ratio has phases.
type sincKernel struct {
	bank *filter.Bank
	up   int
}

func newSincKernel(up, down int, params Params) (*sincKernel, error) {
	bank, err := filter.DesignBank(filter.BankParams{
		Up:            up,
		Down:          down,
		ZeroCrossings: params.ZeroCrossings,
		Attenuation:   params.Attenuation,
		CutoffFactor:  params.CutoffFactor,
		MaxPhases:     params.MaxPhases,
	})
	if err != nil {
		return nil, err
	}
	return &sincKernel{bank: bank, up: up}, nil
}

func (k *sincKernel) taps() int { return k.bank.Taps }

func (k *sincKernel) phases() int { return k.bank.Rows }

func (k *sincKernel) apply(window []float64, phase int) float64 {
	if !k.bank.Interpolated {
		return f64.DotProductUnsafe(window, k.bank.Row(phase))
	}

	// Integer-exact split of phase/up into row q plus r/up of a row step.
	scaled := phase * k.bank.Step
	q := scaled / k.up
	r := scaled % k.up

	y0 := f64.DotProductUnsafe(window, k.bank.Row(q))
	if r == 0 {
		return y0
	}
	y1 := f64.DotProductUnsafe(window, k.bank.Row(q+1))
	frac := float64(r) / float64(k.up)
	return y0 + frac*(y1-y0)
}

// cubicKernel is Catmull-Rom interpolation over 4 samples.
type cubicKernel struct {
	up int
}

func (k *cubicKernel) taps() int { return cubicTaps }

func (k *cubicKernel) phases() int { return k.up }

func (k *cubicKernel) apply(window []float64, phase int) float64 {
	x := float64(phase) / float64(k.up)
	y0, y1, y2, y3 := window[0], window[1], window[2], window[3]

	coefA := -hermiteCoeff0_5*y0 + hermiteCoeff1_5*y1 - hermiteCoeff1_5*y2 + hermiteCoeff0_5*y3
	coefB := y0 - hermiteCoeff2_5*y1 + 2*y2 - hermiteCoeff0_5*y3
	coefC := -hermiteCoeff0_5*y0 + hermiteCoeff0_5*y2

	return ((coefA*x+coefB)*x+coefC)*x + y1
}

// linearKernel interpolates between two neighbouring samples.
type linearKernel struct {
	up int
}

func (k *linearKernel) taps() int { return linearTaps }

func (k *linearKernel) phases() int { return k.up }

func (k *linearKernel) apply(window []float64, phase int) float64 {
	x := float64(phase) / float64(k.up)
	return window[0] + x*(window[1]-window[0])
}
