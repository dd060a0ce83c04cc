package commands

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	resampler "github.com/tphakala/go-pcm-resampler"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

const (
	// Grid points used to scan each band of the prototype response
	responseGridPoints = 256

	// The stopband scan starts this many cutoffs above DC and covers the
	// same width again.
	stopbandStart = 1.5
	stopbandEnd   = 3.0

	// The passband scan stops short of the cutoff by this fraction.
	passbandEdge = 0.6
)

var (
	filterFrom int
	filterTo   int
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print the polyphase filter designed for a rate pair",
	Long: `Design the sinc bank for a rate pair and report its response.

The rows of the bank are reassembled into the prototype lowpass, whose
gain is scanned over the passband, at the cutoff and over the stopband.
Frequencies are given relative to the input Nyquist.

Examples:
  psampler filter --from 44100 --to 16000
  psampler filter --from 8000 --to 48000 --quality high`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		quality, kernel, err := resamplerOptions(globalConfig)
		if err != nil {
			return err
		}
		report, err := runFilter(filterFrom, filterTo, quality, kernel)
		if err != nil {
			return err
		}
		report.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	filterCmd.Flags().IntVar(&filterFrom, "from", 44100, "input sample rate in Hz")
	filterCmd.Flags().IntVar(&filterTo, "to", 16000, "output sample rate in Hz")
	addQualityFlags(filterCmd)
	rootCmd.AddCommand(filterCmd)
}

type filterReport struct {
	from, to     int
	up, down     int
	spec         resampler.QualitySpec
	bank         *filter.Bank
	rowGainMin   float64
	rowGainMax   float64
	passbandDB   [2]float64 // min, max gain below the passband edge
	cutoffDB     float64
	stopbandDB   float64 // loudest gain in the stopband scan
	stopbandFreq float64
}

func runFilter(from, to int, quality resampler.QualityPreset, kernel resampler.Kernel) (filterReport, error) {
	var report filterReport
	if from <= 0 || to <= 0 {
		return report, fmt.Errorf("%w: rates must be positive, got %d -> %d", resampler.ErrInvalidConfig, from, to)
	}

	spec := resampler.GetPresetSpec(quality)
	if kernel == resampler.KernelAuto {
		kernel = spec.Kernel
	}
	if kernel != resampler.KernelSinc {
		return report, fmt.Errorf("%w: %s kernel has no filter bank", resampler.ErrInvalidConfig, kernel)
	}

	up, down := mathutil.ReduceRatio(from, to)
	bank, err := filter.DesignBank(filter.BankParams{
		Up:            up,
		Down:          down,
		ZeroCrossings: spec.ZeroCrossings,
		Attenuation:   spec.Attenuation,
		CutoffFactor:  spec.CutoffFactor,
		MaxPhases:     spec.MaxPhases,
	})
	if err != nil {
		return report, err
	}

	report = filterReport{
		from: from, to: to, up: up, down: down,
		spec:       spec,
		bank:       bank,
		rowGainMin: math.Inf(1),
		rowGainMax: math.Inf(-1),
		passbandDB: [2]float64{math.Inf(1), math.Inf(-1)},
		stopbandDB: math.Inf(-1),
	}

	for p := range bank.Rows {
		var dc float64
		for _, c := range bank.Row(p) {
			dc += c
		}
		report.rowGainMin = min(report.rowGainMin, dc)
		report.rowGainMax = max(report.rowGainMax, dc)
	}

	proto := bank.Prototype()
	gainDB := func(f float64) float64 {
		// f is relative to the input Nyquist; the prototype runs at Step
		// times the input rate and has a DC gain of Step.
		mag := filter.MagnitudeAt(proto, f/(2*float64(bank.Step)))
		return filter.MagnitudeDB(mag / float64(bank.Step))
	}

	for i := range responseGridPoints {
		f := passbandEdge * bank.Cutoff * float64(i) / float64(responseGridPoints-1)
		db := gainDB(f)
		report.passbandDB[0] = min(report.passbandDB[0], db)
		report.passbandDB[1] = max(report.passbandDB[1], db)
	}

	report.cutoffDB = gainDB(bank.Cutoff)

	for i := range responseGridPoints {
		frac := float64(i) / float64(responseGridPoints-1)
		f := bank.Cutoff * (stopbandStart + frac*(stopbandEnd-stopbandStart))
		if db := gainDB(f); db > report.stopbandDB {
			report.stopbandDB = db
			report.stopbandFreq = f
		}
	}

	return report, nil
}

func (r filterReport) print(w io.Writer) {
	fmt.Fprintf(w, "%d Hz -> %d Hz (ratio %d/%d, %s)\n", r.from, r.to, r.up, r.down, r.spec.Preset)
	fmt.Fprintf(w, "  design:    %d zero crossings, %.0f dB, cutoff factor %.2f, beta %.3f\n",
		r.spec.ZeroCrossings, r.spec.Attenuation, r.spec.CutoffFactor, r.bank.Beta)
	fmt.Fprintf(w, "  bank:      %d rows x %d taps (step %d, interpolated %t, %.1f KB)\n",
		r.bank.Rows, r.bank.Taps, r.bank.Step, r.bank.Interpolated, float64(r.bank.MemoryUsage())/1024)
	fmt.Fprintf(w, "  row gain:  %.10f .. %.10f\n", r.rowGainMin, r.rowGainMax)
	fmt.Fprintf(w, "  passband:  %.4f .. %.4f dB up to %.3f\n", r.passbandDB[0], r.passbandDB[1], passbandEdge*r.bank.Cutoff)
	fmt.Fprintf(w, "  cutoff:    %.2f dB at %.3f\n", r.cutoffDB, r.bank.Cutoff)
	fmt.Fprintf(w, "  stopband:  %.1f dB at %.3f\n", r.stopbandDB, r.stopbandFreq)
}
