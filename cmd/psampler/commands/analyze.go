package commands

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	resampler "github.com/tphakala/go-pcm-resampler"
	"github.com/tphakala/go-pcm-resampler/internal/analysis"
)

const toneAmplitude = 16384

var (
	analyzeFrom    int
	analyzeTo      int
	analyzeTone    float64
	analyzeSeconds float64
	analyzeChunk   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Resample a synthetic tone and report level and aliasing",
	Long: `Synthesize a -6 dBFS sine, resample it in chunks and measure the result.

A tone below the output Nyquist is reported as its passband level. A tone
above it would fold back to a lower frequency; that alias level is
reported instead, together with the rejection relative to the input.

Examples:
  psampler analyze --from 44100 --to 16000 --tone 1000
  psampler analyze --from 44100 --to 8000 --tone 6000 --quality high`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		quality, kernel, err := resamplerOptions(globalConfig)
		if err != nil {
			return err
		}
		report, err := runAnalyze(analyzeOptions{
			config: resampler.Config{
				InputRate:  analyzeFrom,
				OutputRate: analyzeTo,
				Quality:    quality,
				Kernel:     kernel,
				RemoveDC:   globalConfig.RemoveDC,
				Logger:     log,
			},
			tone:    analyzeTone,
			seconds: analyzeSeconds,
			chunk:   analyzeChunk,
		})
		if err != nil {
			return err
		}
		report.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeFrom, "from", 44100, "input sample rate in Hz")
	analyzeCmd.Flags().IntVar(&analyzeTo, "to", 16000, "output sample rate in Hz")
	analyzeCmd.Flags().Float64Var(&analyzeTone, "tone", 1000, "tone frequency in Hz")
	analyzeCmd.Flags().Float64Var(&analyzeSeconds, "seconds", 1, "tone duration in seconds")
	analyzeCmd.Flags().IntVar(&analyzeChunk, "chunk", 441, "input samples per processing call")
	addQualityFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOptions struct {
	config  resampler.Config
	tone    float64
	seconds float64
	chunk   int
}

type analyzeReport struct {
	info      resampler.Info
	tone      float64
	measured  float64 // frequency measured in the output
	aliased   bool
	inputDB   float64
	outputDB  float64
	peak      analysis.Bin
	stats     analysis.Stats
	samplesIn int
}

// foldFrequency returns where freq lands after sampling at rate.
func foldFrequency(freq float64, rate int) float64 {
	f := math.Mod(freq, float64(rate))
	if f > float64(rate)/2 {
		f = float64(rate) - f
	}
	return f
}

func runAnalyze(opts analyzeOptions) (analyzeReport, error) {
	var report analyzeReport
	if opts.chunk <= 0 {
		return report, fmt.Errorf("chunk must be positive, got %d", opts.chunk)
	}
	if opts.seconds <= 0 {
		return report, fmt.Errorf("seconds must be positive, got %g", opts.seconds)
	}

	r, err := resampler.New(&opts.config)
	if err != nil {
		return report, err
	}

	n := int(opts.seconds * float64(opts.config.InputRate))
	input := make([]int16, n)
	omega := 2 * math.Pi * opts.tone / float64(opts.config.InputRate)
	for i := range input {
		input[i] = int16(math.Round(toneAmplitude * math.Sin(omega*float64(i))))
	}

	var output []int16
	for start := 0; start < n; start += opts.chunk {
		out, err := r.ProcessSamples(input[start:min(start+opts.chunk, n)])
		if err != nil {
			return report, err
		}
		output = append(output, out...)
	}
	tail, err := r.Flush()
	if err != nil {
		return report, err
	}
	codec, _ := resampler.NewLPCM(1, 16, false)
	tailSamples, err := codec.DecodeInt16(tail)
	if err != nil {
		return report, err
	}
	output = append(output, tailSamples...)

	report.info = r.GetInfo()
	report.samplesIn = n
	report.tone = opts.tone
	report.measured = foldFrequency(opts.tone, opts.config.OutputRate)
	report.aliased = opts.tone >= float64(opts.config.OutputRate)/2
	report.inputDB = analysis.ToneLevelDB(input, opts.config.InputRate, opts.tone)
	report.outputDB = analysis.ToneLevelDB(output, opts.config.OutputRate, report.measured)
	report.peak = analysis.Peak(analysis.Spectrum(output, opts.config.OutputRate), 0)
	report.stats = analysis.Measure(output)
	return report, nil
}

func (a analyzeReport) print(w io.Writer) {
	fmt.Fprintf(w, "%d Hz -> %d Hz (%s, %d taps, %d phases, latency %d)\n",
		a.info.InputRate, a.info.OutputRate, a.info.Algorithm, a.info.FilterLength, a.info.Phases, a.info.Latency)
	fmt.Fprintf(w, "  samples:   %d -> %d\n", a.samplesIn, a.stats.Samples)
	fmt.Fprintf(w, "  peak:      %d (%.2f dBFS)\n", a.stats.Peak, a.stats.PeakDBFS)
	fmt.Fprintf(w, "  rms:       %.1f (%.2f dBFS)\n", a.stats.RMS, a.stats.RMSDBFS)
	fmt.Fprintf(w, "  clipped:   %d\n", a.stats.Clipped)
	fmt.Fprintf(w, "  jumps:     %d\n", a.stats.Jumps)
	fmt.Fprintf(w, "  input:     %.0f Hz at %.2f dBFS\n", a.tone, a.inputDB)
	if a.aliased {
		fmt.Fprintf(w, "  alias:     %.0f Hz at %.2f dBFS (rejection %.1f dB)\n",
			a.measured, a.outputDB, a.inputDB-a.outputDB)
	} else {
		fmt.Fprintf(w, "  passband:  %.0f Hz at %.2f dBFS (gain %.3f dB)\n",
			a.measured, a.outputDB, a.outputDB-a.inputDB)
	}
	fmt.Fprintf(w, "  spectrum:  peak %.0f Hz at %.2f dBFS\n", a.peak.Freq, a.peak.DB)
}
