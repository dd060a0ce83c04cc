// Package commands implements the psampler command tree.
package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	resampler "github.com/tphakala/go-pcm-resampler"
	"github.com/tphakala/go-pcm-resampler/internal/config"
	"github.com/tphakala/go-pcm-resampler/internal/logger"
)

var (
	// Global flags
	configFile string
	logLevel   string
	logFile    string

	// Loaded in PersistentPreRunE
	globalConfig config.Config
	log          = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "psampler",
	Short: "Streaming PCM resampler",
	Long: `psampler - convert PCM audio between sample rates.

The resampler is a rational-ratio polyphase FIR. Output is identical no
matter how the input is chunked, so every command streams its input.

Examples:
  # Transcode a WAV file to 16 kHz mono
  psampler resample --rate 16000 --channels 1 in.wav out.wav

  # Cut a 44.1 kHz raw stream into 20 ms packets at 16 kHz
  psampler stream --in-rate 44100 --out-rate 16000 --packet 640 < in.raw > out.raw

  # Measure aliasing of a 6 kHz tone resampled to 8 kHz
  psampler analyze --from 44100 --to 8000 --tone 6000

  # Inspect the filter bank behind a rate pair
  psampler filter --from 48000 --to 16000 --quality high`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = log.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	l, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	globalConfig = cfg
	// Every line of one invocation carries the same session id.
	log = l.With(zap.String("session", uuid.NewString()))
	return nil
}

// resamplerOptions resolves the quality settings shared by every command.
func resamplerOptions(cfg config.Config) (resampler.QualityPreset, resampler.Kernel, error) {
	quality, err := resampler.ParseQuality(cfg.Quality)
	if err != nil {
		return 0, 0, err
	}
	kernel, err := resampler.ParseKernel(cfg.Kernel)
	if err != nil {
		return 0, 0, err
	}
	return quality, kernel, nil
}

// addQualityFlags registers the flags accepted by every resampling command.
func addQualityFlags(cmd *cobra.Command) {
	cmd.Flags().String("quality", "medium", "quality preset: quick, low, medium, high")
	cmd.Flags().String("kernel", "auto", "interpolation kernel: auto, sinc, cubic, linear")
	cmd.Flags().Bool("remove-dc", false, "remove DC offset from the output")
}
