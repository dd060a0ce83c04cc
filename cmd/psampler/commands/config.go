package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/go-pcm-resampler/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, the --config file, PSAMPLER_*
environment variables and flags have been applied.

The output is a valid --config file.

Examples:
  psampler config
  PSAMPLER_QUALITY=high psampler config --config psampler.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printConfig(cmd.OutOrStdout(), globalConfig)
	},
}

func init() {
	addQualityFlags(configCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
