// Package config loads psampler settings from defaults, an optional YAML
// file, PSAMPLER_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tphakala/go-pcm-resampler/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. PSAMPLER_LOG_LEVEL.
const EnvPrefix = "psampler"

// StreamConfig configures raw s16le streaming.
type StreamConfig struct {
	InputRate  int `mapstructure:"input_rate" yaml:"input_rate"`
	OutputRate int `mapstructure:"output_rate" yaml:"output_rate"`
	PacketSize int `mapstructure:"packet_size" yaml:"packet_size"`
	ReadSize   int `mapstructure:"read_size" yaml:"read_size"`
}

// ResampleConfig configures WAV transcoding. Zero channels or bits keep
// the input's value.
type ResampleConfig struct {
	Rate         int `mapstructure:"rate" yaml:"rate"`
	Channels     int `mapstructure:"channels" yaml:"channels"`
	Bits         int `mapstructure:"bits" yaml:"bits"`
	Chunk        int `mapstructure:"chunk" yaml:"chunk"`
	PacketFrames int `mapstructure:"packet_frames" yaml:"packet_frames"`
}

// Config is the full psampler configuration.
type Config struct {
	Quality  string         `mapstructure:"quality" yaml:"quality"`
	Kernel   string         `mapstructure:"kernel" yaml:"kernel"`
	RemoveDC bool           `mapstructure:"remove_dc" yaml:"remove_dc"`
	Stream   StreamConfig   `mapstructure:"stream" yaml:"stream"`
	Resample ResampleConfig `mapstructure:"resample" yaml:"resample"`
	Log      logger.Config  `mapstructure:"log" yaml:"log"`

	// LogFile is a shorthand for log.file: a non-empty path enables the
	// file sink at that location.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"quality":       "quality",
	"kernel":        "kernel",
	"remove-dc":     "remove_dc",
	"in-rate":       "stream.input_rate",
	"out-rate":      "stream.output_rate",
	"packet":        "stream.packet_size",
	"read-size":     "stream.read_size",
	"rate":          "resample.rate",
	"channels":      "resample.channels",
	"bits":          "resample.bits",
	"chunk":         "resample.chunk",
	"packet-frames": "resample.packet_frames",
	"log-level":     "log.level",
	"log-file":      "log_file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("quality", "medium")
	v.SetDefault("kernel", "auto")
	v.SetDefault("remove_dc", false)

	v.SetDefault("stream.input_rate", 44100)
	v.SetDefault("stream.output_rate", 16000)
	v.SetDefault("stream.packet_size", 640)
	v.SetDefault("stream.read_size", 4096)

	v.SetDefault("resample.rate", 16000)
	v.SetDefault("resample.channels", 0)
	v.SetDefault("resample.bits", 0)
	v.SetDefault("resample.chunk", 4096)
	v.SetDefault("resample.packet_frames", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.name", "psampler.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)
	v.SetDefault("log_file", "")
}

// Load reads the configuration. path may be empty; flags may be nil. Only
// flags present in flags and known to Load are bound.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if file := strings.TrimSpace(cfg.LogFile); file != "" {
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = filepath.Dir(file)
		cfg.Log.File.Name = filepath.Base(file)
	}

	return cfg, nil
}
