package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "psampler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "medium", cfg.Quality)
	assert.Equal(t, "auto", cfg.Kernel)
	assert.False(t, cfg.RemoveDC)
	assert.Equal(t, StreamConfig{InputRate: 44100, OutputRate: 16000, PacketSize: 640, ReadSize: 4096}, cfg.Stream)
	assert.Equal(t, 16000, cfg.Resample.Rate)
	assert.Zero(t, cfg.Resample.Channels)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.False(t, cfg.Log.File.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
quality: high
remove_dc: true
stream:
  input_rate: 48000
  packet_size: 320
log:
  level: debug
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "high", cfg.Quality)
	assert.True(t, cfg.RemoveDC)
	assert.Equal(t, 48000, cfg.Stream.InputRate)
	assert.Equal(t, 16000, cfg.Stream.OutputRate, "unset keys keep their defaults")
	assert.Equal(t, 320, cfg.Stream.PacketSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "stream:\n  packet_size: 320\n")
	t.Setenv("PSAMPLER_STREAM_PACKET_SIZE", "960")
	t.Setenv("PSAMPLER_KERNEL", "cubic")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 960, cfg.Stream.PacketSize)
	assert.Equal(t, "cubic", cfg.Kernel)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("PSAMPLER_STREAM_OUTPUT_RATE", "8000")
	t.Setenv("PSAMPLER_QUALITY", "low")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("out-rate", 0, "")
	flags.String("quality", "medium", "")
	flags.Int("packet", 0, "")
	require.NoError(t, flags.Parse([]string{"--out-rate", "22050"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 22050, cfg.Stream.OutputRate, "a set flag wins")
	assert.Equal(t, "low", cfg.Quality, "an unset flag does not mask the environment")
	assert.Equal(t, 640, cfg.Stream.PacketSize, "an unset flag does not mask the default")
}

func TestLoad_LogFileShorthand(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-file", "", "")
	require.NoError(t, flags.Parse([]string{"--log-file", "/var/log/psampler/run.log"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Log.File.Enabled)
	assert.Equal(t, "/var/log/psampler", cfg.Log.File.Path)
	assert.Equal(t, "run.log", cfg.Log.File.Name)
}
