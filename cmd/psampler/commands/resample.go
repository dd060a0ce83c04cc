package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	resampler "github.com/tphakala/go-pcm-resampler"
	"github.com/tphakala/go-pcm-resampler/internal/config"
)

var resampleCmd = &cobra.Command{
	Use:   "resample <input.wav> <output.wav>",
	Short: "Transcode a WAV file chunk by chunk",
	Long: `Transcode an integer PCM WAV file to another sample rate, channel
count and bit depth.

The input is read in chunks of --chunk frames and fed to a streaming
transcoder, exactly as a live source would be. Channel counts may match,
mix down to mono, or fan out from mono.

Examples:
  psampler resample --rate 16000 in.wav out.wav
  psampler resample --rate 8000 --channels 1 --bits 16 music.wav phone.wav
  psampler resample --rate 48000 --quality high --chunk 441 in.wav out.wav`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		stats, err := runResample(args[0], args[1], globalConfig.Resample)
		if err != nil {
			return err
		}

		elapsed := time.Since(start)
		fmt.Fprintf(cmd.OutOrStdout(), "Resampled %s -> %s\n", filepath.Base(args[0]), filepath.Base(args[1]))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", stats.input, stats.output)
		fmt.Fprintf(cmd.OutOrStdout(), "  %d frames -> %d frames in %d chunks\n",
			stats.framesIn, stats.framesOut, stats.chunks)
		if secs := elapsed.Seconds(); secs > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  Speed: %.1fx realtime\n",
				float64(stats.framesIn)/float64(stats.input.SampleRate)/secs)
		}
		return nil
	},
}

func init() {
	resampleCmd.Flags().Int("rate", 16000, "output sample rate in Hz")
	resampleCmd.Flags().Int("channels", 0, "output channels (0 keeps the input's)")
	resampleCmd.Flags().Int("bits", 0, "output bit depth: 8, 16, 24 or 32 (0 keeps the input's)")
	resampleCmd.Flags().Int("chunk", 4096, "input frames per processing call")
	resampleCmd.Flags().Int("packet-frames", 0, "output packet size in frames (0 disables packetization)")
	addQualityFlags(resampleCmd)
	rootCmd.AddCommand(resampleCmd)
}

type resampleStats struct {
	input, output resampler.Format
	framesIn      int64
	framesOut     int64
	chunks        int
}

// outputFormat derives the output format from in. Zero channels or bits
// keep the input's value.
func outputFormat(in resampler.Format, rate, channels, bits int) resampler.Format {
	out := in
	out.SampleRate = rate
	if channels > 0 {
		out.Channels = channels
	}
	if bits > 0 {
		out.BitsPerSample = bits
	}
	out.BigEndian = false
	return out
}

func runResample(inputPath, outputPath string, rc config.ResampleConfig) (stats resampleStats, err error) {
	quality, kernel, err := resamplerOptions(globalConfig)
	if err != nil {
		return stats, err
	}
	if rc.Chunk <= 0 {
		return stats, fmt.Errorf("chunk must be positive, got %d", rc.Chunk)
	}

	input, err := openWAVInput(inputPath, rc.Chunk)
	if err != nil {
		return stats, err
	}
	defer func() { _ = input.Close() }()

	stats.input = input.format
	stats.output = outputFormat(input.format, rc.Rate, rc.Channels, rc.Bits)

	tr, err := resampler.NewTranscoder(stats.input, stats.output, resampler.TranscoderOptions{
		PacketFrames: rc.PacketFrames,
		Quality:      quality,
		Kernel:       kernel,
		RemoveDC:     globalConfig.RemoveDC,
		Logger:       log,
	})
	if err != nil {
		return stats, err
	}

	output, err := createWAVOutput(outputPath, stats.output)
	if err != nil {
		return stats, err
	}
	// Close errors matter: the WAV header is written on Close.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
		stats.framesOut = output.frames
	}()

	inFrame := int64(input.codec.FrameSize())
	for {
		chunk, readErr := input.ReadChunk()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return stats, readErr
		}
		stats.chunks++
		stats.framesIn += int64(len(chunk)) / inFrame

		packets, err := tr.Process(chunk)
		if err != nil {
			return stats, err
		}
		if err := output.Write(packets); err != nil {
			return stats, err
		}
		log.Debug("processed chunk",
			zap.Int("chunk", stats.chunks),
			zap.Int("bytes_out", len(packets)),
			zap.Stringer("state", tr.ReturnEmpty()))
	}

	tail, err := tr.Flush()
	if err != nil {
		return stats, err
	}
	return stats, output.Write(tail)
}
