package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	resampler "github.com/tphakala/go-pcm-resampler"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Resample raw mono s16le from stdin to stdout",
	Long: `Resample raw mono 16-bit little-endian PCM from stdin to stdout.

Output is written in whole packets of --packet bytes as soon as they are
complete; the final partial packet is written at end of input. This
simulates a VoIP sender without pacing.

Examples:
  psampler stream --in-rate 48000 --out-rate 16000 --packet 640 < in.raw > out.raw
  ffmpeg -i in.mp3 -f s16le -ac 1 -ar 44100 - | psampler stream > out.raw`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := streamOptionsFrom()
		if err != nil {
			return err
		}
		stats, err := runStream(os.Stdin, os.Stdout, opts)
		if err != nil {
			return err
		}
		log.Info("stream finished",
			zap.Int64("bytes_in", stats.bytesIn),
			zap.Int64("bytes_out", stats.bytesOut),
			zap.Int("packets", stats.packets),
			zap.Int("buffering_calls", stats.buffering))
		return nil
	},
}

func init() {
	streamCmd.Flags().Int("in-rate", 44100, "input sample rate in Hz")
	streamCmd.Flags().Int("out-rate", 16000, "output sample rate in Hz")
	streamCmd.Flags().Int("packet", 640, "output packet size in bytes (0 disables packetization)")
	streamCmd.Flags().Int("read-size", 4096, "bytes read from stdin per call")
	addQualityFlags(streamCmd)
	rootCmd.AddCommand(streamCmd)
}

type streamOptions struct {
	config   resampler.Config
	readSize int
}

type streamStats struct {
	bytesIn   int64
	bytesOut  int64
	packets   int
	buffering int
}

func streamOptionsFrom() (streamOptions, error) {
	quality, kernel, err := resamplerOptions(globalConfig)
	if err != nil {
		return streamOptions{}, err
	}
	sc := globalConfig.Stream
	return streamOptions{
		config: resampler.Config{
			InputRate:  sc.InputRate,
			OutputRate: sc.OutputRate,
			PacketSize: sc.PacketSize,
			Quality:    quality,
			Kernel:     kernel,
			RemoveDC:   globalConfig.RemoveDC,
			Logger:     log,
		},
		readSize: max(sc.ReadSize, 2),
	}, nil
}

// runStream copies in to out through a resampler. An odd trailing byte of
// a read is held until the next read completes the sample.
func runStream(in io.Reader, out io.Writer, opts streamOptions) (streamStats, error) {
	var stats streamStats
	r, err := resampler.New(&opts.config)
	if err != nil {
		return stats, err
	}

	write := func(b []byte) error {
		if len(b) == 0 {
			return nil
		}
		if _, err := out.Write(b); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		stats.bytesOut += int64(len(b))
		if size := r.PacketSize(); size > 0 {
			stats.packets += (len(b) + size - 1) / size
		}
		return nil
	}

	buf := make([]byte, opts.readSize+1)
	held := 0
	for {
		n, readErr := in.Read(buf[held : held+opts.readSize])
		stats.bytesIn += int64(n)
		n += held

		even := n &^ 1
		packets, err := r.Process(buf[:even])
		if err != nil {
			return stats, err
		}
		if even > 0 && r.ReturnEmpty() == resampler.EmitBuffering {
			stats.buffering++
		}
		if err := write(packets); err != nil {
			return stats, err
		}

		held = n - even
		if held > 0 {
			buf[0] = buf[even]
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return stats, fmt.Errorf("read input: %w", readErr)
		}
	}

	if held > 0 {
		log.Warn("dropping trailing odd byte")
	}

	tail, err := r.Flush()
	if err != nil {
		return stats, err
	}
	return stats, write(tail)
}
