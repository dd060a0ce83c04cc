// Command psampler resamples PCM audio from the command line.
//
// Usage:
//
//	psampler [flags] <command> [args]
//
// Commands:
//
//	resample  - Transcode a WAV file chunk by chunk
//	stream    - Resample raw s16le from stdin to stdout in fixed packets
//	analyze   - Resample a synthetic tone and report level and aliasing
//
// Configuration is read from --config (YAML), then PSAMPLER_* environment
// variables, then flags.
package main

import (
	"fmt"
	"os"

	"github.com/tphakala/go-pcm-resampler/cmd/psampler/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
