package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	resampler "github.com/tphakala/go-pcm-resampler"
)

const (
	wavFormatPCM    = 1
	unsigned8Offset = 128
	bits8           = 8
)

// wavInput is an open WAV file positioned for PCM reads.
type wavInput struct {
	file    *os.File
	decoder *wav.Decoder
	format  resampler.Format
	codec   *resampler.LPCM
	buf     *audio.IntBuffer
}

// openWAVInput opens and validates a PCM WAV file.
func openWAVInput(path string, chunkFrames int) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		_ = f.Close()
		return nil, fmt.Errorf("unsupported WAV encoding %d in %s: only integer PCM", decoder.WavAudioFormat, path)
	}

	format := resampler.Format{
		SampleRate:    int(decoder.SampleRate),
		Channels:      int(decoder.NumChans),
		BitsPerSample: int(decoder.BitDepth),
	}
	codec, err := resampler.NewLPCM(format.Channels, format.BitsPerSample, false)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("unsupported WAV layout in %s: %w", path, err)
	}

	return &wavInput{
		file:    f,
		decoder: decoder,
		format:  format,
		codec:   codec.WithClipping(),
		buf: &audio.IntBuffer{
			Data:           make([]int, chunkFrames*format.Channels),
			Format:         decoder.Format(),
			SourceBitDepth: format.BitsPerSample,
		},
	}, nil
}

// ReadChunk returns the next block of PCM as signed LPCM bytes, or io.EOF
// when the data chunk is exhausted.
func (w *wavInput) ReadChunk() ([]byte, error) {
	w.buf.Data = w.buf.Data[:cap(w.buf.Data)]
	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}

	// A truncated file may end inside a frame.
	n -= n % w.format.Channels
	samples := make([]int32, n)
	for i, v := range w.buf.Data[:n] {
		if w.format.BitsPerSample == bits8 {
			v -= unsigned8Offset
		}
		samples[i] = int32(v)
	}
	return w.codec.Encode(samples)
}

// Close closes the input file.
func (w *wavInput) Close() error {
	return w.file.Close()
}

// wavOutput writes LPCM bytes to a WAV file.
type wavOutput struct {
	file    *os.File
	encoder *wav.Encoder
	codec   *resampler.LPCM
	format  *audio.Format
	bits    int
	frames  int64
}

func createWAVOutput(path string, format resampler.Format) (*wavOutput, error) {
	codec, err := resampler.NewLPCM(format.Channels, format.BitsPerSample, false)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &wavOutput{
		file:    f,
		encoder: wav.NewEncoder(f, format.SampleRate, format.BitsPerSample, format.Channels, wavFormatPCM),
		codec:   codec,
		format:  &audio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		bits:    format.BitsPerSample,
	}, nil
}

// Write appends whole frames of LPCM bytes.
func (w *wavOutput) Write(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	samples, err := w.codec.Decode(data)
	if err != nil {
		return err
	}
	ints := make([]int, len(samples))
	for i, s := range samples {
		v := int(s)
		if w.bits == bits8 {
			v += unsigned8Offset
		}
		ints[i] = v
	}
	if err := w.encoder.Write(&audio.IntBuffer{Format: w.format, Data: ints, SourceBitDepth: w.bits}); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	w.frames += int64(len(samples) / w.codec.Channels())
	return nil
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutput) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return w.file.Close()
}
