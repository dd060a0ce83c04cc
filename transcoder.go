package resampler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tphakala/go-pcm-resampler/internal/engine"
	"github.com/tphakala/go-pcm-resampler/internal/pipeline"
)

// Format describes an LPCM stream.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	BigEndian     bool
}

// Validate checks if the format is usable.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, f.SampleRate)
	}
	_, err := f.codec()
	return err
}

// String describes the format, e.g. "44100 Hz LPCM(2ch, 16-bit, LE)".
func (f Format) String() string {
	codec, err := f.codec()
	if err != nil {
		return fmt.Sprintf("%d Hz invalid(%dch, %d-bit)", f.SampleRate, f.Channels, f.BitsPerSample)
	}
	return fmt.Sprintf("%d Hz %s", f.SampleRate, codec)
}

func (f Format) codec() (*LPCM, error) {
	return NewLPCM(f.Channels, f.BitsPerSample, f.BigEndian)
}

// TranscoderOptions configures a Transcoder.
type TranscoderOptions struct {
	// PacketFrames is the output packet size in frames. 0 disables
	// packetization.
	PacketFrames int

	// Quality, Kernel, CutoffFactor and RemoveDC have the same meaning as
	// in Config.
	Quality      QualityPreset
	Kernel       Kernel
	CutoffFactor float64
	RemoveDC     bool

	// Logger receives debug events. nil disables logging.
	Logger *zap.Logger
}

// Transcoder converts an LPCM stream to another sample rate, channel
// count, depth and byte order.
//
// Channels map one to one when the counts match. Multi-channel input to
// mono output is averaged before resampling; mono input to multi-channel
// output is duplicated after. Any other mapping is rejected.
//
// Input may be split anywhere, including inside a frame: the partial
// frame is carried to the next call.
//
// A Transcoder is not safe for concurrent use.
type Transcoder struct {
	in, out   Format
	decoder   *LPCM
	encoder   *LPCM
	engines   []*engine.Resampler
	carry     *pipeline.RingBuffer[byte]
	packets   *PacketAssembler
	state     EmitState
	logger    *zap.Logger
	frameSize int
}

// NewTranscoder creates a transcoder from in to out.
func NewTranscoder(in, out Format, opts TranscoderOptions) (*Transcoder, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("input format: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("output format: %w", err)
	}
	if in.Channels != out.Channels && in.Channels != monoChannels && out.Channels != monoChannels {
		return nil, fmt.Errorf("%w: cannot map %d channels to %d", ErrChannelMismatch, in.Channels, out.Channels)
	}
	if opts.PacketFrames < 0 {
		return nil, fmt.Errorf("%w: packet frames must not be negative, got %d", ErrInvalidConfig, opts.PacketFrames)
	}

	cfg := Config{
		InputRate:    in.SampleRate,
		OutputRate:   out.SampleRate,
		Quality:      opts.Quality,
		Kernel:       opts.Kernel,
		CutoffFactor: opts.CutoffFactor,
		RemoveDC:     opts.RemoveDC,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params := cfg.engineParams()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Both formats were validated above.
	decoder, _ := in.codec()
	encoder, _ := out.codec()

	engines := make([]*engine.Resampler, min(in.Channels, out.Channels))
	for i := range engines {
		eng, err := engine.New(in.SampleRate, out.SampleRate, params)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		engines[i] = eng
	}

	t := &Transcoder{
		in:        in,
		out:       out,
		decoder:   decoder,
		encoder:   encoder,
		engines:   engines,
		carry:     pipeline.NewRingBuffer[byte](2 * decoder.FrameSize()),
		packets:   NewPacketAssembler(opts.PacketFrames * encoder.FrameSize()),
		logger:    logger,
		frameSize: decoder.FrameSize(),
	}

	logger.Debug("created transcoder",
		zap.Stringer("input", in),
		zap.Stringer("output", out),
		zap.Int("engines", len(engines)),
		zap.Int("latency", engines[0].Latency()))

	return t, nil
}

// Process converts data and returns zero or more whole packets (or every
// produced frame when packetization is disabled).
func (t *Transcoder) Process(data []byte) ([]byte, error) {
	t.carry.Write(data)
	whole := t.carry.Available() / t.frameSize * t.frameSize
	frames := t.carry.Read(whole)

	samples, err := t.decoder.DecodeInt16(frames)
	if err != nil {
		return nil, err
	}

	encoded, err := t.encoder.EncodeInt16(t.run(samples))
	if err != nil {
		return nil, err
	}

	out := t.packets.Push(encoded, len(data))
	t.state = t.packets.State()
	return out, nil
}

// Flush emits the filter tails and the final partial packet, then resets
// the transcoder. A partial input frame still carried is dropped.
func (t *Transcoder) Flush() ([]byte, error) {
	if dropped := t.carry.Available(); dropped > 0 {
		t.logger.Debug("dropping partial input frame", zap.Int("bytes", dropped))
	}

	planes := make([][]int16, len(t.engines))
	for i, eng := range t.engines {
		planes[i] = eng.Flush()
	}
	encoded, err := t.encoder.EncodeInt16(t.expand(interleave(planes)))
	if err != nil {
		return nil, err
	}

	out := t.packets.Push(encoded, len(encoded))
	out = append(out, t.packets.Drain()...)
	t.resetBuffers()
	t.state = stateFor(0, len(out))
	return out, nil
}

// Reset discards all buffered input and output.
func (t *Transcoder) Reset() {
	for _, eng := range t.engines {
		eng.Reset()
	}
	t.resetBuffers()
	t.state = EmitEmpty
}

func (t *Transcoder) resetBuffers() {
	t.carry.Clear()
	t.packets.Reset()
}

// ReturnEmpty reports what the last Process or Flush produced.
func (t *Transcoder) ReturnEmpty() EmitState {
	return t.state
}

// InputFormat returns the input format.
func (t *Transcoder) InputFormat() Format { return t.in }

// OutputFormat returns the output format.
func (t *Transcoder) OutputFormat() Format { return t.out }

// Latency returns the filter lookahead in input frames.
func (t *Transcoder) Latency() int {
	return t.engines[0].Latency()
}

// run maps input channels onto the engines and back to output frames.
func (t *Transcoder) run(interleaved []int16) []int16 {
	var planes [][]int16
	switch {
	case t.in.Channels == monoChannels:
		planes = [][]int16{interleaved}
	case t.out.Channels == monoChannels:
		planes = [][]int16{downmix(interleaved, t.in.Channels)}
	default:
		planes = deinterleave(interleaved, t.in.Channels)
	}

	for i, eng := range t.engines {
		planes[i] = eng.Process(planes[i])
	}
	return t.expand(interleave(planes))
}

// expand duplicates a mono result into every output channel.
func (t *Transcoder) expand(interleaved []int16) []int16 {
	if len(t.engines) == monoChannels && t.out.Channels > monoChannels {
		return upmix(interleaved, t.out.Channels)
	}
	return interleaved
}
