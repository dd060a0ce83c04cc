package resampler

import (
	"fmt"

	"github.com/tphakala/simd/cpu"
	"go.uber.org/zap"

	"github.com/tphakala/go-pcm-resampler/internal/engine"
)

// Config holds resampler configuration.
type Config struct {
	// InputRate is the default source sample rate in Hz used by Process.
	// Leave both rates at 0 for a resampler driven only through Sample.
	InputRate int

	// OutputRate is the default destination sample rate in Hz.
	OutputRate int

	// PacketSize is the output packet size in bytes. 0 disables
	// packetization: every call returns whatever was produced.
	PacketSize int

	// Quality selects the filter design preset.
	Quality QualityPreset

	// Kernel overrides the preset's interpolation kernel.
	Kernel Kernel

	// CutoffFactor overrides the preset's cutoff, as a fraction of the
	// lower Nyquist frequency of each pair, in (0, 0.99]. 0 keeps the preset.
	CutoffFactor float64

	// RemoveDC enables a one-pole DC blocker on the output.
	RemoveDC bool

	// Logger receives debug events (context creation, reset, flush).
	// nil disables logging.
	Logger *zap.Logger
}

// QualityPreset enumerates predefined filter designs.
type QualityPreset int

const (
	// QualityDefault selects QualityMedium.
	QualityDefault QualityPreset = iota

	// QualityQuick uses cubic interpolation. Fastest, no anti-aliasing.
	// Only for input already band limited below the lower Nyquist.
	QualityQuick

	// QualityLow uses a short sinc. Good for speech at low CPU cost.
	QualityLow

	// QualityMedium balances cost and quality for VoIP and general audio.
	QualityMedium

	// QualityHigh uses a long sinc with a steep transition for music.
	QualityHigh
)

// String returns the preset name.
func (q QualityPreset) String() string {
	switch q {
	case QualityDefault:
		return "default"
	case QualityQuick:
		return "quick"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("QualityPreset(%d)", int(q))
	}
}

// ParseQuality maps a preset name to its QualityPreset.
func ParseQuality(name string) (QualityPreset, error) {
	for q := QualityDefault; q <= QualityHigh; q++ {
		if q.String() == name {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown quality %q", ErrInvalidConfig, name)
}

// Kernel selects the interpolation kernel.
type Kernel int

const (
	// KernelAuto uses the preset's kernel.
	KernelAuto Kernel = iota
	// KernelSinc is the Kaiser windowed-sinc polyphase FIR.
	KernelSinc
	// KernelCubic is 4-point cubic interpolation. No anti-aliasing.
	KernelCubic
	// KernelLinear is 2-point linear interpolation. No anti-aliasing.
	KernelLinear
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelAuto:
		return "auto"
	case KernelSinc:
		return "sinc"
	case KernelCubic:
		return "cubic"
	case KernelLinear:
		return "linear"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// ParseKernel maps a kernel name to its Kernel.
func ParseKernel(name string) (Kernel, error) {
	for k := KernelAuto; k <= KernelLinear; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kernel %q", ErrInvalidConfig, name)
}

// QualitySpec is the filter design behind a preset.
type QualitySpec struct {
	Preset        QualityPreset
	Kernel        Kernel
	ZeroCrossings int
	Attenuation   float64
	CutoffFactor  float64
	MaxPhases     int
}

// GetPresetSpec returns the filter design for a preset.
func GetPresetSpec(preset QualityPreset) QualitySpec {
	switch preset {
	case QualityQuick:
		return QualitySpec{
			Preset:        QualityQuick,
			Kernel:        KernelCubic,
			ZeroCrossings: lowZeroCrossings,
			Attenuation:   lowAttenuation,
			CutoffFactor:  lowCutoffFactor,
			MaxPhases:     lowMaxPhases,
		}

	case QualityLow:
		return QualitySpec{
			Preset:        QualityLow,
			Kernel:        KernelSinc,
			ZeroCrossings: lowZeroCrossings,
			Attenuation:   lowAttenuation,
			CutoffFactor:  lowCutoffFactor,
			MaxPhases:     lowMaxPhases,
		}

	case QualityHigh:
		return QualitySpec{
			Preset:        QualityHigh,
			Kernel:        KernelSinc,
			ZeroCrossings: highZeroCrossings,
			Attenuation:   highAttenuation,
			CutoffFactor:  highCutoffFactor,
			MaxPhases:     highMaxPhases,
		}

	default:
		return QualitySpec{
			Preset:        QualityMedium,
			Kernel:        KernelSinc,
			ZeroCrossings: mediumZeroCrossings,
			Attenuation:   mediumAttenuation,
			CutoffFactor:  mediumCutoffFactor,
			MaxPhases:     mediumMaxPhases,
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch {
	case c.InputRate < 0 || c.OutputRate < 0:
		return fmt.Errorf("%w: sample rates must not be negative", ErrInvalidConfig)
	case (c.InputRate == 0) != (c.OutputRate == 0):
		return fmt.Errorf("%w: set both rates or neither (got %d and %d)",
			ErrInvalidConfig, c.InputRate, c.OutputRate)
	}

	if c.PacketSize < 0 {
		return fmt.Errorf("%w: packet size must not be negative, got %d", ErrInvalidConfig, c.PacketSize)
	}

	if c.Quality < QualityDefault || c.Quality > QualityHigh {
		return fmt.Errorf("%w: unknown quality preset %d", ErrInvalidConfig, int(c.Quality))
	}

	if c.Kernel < KernelAuto || c.Kernel > KernelLinear {
		return fmt.Errorf("%w: unknown kernel %d", ErrInvalidConfig, int(c.Kernel))
	}

	if c.CutoffFactor < 0 || c.CutoffFactor > maxCutoffFactor {
		return fmt.Errorf("%w: cutoff factor must be in (0, %.2f], got %f",
			ErrInvalidConfig, maxCutoffFactor, c.CutoffFactor)
	}

	return nil
}

// engineParams resolves the preset and overrides into engine parameters.
func (c *Config) engineParams() engine.Params {
	spec := GetPresetSpec(c.Quality)

	kernel := spec.Kernel
	if c.Kernel != KernelAuto {
		kernel = c.Kernel
	}
	cutoff := spec.CutoffFactor
	if c.CutoffFactor > 0 {
		cutoff = c.CutoffFactor
	}

	return engine.Params{
		Kernel:        kernel.engineKernel(),
		ZeroCrossings: spec.ZeroCrossings,
		Attenuation:   spec.Attenuation,
		CutoffFactor:  cutoff,
		MaxPhases:     spec.MaxPhases,
		RemoveDC:      c.RemoveDC,
	}
}

func (k Kernel) engineKernel() engine.Kernel {
	switch k {
	case KernelCubic:
		return engine.KernelCubic
	case KernelLinear:
		return engine.KernelLinear
	default:
		return engine.KernelSinc
	}
}

// Resampler converts mono 16-bit little-endian PCM between sample rates
// and cuts the output into fixed-size packets.
//
// Each rate pair gets its own streaming context, created on first use, so
// one Resampler can serve several conversions without mixing their state.
// Process uses the configured default pair; Sample names the pair per call.
//
// A Resampler is not safe for concurrent use. Serialize calls or use one
// Resampler per stream.
type Resampler struct {
	config     Config
	params     engine.Params
	defaultSet bool
	defaults   RatePair
	packetSize int
	cache      *contextCache
	state      EmitState
	logger     *zap.Logger
}

// New creates a resampler from config.
func New(config *Config) (*Resampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resampler{
		config:     *config,
		params:     config.engineParams(),
		packetSize: config.PacketSize,
		logger:     logger,
	}
	r.cache = newContextCache(r.params, r.packetSize, logger)

	if config.InputRate > 0 {
		r.defaultSet = true
		r.defaults = RatePair{Source: config.InputRate, Destination: config.OutputRate}

		// Build the default context now so filter design errors surface here.
		if _, err := r.cache.get(r.defaults); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// NewMultiRate creates a resampler without a default pair, driven only
// through Sample. The rates in config are ignored.
func NewMultiRate(config *Config) (*Resampler, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	cfg.InputRate, cfg.OutputRate = 0, 0
	return New(&cfg)
}

// Process resamples mono s16le pcm with the default rate pair and returns
// zero or more whole packets.
func (r *Resampler) Process(pcm []byte) ([]byte, error) {
	if !r.defaultSet {
		return nil, ErrNoDefaultRate
	}
	return r.sample(pcm, r.defaults)
}

// Sample resamples mono s16le pcm from sourceRate to destinationRate,
// resuming that pair's context when it already exists.
func (r *Resampler) Sample(pcm []byte, sourceRate, destinationRate int) ([]byte, error) {
	return r.sample(pcm, RatePair{Source: sourceRate, Destination: destinationRate})
}

func (r *Resampler) sample(pcm []byte, pair RatePair) ([]byte, error) {
	if len(pcm)%bytesPerInt16 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples",
			ErrMisalignedInput, len(pcm))
	}
	ctx, err := r.cache.get(pair)
	if err != nil {
		return nil, err
	}

	out := ctx.engine.Process(decodeS16LE(pcm))
	packets := ctx.packets.Push(encodeS16LE(out), len(pcm))
	r.state = ctx.packets.State()
	return packets, nil
}

// ProcessSamples resamples samples with the default rate pair, bypassing
// packetization.
func (r *Resampler) ProcessSamples(samples []int16) ([]int16, error) {
	if !r.defaultSet {
		return nil, ErrNoDefaultRate
	}
	return r.sampleSamples(samples, r.defaults)
}

// SampleSamples resamples samples for the given pair, bypassing
// packetization. It shares the pair's engine with Sample.
func (r *Resampler) SampleSamples(samples []int16, sourceRate, destinationRate int) ([]int16, error) {
	return r.sampleSamples(samples, RatePair{Source: sourceRate, Destination: destinationRate})
}

func (r *Resampler) sampleSamples(samples []int16, pair RatePair) ([]int16, error) {
	ctx, err := r.cache.get(pair)
	if err != nil {
		return nil, err
	}
	out := ctx.engine.Process(samples)
	r.state = stateFor(len(samples), len(out))
	return out, nil
}

// Flush drains the default context: it emits the filter tail and the
// partial packet, then resets that context.
func (r *Resampler) Flush() ([]byte, error) {
	if !r.defaultSet {
		return nil, ErrNoDefaultRate
	}
	return r.flush(r.defaults), nil
}

// FlushRate drains the context of one rate pair. A pair that was never
// used flushes to nothing.
func (r *Resampler) FlushRate(sourceRate, destinationRate int) ([]byte, error) {
	pair := RatePair{Source: sourceRate, Destination: destinationRate}
	if err := pair.validate(); err != nil {
		return nil, err
	}
	return r.flush(pair), nil
}

func (r *Resampler) flush(pair RatePair) []byte {
	ctx, ok := r.cache.lookup(pair)
	if !ok {
		r.state = EmitEmpty
		return []byte{}
	}

	tail := encodeS16LE(ctx.engine.Flush())
	out := ctx.packets.Push(tail, len(tail))
	out = append(out, ctx.packets.Drain()...)
	ctx.packets.Reset()
	r.state = stateFor(0, len(out))

	r.logger.Debug("flushed resampling context",
		zap.Stringer("pair", pair),
		zap.Int("bytes", len(out)))

	return out
}

// Reset discards every context and pending packet. Afterwards the
// Resampler behaves as if newly constructed.
func (r *Resampler) Reset() {
	r.cache.reset()
	r.state = EmitEmpty
	if r.defaultSet {
		// Cannot fail: the same pair was accepted by New.
		_, _ = r.cache.get(r.defaults)
	}
	r.logger.Debug("reset resampler")
}

// SetPacketSize changes the packet size of every context. Pending bytes
// are kept and re-cut on the next call. 0 disables packetization.
func (r *Resampler) SetPacketSize(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: packet size must not be negative, got %d", ErrInvalidConfig, size)
	}
	r.packetSize = size
	r.cache.setPacketSize(size)
	return nil
}

// PacketSize returns the packet size in bytes.
func (r *Resampler) PacketSize() int {
	return r.packetSize
}

// ReturnEmpty reports what the last Process, Sample or Flush produced.
func (r *Resampler) ReturnEmpty() EmitState {
	return r.state
}

// Contexts returns the rate pairs with live contexts, in creation order.
func (r *Resampler) Contexts() []RatePair {
	return r.cache.pairs()
}

// Latency returns the default pair's filter lookahead in input samples
// (0 without a default pair).
func (r *Resampler) Latency() int {
	if !r.defaultSet {
		return 0
	}
	ctx, err := r.cache.get(r.defaults)
	if err != nil {
		return 0
	}
	return ctx.engine.Latency()
}

// Info describes a resampler's configuration and its default context.
type Info struct {
	// Algorithm describes the interpolation in use.
	Algorithm string

	// Quality is the resolved preset.
	Quality QualityPreset

	// Kernel is the resolved kernel.
	Kernel Kernel

	// InputRate and OutputRate are the default pair (0 when unset).
	InputRate  int
	OutputRate int

	// Up and Down are the reduced ratio of the default pair.
	Up   int
	Down int

	// FilterLength is the number of taps per output.
	FilterLength int

	// Phases is the number of stored filter phases.
	Phases int

	// Latency is the lookahead in input samples.
	Latency int

	// PacketSize is the packet size in bytes.
	PacketSize int

	// Contexts is the number of live rate contexts.
	Contexts int

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// GetInfo returns information about the resampler.
func (r *Resampler) GetInfo() Info {
	spec := GetPresetSpec(r.config.Quality)
	kernel := spec.Kernel
	if r.config.Kernel != KernelAuto {
		kernel = r.config.Kernel
	}

	info := Info{
		Algorithm:  algorithmName(kernel),
		Quality:    spec.Preset,
		Kernel:     kernel,
		PacketSize: r.packetSize,
		Contexts:   len(r.cache.order),
		SIMDType:   cpu.Info(),
	}

	if r.defaultSet {
		if ctx, err := r.cache.get(r.defaults); err == nil {
			info.InputRate = r.defaults.Source
			info.OutputRate = r.defaults.Destination
			info.Up, info.Down = ctx.engine.Ratio()
			info.FilterLength = ctx.engine.Taps()
			info.Phases = ctx.engine.Phases()
			info.Latency = ctx.engine.Latency()
			if ctx.engine.IsIdentity() {
				info.Algorithm = "passthrough"
			}
		}
	}

	return info
}

func algorithmName(k Kernel) string {
	switch k {
	case KernelCubic:
		return "cubic interpolation"
	case KernelLinear:
		return "linear interpolation"
	default:
		return "polyphase kaiser sinc"
	}
}
