package resampler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tphakala/go-pcm-resampler/internal/engine"
)

// RatePair identifies a resampling context.
type RatePair struct {
	Source      int
	Destination int
}

// String returns the pair as "source->destination".
func (p RatePair) String() string {
	return fmt.Sprintf("%d->%d", p.Source, p.Destination)
}

// validate rejects non-positive rates.
func (p RatePair) validate() error {
	if p.Source <= 0 || p.Destination <= 0 {
		return fmt.Errorf("%w: sample rates must be positive, got %s", ErrInvalidConfig, p)
	}
	return nil
}

// rateContext is the streaming state of one rate pair: its engine and its
// own packet remainder.
type rateContext struct {
	engine  *engine.Resampler
	packets *PacketAssembler
}

// contextCache owns the contexts of a Resampler, creating each lazily on
// first use and keeping it until reset.
type contextCache struct {
	params     engine.Params
	packetSize int
	contexts   map[RatePair]*rateContext
	order      []RatePair
	logger     *zap.Logger
}

func newContextCache(params engine.Params, packetSize int, logger *zap.Logger) *contextCache {
	return &contextCache{
		params:     params,
		packetSize: packetSize,
		contexts:   make(map[RatePair]*rateContext),
		logger:     logger,
	}
}

// get returns the context for pair, creating it if needed.
func (c *contextCache) get(pair RatePair) (*rateContext, error) {
	if ctx, ok := c.contexts[pair]; ok {
		return ctx, nil
	}
	if err := pair.validate(); err != nil {
		return nil, err
	}

	eng, err := engine.New(pair.Source, pair.Destination, c.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	ctx := &rateContext{engine: eng, packets: NewPacketAssembler(c.packetSize)}
	c.contexts[pair] = ctx
	c.order = append(c.order, pair)

	c.logger.Debug("created resampling context",
		zap.Stringer("pair", pair),
		zap.Stringer("kernel", c.params.Kernel),
		zap.Int("taps", eng.Taps()),
		zap.Int("phases", eng.Phases()),
		zap.Int("latency", eng.Latency()))

	return ctx, nil
}

// lookup returns an existing context without creating one.
func (c *contextCache) lookup(pair RatePair) (*rateContext, bool) {
	ctx, ok := c.contexts[pair]
	return ctx, ok
}

// setPacketSize applies a new packet size to every context.
func (c *contextCache) setPacketSize(size int) {
	c.packetSize = size
	for _, ctx := range c.contexts {
		ctx.packets.SetPacketSize(size)
	}
}

// reset drops every context. The next call on any pair starts from a
// freshly designed engine.
func (c *contextCache) reset() {
	clear(c.contexts)
	c.order = c.order[:0]
}

// pairs returns the known rate pairs in creation order.
func (c *contextCache) pairs() []RatePair {
	out := make([]RatePair, len(c.order))
	copy(out, c.order)
	return out
}
