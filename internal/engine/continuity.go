package engine

// ContinuityBuffer carries the streaming state of one rate conversion:
// the input tail still needed by the filter, the read position of the next
// output window, and the exact phase of that output.
//
// Output n sits at input time n·down/up. The position advances by whole
// input samples and the phase holds the remainder as a numerator over up,
// so no rounding error accumulates across calls. The history starts with
// taps/2-1 zeros so the first output is centered on input sample 0.
type ContinuityBuffer struct {
	history []float64
	pos     int // start of the next window; may run past the history when decimating
	phase   int // numerator over up, in [0, up)

	up, down int
	taps     int
}

// NewContinuityBuffer creates a buffer for an up/down ratio and a kernel of
// the given length.
func NewContinuityBuffer(up, down, taps int) *ContinuityBuffer {
	c := &ContinuityBuffer{
		history: make([]float64, 0, historyHeadroom*taps),
		up:      up,
		down:    down,
		taps:    taps,
	}
	c.Reset()
	return c
}

// Reset returns the buffer to its just-created state.
func (c *ContinuityBuffer) Reset() {
	c.history = c.history[:0]
	for range c.taps/2 - 1 {
		c.history = append(c.history, 0)
	}
	c.pos = 0
	c.phase = 0
}

// Append adds input samples to the history.
func (c *ContinuityBuffer) Append(samples []int16) {
	for _, s := range samples {
		c.history = append(c.history, float64(s))
	}
}

// AppendSilence adds n zero samples to the history.
func (c *ContinuityBuffer) AppendSilence(n int) {
	for range n {
		c.history = append(c.history, 0)
	}
}

// Ready reports whether the next output window is complete.
func (c *ContinuityBuffer) Ready() bool {
	return c.pos+c.taps <= len(c.history)
}

// Window returns the next output window. Only valid while Ready.
func (c *ContinuityBuffer) Window() []float64 {
	return c.history[c.pos : c.pos+c.taps : c.pos+c.taps]
}

// Phase returns the phase numerator of the next output.
func (c *ContinuityBuffer) Phase() int {
	return c.phase
}

// Advance moves to the next output instant.
func (c *ContinuityBuffer) Advance() {
	c.phase += c.down
	c.pos += c.phase / c.up
	c.phase %= c.up
}

// Compact drops history no future window can reach.
func (c *ContinuityBuffer) Compact() {
	drop := min(c.pos, len(c.history))
	if drop == 0 {
		return
	}
	n := copy(c.history, c.history[drop:])
	c.history = c.history[:n]
	c.pos -= drop
}

// FramePos returns the fractional position of the next output between two
// input samples, in [0, 1).
func (c *ContinuityBuffer) FramePos() float64 {
	return float64(c.phase) / float64(c.up)
}

// Buffered returns the number of history samples currently retained.
func (c *ContinuityBuffer) Buffered() int {
	return len(c.history)
}

// Skip returns how many future input samples will be passed over before
// the next window starts. Non-zero only when decimating.
func (c *ContinuityBuffer) Skip() int {
	return max(0, c.pos-len(c.history))
}
