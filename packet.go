package resampler

import (
	"github.com/tphakala/go-pcm-resampler/internal/pipeline"
)

// EmitState describes what the last call produced.
type EmitState int

const (
	// EmitEmpty means the call had no input and emitted nothing. It is also
	// the state of a new or reset resampler.
	EmitEmpty EmitState = iota

	// EmitBuffering means input was accepted but no complete packet is
	// ready yet. The data is held in the filter history or the pending
	// packet remainder.
	EmitBuffering

	// EmitPacket means the call returned at least one byte.
	EmitPacket
)

// String returns the state name.
func (s EmitState) String() string {
	switch s {
	case EmitEmpty:
		return "empty"
	case EmitBuffering:
		return "buffering"
	case EmitPacket:
		return "packet"
	default:
		return "unknown"
	}
}

// stateFor derives the EmitState of a call from its input and output sizes.
func stateFor(inputLen, outputLen int) EmitState {
	switch {
	case outputLen > 0:
		return EmitPacket
	case inputLen > 0:
		return EmitBuffering
	default:
		return EmitEmpty
	}
}

// PacketAssembler cuts a byte stream into fixed-size packets.
//
// With a size of 0 packetization is disabled and every Push returns its
// input unchanged. Otherwise Push returns floor(pending/size) whole packets
// concatenated and keeps the remainder, which is always shorter than size.
//
// A PacketAssembler is not safe for concurrent use.
type PacketAssembler struct {
	size    int
	pending *pipeline.RingBuffer[byte]
	state   EmitState
}

// NewPacketAssembler creates an assembler emitting packets of size bytes.
// A size <= 0 disables packetization.
func NewPacketAssembler(size int) *PacketAssembler {
	return &PacketAssembler{
		size:    max(size, 0),
		pending: pipeline.NewRingBuffer[byte](max(2*size, 0)),
	}
}

// Push appends raw to the pending bytes and returns every complete packet.
// inputLen is the size of the input that produced raw; it decides between
// EmitBuffering and EmitEmpty when nothing is returned.
func (p *PacketAssembler) Push(raw []byte, inputLen int) []byte {
	var out []byte
	if p.size == 0 {
		// A remainder left from before packetization was turned off goes
		// out ahead of the new bytes.
		out = append(p.pending.ReadAll(), raw...)
	} else {
		p.pending.Write(raw)
		whole := p.pending.Available() / p.size * p.size
		out = p.pending.Read(whole)
	}
	p.state = stateFor(inputLen, len(out))
	return out
}

// SetPacketSize changes the packet size. Pending bytes are kept and cut to
// the new size on the next Push.
func (p *PacketAssembler) SetPacketSize(size int) {
	p.size = max(size, 0)
}

// PacketSize returns the packet size in bytes (0 when disabled).
func (p *PacketAssembler) PacketSize() int {
	return p.size
}

// State returns the EmitState of the last Push.
func (p *PacketAssembler) State() EmitState {
	return p.state
}

// Pending returns the number of bytes waiting for a complete packet.
func (p *PacketAssembler) Pending() int {
	return p.pending.Available()
}

// Drain returns the pending partial packet and clears it.
func (p *PacketAssembler) Drain() []byte {
	return p.pending.ReadAll()
}

// Reset drops pending bytes and returns the state to EmitEmpty.
func (p *PacketAssembler) Reset() {
	p.pending.Clear()
	p.state = EmitEmpty
}
