package resampler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-pcm-resampler/internal/testutil"
)

func TestEmitState_String(t *testing.T) {
	assert.Equal(t, "empty", EmitEmpty.String())
	assert.Equal(t, "buffering", EmitBuffering.String())
	assert.Equal(t, "packet", EmitPacket.String())
	assert.Equal(t, "unknown", EmitState(42).String())
}

func TestStateFor(t *testing.T) {
	tests := []struct {
		in, out int
		want    EmitState
	}{
		{0, 0, EmitEmpty},
		{10, 0, EmitBuffering},
		{10, 4, EmitPacket},
		{0, 4, EmitPacket},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stateFor(tt.in, tt.out), "in=%d out=%d", tt.in, tt.out)
	}
}

func TestPacketAssembler_Law(t *testing.T) {
	const size = 640
	p := NewPacketAssembler(size)
	assert.Equal(t, EmitEmpty, p.State())

	var stream, emitted []byte
	for i, n := range testutil.RandomSplits(7, 20000, 900) {
		raw := bytes.Repeat([]byte{byte(i)}, n)
		stream = append(stream, raw...)

		before := p.Pending()
		out := p.Push(raw, n)

		require.Zero(t, len(out)%size, "push %d returned a partial packet", i)
		assert.Equal(t, (before+n)/size*size, len(out))
		assert.Less(t, p.Pending(), size)
		switch {
		case len(out) > 0:
			assert.Equal(t, EmitPacket, p.State())
		case n > 0:
			assert.Equal(t, EmitBuffering, p.State())
		default:
			assert.Equal(t, EmitEmpty, p.State())
		}
		emitted = append(emitted, out...)
	}

	emitted = append(emitted, p.Drain()...)
	assert.Equal(t, stream, emitted, "bytes must come out in order and unchanged")
	assert.Zero(t, p.Pending())
}

func TestPacketAssembler_ExactPacket(t *testing.T) {
	p := NewPacketAssembler(4)

	out := p.Push([]byte{1, 2}, 2)
	assert.Empty(t, out)
	assert.Equal(t, EmitBuffering, p.State())

	out = p.Push([]byte{3, 4, 5, 6, 7, 8, 9}, 7)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out)
	assert.Equal(t, EmitPacket, p.State())
	assert.Equal(t, 1, p.Pending())

	out = p.Push(nil, 0)
	assert.Empty(t, out)
	assert.Equal(t, EmitEmpty, p.State())
	assert.Equal(t, 1, p.Pending())
}

func TestPacketAssembler_Disabled(t *testing.T) {
	for _, size := range []int{0, -5} {
		p := NewPacketAssembler(size)
		assert.Zero(t, p.PacketSize())

		out := p.Push([]byte{1, 2, 3}, 3)
		assert.Equal(t, []byte{1, 2, 3}, out)
		assert.Equal(t, EmitPacket, p.State())
		assert.Zero(t, p.Pending())
	}
}

func TestPacketAssembler_BufferingWithoutOutput(t *testing.T) {
	p := NewPacketAssembler(0)

	// The filter swallowed the input: no bytes, but input was accepted.
	out := p.Push([]byte{}, 8)
	assert.Empty(t, out)
	assert.Equal(t, EmitBuffering, p.State())
}

func TestPacketAssembler_SetPacketSize(t *testing.T) {
	p := NewPacketAssembler(6)
	out := p.Push([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out)
	require.Equal(t, 4, p.Pending())

	// Pending bytes survive a size change and are cut to the new size.
	p.SetPacketSize(3)
	assert.Equal(t, 3, p.PacketSize())
	out = p.Push([]byte{11, 12}, 2)
	assert.Equal(t, []byte{7, 8, 9, 10, 11, 12}, out)
	assert.Zero(t, p.Pending())

	// Turning packetization off releases the remainder first.
	p.Push([]byte{13}, 1)
	p.SetPacketSize(0)
	out = p.Push([]byte{14}, 1)
	assert.Equal(t, []byte{13, 14}, out)
}

func TestPacketAssembler_Reset(t *testing.T) {
	p := NewPacketAssembler(8)
	p.Push([]byte{1, 2, 3}, 3)
	require.Equal(t, EmitBuffering, p.State())

	p.Reset()
	assert.Zero(t, p.Pending())
	assert.Equal(t, EmitEmpty, p.State())
	assert.Equal(t, 8, p.PacketSize())
	assert.Empty(t, p.Drain())
}
