package resampler

import (
	"encoding/binary"
	"fmt"
)

// LPCM encodes and decodes linear PCM: signed two's complement integers of
// 8, 16, 24 or 32 bits, interleaved by frame, in either byte order.
//
// An LPCM value is immutable and safe for concurrent use.
type LPCM struct {
	channels  int
	bits      int
	bigEndian bool
	clip      bool
}

// NewLPCM creates a codec for the given layout.
//
// Encoding rejects samples outside the depth's signed range with
// ErrSampleRange. Use WithClipping for a codec that saturates instead.
func NewLPCM(channels, bitsPerSample int, bigEndian bool) (*LPCM, error) {
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: channels must be 1-%d, got %d", ErrInvalidConfig, maxChannels, channels)
	}
	switch bitsPerSample {
	case depth8Bit, depth16Bit, depth24Bit, depth32Bit:
	default:
		return nil, fmt.Errorf("%w: bits per sample must be 8, 16, 24 or 32, got %d",
			ErrInvalidConfig, bitsPerSample)
	}
	return &LPCM{channels: channels, bits: bitsPerSample, bigEndian: bigEndian}, nil
}

// WithClipping returns a copy of the codec that saturates out-of-range
// samples to the depth's limits instead of failing.
func (c *LPCM) WithClipping() *LPCM {
	clipped := *c
	clipped.clip = true
	return &clipped
}

// Channels returns the channel count.
func (c *LPCM) Channels() int { return c.channels }

// BitsPerSample returns the sample depth.
func (c *LPCM) BitsPerSample() int { return c.bits }

// BigEndian reports the byte order.
func (c *LPCM) BigEndian() bool { return c.bigEndian }

// Clipping reports whether out-of-range samples are saturated.
func (c *LPCM) Clipping() bool { return c.clip }

// BytesPerSample returns the size of one sample of one channel.
func (c *LPCM) BytesPerSample() int { return c.bits / bitsPerByte }

// FrameSize returns the size of one interleaved frame in bytes.
func (c *LPCM) FrameSize() int { return c.channels * c.BytesPerSample() }

// String describes the layout, e.g. "LPCM(2ch, 16-bit, LE)".
func (c *LPCM) String() string {
	order := "LE"
	if c.bigEndian {
		order = "BE"
	}
	return fmt.Sprintf("LPCM(%dch, %d-bit, %s)", c.channels, c.bits, order)
}

// MinSample returns the most negative value representable at this depth.
func (c *LPCM) MinSample() int32 {
	return -1 << (c.bits - 1)
}

// MaxSample returns the most positive value representable at this depth.
func (c *LPCM) MaxSample() int32 {
	return 1<<(c.bits-1) - 1
}

// EncodeMono encodes samples for a single-channel codec.
func (c *LPCM) EncodeMono(samples []int32) ([]byte, error) {
	if c.channels != monoChannels {
		return nil, fmt.Errorf("%w: EncodeMono requires 1 channel, codec has %d", ErrChannelMismatch, c.channels)
	}
	return c.encode(samples)
}

// DecodeMono decodes a single-channel buffer.
func (c *LPCM) DecodeMono(data []byte) ([]int32, error) {
	if c.channels != monoChannels {
		return nil, fmt.Errorf("%w: DecodeMono requires 1 channel, codec has %d", ErrChannelMismatch, c.channels)
	}
	return c.Decode(data)
}

// EncodeStereo interleaves left and right as [L0 R0 L1 R1 ...] and
// encodes them. Both slices must have the same length.
func (c *LPCM) EncodeStereo(left, right []int32) ([]byte, error) {
	if c.channels != stereoChannels {
		return nil, fmt.Errorf("%w: EncodeStereo requires 2 channels, codec has %d", ErrChannelMismatch, c.channels)
	}
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: left has %d samples, right has %d", ErrLengthMismatch, len(left), len(right))
	}

	interleaved := make([]int32, 2*len(left))
	for i := range left {
		interleaved[2*i] = left[i]
		interleaved[2*i+1] = right[i]
	}
	return c.encode(interleaved)
}

// DecodeStereo splits a stereo buffer back into its two channels.
func (c *LPCM) DecodeStereo(data []byte) (left, right []int32, err error) {
	if c.channels != stereoChannels {
		return nil, nil, fmt.Errorf("%w: DecodeStereo requires 2 channels, codec has %d", ErrChannelMismatch, c.channels)
	}
	interleaved, err := c.Decode(data)
	if err != nil {
		return nil, nil, err
	}

	frames := len(interleaved) / stereoChannels
	left = make([]int32, frames)
	right = make([]int32, frames)
	for i := range frames {
		left[i] = interleaved[2*i]
		right[i] = interleaved[2*i+1]
	}
	return left, right, nil
}

// Encode encodes interleaved samples for any channel count. The sample
// count must be a whole number of frames.
func (c *LPCM) Encode(interleaved []int32) ([]byte, error) {
	if len(interleaved)%c.channels != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames",
			ErrLengthMismatch, len(interleaved), c.channels)
	}
	return c.encode(interleaved)
}

// Decode decodes a buffer of whole frames into interleaved samples. A
// trailing partial frame is an error, never silently dropped.
func (c *LPCM) Decode(data []byte) ([]int32, error) {
	if len(data)%c.FrameSize() != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte frame",
			ErrMisalignedInput, len(data), c.FrameSize())
	}

	width := c.BytesPerSample()
	out := make([]int32, len(data)/width)
	for i := range out {
		out[i] = c.get(data[i*width : (i+1)*width])
	}
	return out, nil
}

// EncodeInt16 scales 16-bit interleaved samples to the codec's depth and
// encodes them. Scaling is a bit shift, so it never leaves the range.
func (c *LPCM) EncodeInt16(interleaved []int16) ([]byte, error) {
	wide := make([]int32, len(interleaved))
	for i, s := range interleaved {
		wide[i] = c.fromInt16(s)
	}
	return c.Encode(wide)
}

// DecodeInt16 decodes a buffer and scales the samples to 16 bits. Deeper
// samples are truncated toward negative infinity.
func (c *LPCM) DecodeInt16(data []byte) ([]int16, error) {
	wide, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	out := make([]int16, len(wide))
	for i, s := range wide {
		out[i] = c.toInt16(s)
	}
	return out, nil
}

func (c *LPCM) fromInt16(s int16) int32 {
	shift := c.bits - depth16Bit
	if shift < 0 {
		return int32(s) >> -shift
	}
	return int32(s) << shift
}

func (c *LPCM) toInt16(s int32) int16 {
	shift := c.bits - depth16Bit
	if shift < 0 {
		return int16(s << -shift)
	}
	return int16(s >> shift)
}

// encode writes samples without checking the frame count.
func (c *LPCM) encode(samples []int32) ([]byte, error) {
	width := c.BytesPerSample()
	lo, hi := c.MinSample(), c.MaxSample()

	out := make([]byte, len(samples)*width)
	for i, s := range samples {
		if s < lo || s > hi {
			if !c.clip {
				return nil, fmt.Errorf("%w: sample %d = %d outside [%d, %d]", ErrSampleRange, i, s, lo, hi)
			}
			s = min(max(s, lo), hi)
		}
		c.put(out[i*width:(i+1)*width], s)
	}
	return out, nil
}

// put stores one sample in the codec's byte order.
func (c *LPCM) put(dst []byte, s int32) {
	switch c.bits {
	case depth8Bit:
		dst[0] = byte(s)
	case depth16Bit:
		if c.bigEndian {
			binary.BigEndian.PutUint16(dst, uint16(s))
		} else {
			binary.LittleEndian.PutUint16(dst, uint16(s))
		}
	case depth24Bit:
		u := uint32(s)
		if c.bigEndian {
			dst[0], dst[1], dst[2] = byte(u>>16), byte(u>>8), byte(u)
		} else {
			dst[0], dst[1], dst[2] = byte(u), byte(u>>8), byte(u>>16)
		}
	case depth32Bit:
		if c.bigEndian {
			binary.BigEndian.PutUint32(dst, uint32(s))
		} else {
			binary.LittleEndian.PutUint32(dst, uint32(s))
		}
	}
}

// get reads one sample in the codec's byte order, sign-extending it.
func (c *LPCM) get(src []byte) int32 {
	switch c.bits {
	case depth8Bit:
		return int32(int8(src[0]))
	case depth16Bit:
		if c.bigEndian {
			return int32(int16(binary.BigEndian.Uint16(src)))
		}
		return int32(int16(binary.LittleEndian.Uint16(src)))
	case depth24Bit:
		var u uint32
		if c.bigEndian {
			u = uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
		} else {
			u = uint32(src[2])<<16 | uint32(src[1])<<8 | uint32(src[0])
		}
		// Shift the sign bit into bit 31 and back.
		return int32(u<<8) >> 8
	default:
		if c.bigEndian {
			return int32(binary.BigEndian.Uint32(src))
		}
		return int32(binary.LittleEndian.Uint32(src))
	}
}

// decodeS16LE decodes mono little-endian 16-bit PCM. len(data) must be even.
func decodeS16LE(data []byte) []int16 {
	out := make([]int16, len(data)/bytesPerInt16)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[bytesPerInt16*i:]))
	}
	return out
}

// encodeS16LE encodes samples as little-endian 16-bit PCM.
func encodeS16LE(samples []int16) []byte {
	out := make([]byte, bytesPerInt16*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[bytesPerInt16*i:], uint16(s))
	}
	return out
}
