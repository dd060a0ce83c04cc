package resampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-pcm-resampler/internal/testutil"
)

func s16(rate, channels int) Format {
	return Format{SampleRate: rate, Channels: channels, BitsPerSample: 16}
}

// transcodeAll runs data through a new transcoder in byte chunks and
// flushes it.
func transcodeAll(t *testing.T, in, out Format, opts TranscoderOptions, data []byte, splits []int) []byte {
	t.Helper()
	tr, err := NewTranscoder(in, out, opts)
	require.NoError(t, err)

	var result []byte
	for _, chunk := range testutil.Chunks(data, splits) {
		b, err := tr.Process(chunk)
		require.NoError(t, err)
		result = append(result, b...)
	}
	tail, err := tr.Flush()
	require.NoError(t, err)
	return append(result, tail...)
}

func resampled(t *testing.T, samples []int16, src, dst int) []int16 {
	t.Helper()
	out, err := ResampleSamples(samples, src, dst, QualityDefault)
	require.NoError(t, err)
	return out
}

func TestFormat_Validate(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"mono_16", s16(16000, 1), false},
		{"stereo_24_be", Format{SampleRate: 48000, Channels: 2, BitsPerSample: 24, BigEndian: true}, false},
		{"zero_rate", s16(0, 1), true},
		{"zero_channels", s16(16000, 0), true},
		{"bad_depth", Format{SampleRate: 16000, Channels: 1, BitsPerSample: 20}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Equal(t, "44100 Hz LPCM(2ch, 16-bit, LE)", s16(44100, 2).String())
}

func TestNewTranscoder_Validation(t *testing.T) {
	_, err := NewTranscoder(s16(44100, 2), s16(16000, 3), TranscoderOptions{})
	require.ErrorIs(t, err, ErrChannelMismatch)

	_, err = NewTranscoder(s16(0, 1), s16(16000, 1), TranscoderOptions{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewTranscoder(s16(44100, 1), s16(16000, 1), TranscoderOptions{PacketFrames: -1})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewTranscoder(s16(44100, 1), s16(16000, 1), TranscoderOptions{Quality: 42})
	require.ErrorIs(t, err, ErrInvalidConfig)

	for _, pair := range [][2]int{{1, 1}, {2, 2}, {2, 1}, {1, 2}, {6, 1}, {1, 6}, {4, 4}} {
		tr, err := NewTranscoder(s16(44100, pair[0]), s16(16000, pair[1]), TranscoderOptions{})
		require.NoError(t, err, "%d -> %d channels", pair[0], pair[1])
		assert.Equal(t, EmitEmpty, tr.ReturnEmpty())
		assert.Equal(t, pair[0], tr.InputFormat().Channels)
		assert.Equal(t, pair[1], tr.OutputFormat().Channels)
	}
}

func TestTranscoder_MonoMatchesResampler(t *testing.T) {
	input := testutil.Noise(61, 5000, 10000)
	data := testutil.Int16LE(input)

	got := transcodeAll(t, s16(44100, 1), s16(16000, 1), TranscoderOptions{}, data,
		testutil.RandomSplits(62, len(data), 1001))

	want, err := ResampleBytes(data, 44100, 16000, QualityDefault)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTranscoder_StereoChannelsIndependent(t *testing.T) {
	left := testutil.Noise(71, 3000, 10000)
	right := testutil.Sine(300, 48000, 3000, 12000)
	data := testutil.Int16LE(interleave([][]int16{left, right}))

	got := testutil.FromInt16LE(transcodeAll(t, s16(48000, 2), s16(16000, 2), TranscoderOptions{}, data,
		[]int{len(data)}))

	planes := deinterleave(got, 2)
	testutil.AssertSamplesEqual(t, resampled(t, left, 48000, 16000), planes[0], "left")
	testutil.AssertSamplesEqual(t, resampled(t, right, 48000, 16000), planes[1], "right")
}

func TestTranscoder_Downmix(t *testing.T) {
	stereo := interleave([][]int16{testutil.Noise(81, 2000, 9000), testutil.Noise(82, 2000, 9000)})
	data := testutil.Int16LE(stereo)

	got := transcodeAll(t, s16(44100, 2), s16(8000, 1), TranscoderOptions{}, data, []int{len(data)})

	want := resampled(t, DownmixStereo(stereo), 44100, 8000)
	testutil.AssertSamplesEqual(t, want, testutil.FromInt16LE(got))
}

func TestTranscoder_Upmix(t *testing.T) {
	mono := testutil.Noise(91, 2000, 9000)
	data := testutil.Int16LE(mono)

	got := transcodeAll(t, s16(8000, 1), s16(16000, 2), TranscoderOptions{}, data, []int{len(data)})

	want := resampled(t, mono, 8000, 16000)
	planes := deinterleave(testutil.FromInt16LE(got), 2)
	testutil.AssertSamplesEqual(t, want, planes[0])
	testutil.AssertSamplesEqual(t, want, planes[1])
}

func TestTranscoder_SplitsInsideFrames(t *testing.T) {
	in := Format{SampleRate: 44100, Channels: 2, BitsPerSample: 24, BigEndian: true}
	out := Format{SampleRate: 16000, Channels: 2, BitsPerSample: 16}

	codec, err := NewLPCM(2, 24, true)
	require.NoError(t, err)
	data, err := codec.EncodeInt16(testutil.Noise(101, 6000, 15000))
	require.NoError(t, err)

	opts := TranscoderOptions{PacketFrames: 320}
	want := transcodeAll(t, in, out, opts, data, []int{len(data)})
	for _, seed := range []uint64{1, 2, 3} {
		// Byte-level splits land inside samples and frames.
		got := transcodeAll(t, in, out, opts, data, testutil.RandomSplits(seed, len(data), 777))
		assert.Equal(t, want, got, "seed %d", seed)
	}
}

func TestTranscoder_DepthAndOrder(t *testing.T) {
	input := []int16{0, 1, -1, 32767, -32768, 1234}
	in := s16(16000, 1)
	out := Format{SampleRate: 16000, Channels: 1, BitsPerSample: 24, BigEndian: true}

	got := transcodeAll(t, in, out, TranscoderOptions{}, testutil.Int16LE(input), []int{len(input) * 2})

	codec, err := NewLPCM(1, 24, true)
	require.NoError(t, err)
	decoded, err := codec.DecodeMono(got)
	require.NoError(t, err)

	want := make([]int32, len(input))
	for i, s := range input {
		want[i] = int32(s) << 8
	}
	assert.Equal(t, want, decoded)
}

func TestTranscoder_Packetization(t *testing.T) {
	const frames = 320
	tr, err := NewTranscoder(s16(44100, 1), s16(16000, 2), TranscoderOptions{PacketFrames: frames})
	require.NoError(t, err)
	packet := frames * 4

	data := testutil.Int16LE(testutil.Sine(440, 44100, 20000, 8000))
	total := 0
	for _, chunk := range testutil.Chunks(data, testutil.RandomSplits(5, len(data), 2001)) {
		out, err := tr.Process(chunk)
		require.NoError(t, err)
		require.Zero(t, len(out)%packet)
		total += len(out)

		switch {
		case len(out) > 0:
			assert.Equal(t, EmitPacket, tr.ReturnEmpty())
		case len(chunk) > 0:
			assert.Equal(t, EmitBuffering, tr.ReturnEmpty())
		default:
			assert.Equal(t, EmitEmpty, tr.ReturnEmpty())
		}
	}
	tail, err := tr.Flush()
	require.NoError(t, err)
	total += len(tail)

	// ceil(20000 * 160 / 441) frames of 4 bytes.
	assert.Equal(t, 7257*4, total)
}

func TestTranscoder_FlushDropsPartialFrame(t *testing.T) {
	tr, err := NewTranscoder(s16(16000, 2), s16(16000, 2), TranscoderOptions{})
	require.NoError(t, err)

	out, err := tr.Process([]byte{1, 0, 2, 0, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 2, 0}, out)

	tail, err := tr.Flush()
	require.NoError(t, err)
	assert.Empty(t, tail)
	assert.Equal(t, EmitEmpty, tr.ReturnEmpty())

	// The dropped bytes must not prefix the next stream.
	out, err = tr.Process([]byte{5, 0, 6, 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 6, 0}, out)
}

func TestTranscoder_Reset(t *testing.T) {
	in, out := s16(48000, 2), s16(16000, 1)
	data := testutil.Int16LE(testutil.Noise(111, 4000, 9000))

	tr, err := NewTranscoder(in, out, TranscoderOptions{PacketFrames: 160})
	require.NoError(t, err)
	_, err = tr.Process(data[:1111])
	require.NoError(t, err)
	tr.Reset()
	assert.Equal(t, EmitEmpty, tr.ReturnEmpty())

	got, err := tr.Process(data)
	require.NoError(t, err)

	fresh, err := NewTranscoder(in, out, TranscoderOptions{PacketFrames: 160})
	require.NoError(t, err)
	want, err := fresh.Process(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, fresh.Latency(), tr.Latency())
}
