// Package resampler converts streaming 16-bit PCM between sample rates in
// pure Go and cuts the result into fixed-size packets.
//
// The core is a rational-ratio polyphase FIR: a Kaiser windowed-sinc bank
// designed per rate pair, driven by an exact integer phase accumulator so
// that output never drifts and never depends on how the input is chunked.
// Cubic and linear kernels are available for band-limited input where CPU
// matters more than alias rejection.
//
// # Features
//
//   - Arbitrary integer rate pairs (44100 to 16000, 8000 to 48000, ...)
//   - Chunking invariance: any split of the input yields identical bytes
//   - Per-rate-pair contexts so one Resampler can serve several conversions
//   - Fixed-size packet output for VoIP framing (e.g. 640 bytes = 20 ms at 16 kHz)
//   - LPCM codec for 8, 16, 24 and 32-bit samples in either byte order
//   - Transcoder for multi-channel LPCM with depth and channel conversion
//   - SIMD dot products via github.com/tphakala/simd
//
// # Quick Start
//
// One-shot conversion of a complete buffer:
//
//	out, err := resampler.ResampleBytes(pcm, 44100, 16000, resampler.QualityMedium)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Streaming with 20 ms packets:
//
//	r, err := resampler.New(&resampler.Config{
//	    InputRate:  44100,
//	    OutputRate: 16000,
//	    PacketSize: 640,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for chunk := range chunks {
//	    packets, err := r.Process(chunk)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    send(packets) // zero or more whole 640-byte packets
//	}
//
//	tail, _ := r.Flush() // filter tail plus the final partial packet
//
// # Emit State
//
// After every call [Resampler.ReturnEmpty] reports whether the call produced
// bytes ([EmitPacket]), only buffered its input ([EmitBuffering]) or had
// nothing to do ([EmitEmpty]).
//
// # Multiple Rate Pairs
//
// [Resampler.Sample] names the rate pair per call. Each pair keeps its own
// filter history, phase and packet remainder, so interleaving calls for
// different pairs gives the same bytes as separate resamplers:
//
//	r, _ := resampler.NewMultiRate(&resampler.Config{PacketSize: 640})
//	wide, _ := r.Sample(pcm, 44100, 16000)
//	narrow, _ := r.Sample(pcm, 44100, 8000)
//
// # Quality Presets
//
//   - [QualityQuick]: cubic interpolation, no anti-aliasing.
//   - [QualityLow]: 8 zero crossings, 60 dB stopband. Speech.
//   - [QualityMedium]: 16 zero crossings, 90 dB stopband. The default.
//   - [QualityHigh]: 32 zero crossings, 110 dB stopband. Music.
//
// # Thread Safety
//
// A Resampler or Transcoder is not safe for concurrent use. Use one per
// stream or serialize access. [LPCM] values are immutable and may be shared.
package resampler
