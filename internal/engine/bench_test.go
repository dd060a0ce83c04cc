package engine

import (
	"testing"

	"github.com/tphakala/go-pcm-resampler/internal/testutil"
)

// 20 ms of 44.1 kHz audio, the typical VoIP chunk.
const benchChunk = 882

func benchmarkProcess(b *testing.B, src, dst int, k Kernel) {
	b.Helper()
	params := DefaultParams()
	params.Kernel = k
	r, err := New(src, dst, params)
	if err != nil {
		b.Fatal(err)
	}
	input := testutil.Noise(1, benchChunk, 20000)

	b.SetBytes(int64(2 * len(input)))
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Process(input)
	}
}

func BenchmarkProcess_44100_16000_Sinc(b *testing.B) {
	benchmarkProcess(b, 44100, 16000, KernelSinc)
}

func BenchmarkProcess_44100_8000_Sinc(b *testing.B) {
	benchmarkProcess(b, 44100, 8000, KernelSinc)
}

func BenchmarkProcess_8000_48000_Sinc(b *testing.B) {
	benchmarkProcess(b, 8000, 48000, KernelSinc)
}

func BenchmarkProcess_44100_16000_Cubic(b *testing.B) {
	benchmarkProcess(b, 44100, 16000, KernelCubic)
}

func BenchmarkNew_44100_16000(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_, _ = New(44100, 16000, DefaultParams())
	}
}
