package testutil

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Sine generates n int16 samples of a sine at freq Hz with the given peak
// amplitude (in int16 units).
func Sine(freq float64, sampleRate, n int, amplitude float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		out[i] = int16(math.Round(v))
	}
	return out
}

// Noise generates n pseudo-random int16 samples in [-amplitude, amplitude]
// from a fixed seed.
func Noise(seed uint64, n int, amplitude int) []int16 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(rng.IntN(2*amplitude+1) - amplitude)
	}
	return out
}

// RandomSplits cuts total into chunk lengths between 0 and maxChunk
// (zero-length chunks included) from a fixed seed.
func RandomSplits(seed uint64, total, maxChunk int) []int {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	var splits []int
	for remaining := total; remaining > 0; {
		n := min(rng.IntN(maxChunk+1), remaining)
		splits = append(splits, n)
		remaining -= n
	}
	return splits
}

// Chunks slices s according to the lengths in splits.
func Chunks[T any](s []T, splits []int) [][]T {
	out := make([][]T, 0, len(splits))
	pos := 0
	for _, n := range splits {
		out = append(out, s[pos:pos+n])
		pos += n
	}
	return out
}

// Int16LE encodes samples as little-endian 16-bit PCM.
func Int16LE(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// FromInt16LE decodes little-endian 16-bit PCM. A trailing odd byte is
// ignored.
func FromInt16LE(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return out
}
