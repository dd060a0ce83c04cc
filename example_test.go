package resampler_test

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"

	resampler "github.com/tphakala/go-pcm-resampler"
)

func tone(freq float64, rate, n int) []byte {
	pcm := make([]byte, 2*n)
	for i := range n {
		s := int16(8000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}
	return pcm
}

func ExampleResampleBytes() {
	out, err := resampler.ResampleBytes(tone(440, 44100, 44100), 44100, 16000, resampler.QualityMedium)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(out), "bytes")
	// Output: 32000 bytes
}

func ExampleResampler_Process() {
	r, err := resampler.NewVoIP(resampler.RateCD)
	if err != nil {
		log.Fatal(err)
	}

	// One second of 10 ms chunks.
	pcm := tone(440, 44100, 44100)
	packets := 0
	for off := 0; off < len(pcm); off += 882 {
		out, err := r.Process(pcm[off : off+882])
		if err != nil {
			log.Fatal(err)
		}
		packets += len(out) / r.PacketSize()
	}

	tail, err := r.Flush()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("streamed packets:", packets > 40)
	fmt.Println("total bytes:", packets*r.PacketSize()+len(tail))
	// Output:
	// streamed packets: true
	// total bytes: 32000
}

func ExampleResampler_ReturnEmpty() {
	r, err := resampler.New(&resampler.Config{InputRate: 44100, OutputRate: 16000, PacketSize: 640})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(r.ReturnEmpty())

	if _, err := r.Process(tone(440, 44100, 10)); err != nil {
		log.Fatal(err)
	}
	fmt.Println(r.ReturnEmpty())

	if _, err := r.Process(tone(440, 44100, 4410)); err != nil {
		log.Fatal(err)
	}
	fmt.Println(r.ReturnEmpty())
	// Output:
	// empty
	// buffering
	// packet
}

func ExampleLPCM_EncodeStereo() {
	codec, err := resampler.NewLPCM(2, 24, false)
	if err != nil {
		log.Fatal(err)
	}
	data, err := codec.EncodeStereo([]int32{1, -1}, []int32{0x123456, -8388608})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", data)
	// Output: 01 00 00 56 34 12 ff ff ff 00 00 80
}

func ExampleResampler_Sample() {
	r, err := resampler.NewMultiRate(&resampler.Config{PacketSize: 320})
	if err != nil {
		log.Fatal(err)
	}

	pcm := tone(1000, 48000, 4800)
	wide, _ := r.Sample(pcm, 48000, 16000)
	narrow, _ := r.Sample(pcm, 48000, 8000)
	fmt.Println(len(wide)%320 == 0, len(narrow)%320 == 0)
	fmt.Println(r.Contexts())
	// Output:
	// true true
	// [48000->16000 48000->8000]
}
