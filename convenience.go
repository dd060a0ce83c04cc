package resampler

// Common sample rates for convenience functions.
const (
	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the common speech recognition sample rate.
	RateSpeech = 22050

	// RateSuperWideband is the super-wideband VoIP sample rate.
	RateSuperWideband = 32000

	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD and video production sample rate.
	RateDAT = 48000
)

// PacketBytes returns the size of a mono s16le packet holding millis
// milliseconds at sampleRate.
func PacketBytes(sampleRate, millis int) int {
	return sampleRate * millis / millisPerSecond * bytesPerInt16
}

// NewVoIP creates a resampler from sourceRate to 16 kHz that emits 20 ms
// packets (640 bytes).
func NewVoIP(sourceRate int) (*Resampler, error) {
	return New(&Config{
		InputRate:  sourceRate,
		OutputRate: RateVoIP,
		PacketSize: PacketBytes(RateVoIP, voipPacketMillis),
	})
}

// ResampleBytes resamples a complete mono s16le buffer in one shot,
// including the filter tail.
func ResampleBytes(pcm []byte, sourceRate, destinationRate int, quality QualityPreset) ([]byte, error) {
	r, err := New(&Config{InputRate: sourceRate, OutputRate: destinationRate, Quality: quality})
	if err != nil {
		return nil, err
	}
	out, err := r.Process(pcm)
	if err != nil {
		return nil, err
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, err
	}
	return append(out, tail...), nil
}

// ResampleSamples resamples a complete mono signal in one shot, including
// the filter tail.
func ResampleSamples(samples []int16, sourceRate, destinationRate int, quality QualityPreset) ([]int16, error) {
	out, err := ResampleBytes(encodeS16LE(samples), sourceRate, destinationRate, quality)
	if err != nil {
		return nil, err
	}
	return decodeS16LE(out), nil
}

// DownmixStereo averages interleaved stereo frames into mono, rounding
// toward negative infinity. A trailing odd sample is ignored.
func DownmixStereo(interleaved []int16) []int16 {
	mono := make([]int16, len(interleaved)/stereoChannels)
	for i := range mono {
		mono[i] = int16((int32(interleaved[2*i]) + int32(interleaved[2*i+1])) >> 1)
	}
	return mono
}

// UpmixMono duplicates every mono sample into an interleaved stereo frame.
func UpmixMono(mono []int16) []int16 {
	stereo := make([]int16, stereoChannels*len(mono))
	for i, s := range mono {
		stereo[2*i] = s
		stereo[2*i+1] = s
	}
	return stereo
}

// downmix averages interleaved frames of any width into mono.
func downmix(interleaved []int16, channels int) []int16 {
	if channels == stereoChannels {
		return DownmixStereo(interleaved)
	}
	frames := len(interleaved) / channels
	mono := make([]int16, frames)
	for i := range frames {
		var sum int64
		for _, s := range interleaved[i*channels : (i+1)*channels] {
			sum += int64(s)
		}
		// Floor division keeps the result in int16 range.
		q := sum / int64(channels)
		if sum%int64(channels) < 0 {
			q--
		}
		mono[i] = int16(q)
	}
	return mono
}

// upmix copies a mono signal into every channel of interleaved frames.
func upmix(mono []int16, channels int) []int16 {
	if channels == stereoChannels {
		return UpmixMono(mono)
	}
	out := make([]int16, channels*len(mono))
	for i, s := range mono {
		for ch := range channels {
			out[i*channels+ch] = s
		}
	}
	return out
}

// deinterleave splits interleaved frames into per-channel slices.
func deinterleave(interleaved []int16, channels int) [][]int16 {
	frames := len(interleaved) / channels
	out := make([][]int16, channels)
	for ch := range out {
		out[ch] = make([]int16, frames)
		for i := range frames {
			out[ch][i] = interleaved[i*channels+ch]
		}
	}
	return out
}

// interleave merges per-channel slices of equal length into frames.
func interleave(planes [][]int16) []int16 {
	if len(planes) == 0 {
		return []int16{}
	}
	frames := len(planes[0])
	out := make([]int16, frames*len(planes))
	for ch, plane := range planes {
		for i, s := range plane {
			out[i*len(planes)+ch] = s
		}
	}
	return out
}
