package resampler

// Channel and depth limits
const (
	monoChannels   = 1
	stereoChannels = 2
	maxChannels    = 256 // Maximum supported channel count

	bitsPerByte = 8
)

// Supported LPCM bit depths
const (
	depth8Bit  = 8
	depth16Bit = 16
	depth24Bit = 24
	depth32Bit = 32
)

// Bytes per sample of the resampler's native s16le stream.
const bytesPerInt16 = 2

// Quality preset parameters
const (
	// Low quality (speech, low CPU)
	lowZeroCrossings = 8
	lowAttenuation   = 60.0
	lowCutoffFactor  = 0.85
	lowMaxPhases     = 256

	// Medium quality (default)
	mediumZeroCrossings = 16
	mediumAttenuation   = 90.0
	mediumCutoffFactor  = 0.90
	mediumMaxPhases     = 512

	// High quality (music)
	highZeroCrossings = 32
	highAttenuation   = 110.0
	highCutoffFactor  = 0.95
	highMaxPhases     = 1024

	// Upper bound for an explicit cutoff factor
	maxCutoffFactor = 0.99
)

// VoIP defaults: 16 kHz wideband in 20 ms packets.
const (
	voipPacketMillis = 20
	millisPerSecond  = 1000
)
