package resampler

import "errors"

// Errors returned by the resampler and the LPCM codec. Returned errors wrap
// one of these; test with errors.Is.
var (
	// ErrInvalidConfig indicates invalid configuration parameters: a
	// non-positive rate, a negative packet size, an unsupported bit depth
	// or channel count.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrMisalignedInput indicates an input byte buffer that does not hold a
	// whole number of samples or frames.
	ErrMisalignedInput = errors.New("input not aligned to sample frame")

	// ErrSampleRange indicates a sample value outside the range of the
	// codec's bit depth.
	ErrSampleRange = errors.New("sample out of range for bit depth")

	// ErrChannelMismatch indicates a mono or stereo call on a codec
	// configured for a different channel count.
	ErrChannelMismatch = errors.New("channel count mismatch")

	// ErrLengthMismatch indicates channel slices of unequal length, or an
	// interleaved buffer that is not a whole number of frames.
	ErrLengthMismatch = errors.New("sample length mismatch")

	// ErrNoDefaultRate indicates Process or Flush on a resampler created
	// without a default rate pair. Use Sample instead.
	ErrNoDefaultRate = errors.New("no default rate pair configured")
)
