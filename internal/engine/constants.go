package engine

// Default sinc design, matching the Medium quality preset.
const (
	defaultZeroCrossings = 16
	defaultAttenuation   = 90.0
	defaultCutoffFactor  = 0.90
	defaultMaxPhases     = 512
)

// Light kernel sizes.
const (
	cubicTaps  = 4
	linearTaps = 2
)

// Catmull-Rom (cubic Hermite) interpolation constants.
const (
	hermiteCoeff0_5 = 0.5
	hermiteCoeff1_5 = 1.5
	hermiteCoeff2_5 = 2.5
)

// One-pole DC blocker: dc = dcPole*dc + (1-dcPole)*y.
const (
	dcPole = 0.9995
	dcGain = 0.0005
)

// int16 saturation bounds.
const (
	maxInt16 = 32767
	minInt16 = -32768
)

// historyHeadroom is the extra capacity reserved on top of the filter
// length when the history slice is allocated.
const historyHeadroom = 2
