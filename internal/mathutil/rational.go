package mathutil

// GCD returns the greatest common divisor of two non-negative integers.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ReduceRatio reduces the rate pair src→dst to its lowest terms.
//
// The returned up factor L is the number of output samples produced for
// every down factor M input samples: output n lands at input time n*M/L.
func ReduceRatio(src, dst int) (up, down int) {
	g := GCD(src, dst)
	if g == 0 {
		return 0, 0
	}
	return dst / g, src / g
}

// CeilDiv returns ceil(a / b) for a >= 0 and b > 0.
func CeilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
