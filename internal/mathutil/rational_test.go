package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceRatio(t *testing.T) {
	tests := []struct {
		src, dst int
		up, down int
	}{
		{44100, 16000, 160, 441},
		{44100, 48000, 160, 147},
		{44100, 8000, 80, 441},
		{8000, 16000, 2, 1},
		{48000, 8000, 1, 6},
		{16000, 16000, 1, 1},
		{11025, 48000, 640, 147},
		{44101, 48000, 48000, 44101},
	}

	for _, tt := range tests {
		up, down := ReduceRatio(tt.src, tt.dst)
		assert.Equal(t, tt.up, up, "%d->%d up", tt.src, tt.dst)
		assert.Equal(t, tt.down, down, "%d->%d down", tt.src, tt.dst)
	}
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 100, GCD(44100, 16000))
	assert.Equal(t, 7, GCD(7, 0))
	assert.Equal(t, 0, GCD(0, 0))
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, int64(0), CeilDiv(0, 3))
	assert.Equal(t, int64(1), CeilDiv(1, 3))
	assert.Equal(t, int64(1), CeilDiv(3, 3))
	assert.Equal(t, int64(2), CeilDiv(4, 3))
}
