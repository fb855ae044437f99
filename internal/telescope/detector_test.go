package telescope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPixelCentresAndOffsets(t *testing.T) {
	d, err := NewDetector(1280, 1280, 15, 0, 0)
	require.NoError(t, err)

	px, py := d.ToPixel(0, 0)
	assert.Equal(t, 640.0, px)
	assert.Equal(t, 640.0, py)

	// One pixel scale to the right of centre, half a pixel up.
	px, py = d.ToPixel(15, 7.5)
	assert.Equal(t, 641.0, px)
	assert.Equal(t, 640.5, py)

	// An offset detector sees the same focal point shifted.
	shifted, err := NewDetector(1280, 1280, 15, 20000, -20000)
	require.NoError(t, err)
	px, py = shifted.ToPixel(20000, -20000)
	assert.Equal(t, 640.0, px)
	assert.Equal(t, 640.0, py)
}

func TestContainsHalfOpenBounds(t *testing.T) {
	d, err := NewDetector(1280, 1280, 15, 0, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		px, py float64
		want   bool
	}{
		{"centre", 640, 640, true},
		{"corner origin", 0, 0, true},
		{"just inside far corner", 1279.999, 1279.999, true},
		{"x at upper bound", 1280, 640, false},
		{"y at upper bound", 640, 1280, false},
		{"negative x", -0.001, 640, false},
		{"negative y", 640, -0.001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Contains(tt.px, tt.py))
		})
	}
}

func TestNewDetectorValidatesGeometry(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		scale      float64
	}{
		{"zero rows", 0, 1280, 15},
		{"negative cols", 1280, -1, 15},
		{"zero pixel scale", 1280, 1280, 0},
		{"negative pixel scale", 1280, 1280, -15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDetector(tt.rows, tt.cols, tt.scale, 0, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotConfigured))
		})
	}
}
