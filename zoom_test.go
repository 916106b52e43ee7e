package pyramid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomLevel(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name  string
		scale float64
		want  int
	}{
		{"whole world", 1, 0},
		{"double", 2, 1},
		{"x16", 16, 4},
		{"just below half step", 1.41, 0},
		{"just above half step", 1.42, 1},
		{"zoomed out", 0.25, 0},
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ZoomLevel(tt.scale, cfg))
		})
	}
}

func TestZoomLevelDefaultWorld(t *testing.T) {
	cfg := DefaultConfig()

	// the default world is 2^20 tiles across at scale 1
	assert.Equal(t, 20, ZoomLevel(1, cfg))
	assert.Equal(t, 0, ZoomLevel(math.Exp2(-20), cfg))
	assert.Equal(t, 10, ZoomLevel(math.Exp2(-10), cfg))
	assert.Equal(t, 0, ZoomLevel(math.Exp2(-25), cfg))
}

func TestZoomLevelMonotonic(t *testing.T) {
	for _, cfg := range []*Config{testConfig(), DefaultConfig()} {
		prev := ZoomLevel(1e-9, cfg)
		for scale := 1e-9; scale < 1e6; scale *= 1.07 {
			z := ZoomLevel(scale, cfg)
			assert.GreaterOrEqual(t, z, prev, "scale %g", scale)
			prev = z
		}
	}
}
