package pyramid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorldRect(t *testing.T) {
	assert.Equal(t, WorldRect{1, 2, 3, 4}, NewWorldRect(4, 6, 1, 2))
	assert.Equal(t, WorldRect{1, 2, 3, 4}, NewWorldRect(1, 2, 4, 6))

	r := NewWorldRect(1, 2, 4, 6)
	assert.Equal(t, [4]float64{1, 2, 4, 6}, [4]float64{r.MinX(), r.MinY(), r.MaxX(), r.MaxY()})
	assert.Equal(t, "(1,2 3x4)", r.String())
}

func TestWorldRectIntersects(t *testing.T) {
	base := WorldRect{0, 0, 10, 10}

	tests := []struct {
		name  string
		other WorldRect
		want  bool
	}{
		{"same", base, true},
		{"inside", WorldRect{2, 2, 1, 1}, true},
		{"contains", WorldRect{-5, -5, 20, 20}, true},
		{"overlap corner", WorldRect{9, 9, 5, 5}, true},
		{"touching edge", WorldRect{10, 0, 5, 10}, false},
		{"touching corner", WorldRect{10, 10, 1, 1}, false},
		{"apart", WorldRect{20, 20, 1, 1}, false},
		{"empty", WorldRect{2, 2, 0, 5}, false},
		{"negative size", WorldRect{2, 2, -1, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base))
		})
	}
}
