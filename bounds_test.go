package pyramid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name  string
		tiles []Tile
		want  WorldRect
	}{
		{
			name:  "single tile world",
			tiles: []Tile{{0, 0, 0}},
			want:  WorldRect{0, 0, 256, 256},
		},
		{
			name:  "full zoom 1",
			tiles: []Tile{{1, 0, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}},
			want:  WorldRect{0, 0, 256, 256},
		},
		{
			name:  "disk top left is world top left",
			tiles: []Tile{{1, 0, 0}},
			want:  WorldRect{0, 128, 128, 128},
		},
		{
			name:  "disk bottom right is world bottom right",
			tiles: []Tile{{1, 1, 1}},
			want:  WorldRect{128, 0, 128, 128},
		},
		{
			name:  "top row strip at zoom 2",
			tiles: []Tile{{2, 0, 0}, {2, 1, 0}},
			want:  WorldRect{0, 192, 128, 64},
		},
		{
			name:  "deeper zooms ignored",
			tiles: []Tile{{2, 0, 0}, {2, 1, 0}, {3, 7, 7}, {4, 0, 15}},
			want:  WorldRect{0, 192, 128, 64},
		},
		{
			name:  "sparse diagonal",
			tiles: []Tile{{2, 1, 2}, {2, 2, 1}},
			want:  WorldRect{64, 64, 128, 128},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewTileIndex(tt.tiles...)
			require.NotNil(t, idx)

			got := Bounds(idx, testConfig())
			assert.Equal(t, tt.want, got)
			assert.Greater(t, got.Width, 0.0)
			assert.Greater(t, got.Height, 0.0)
		})
	}
}

func TestBoundsDefaultWorld(t *testing.T) {
	cfg := DefaultConfig()

	got := Bounds(NewTileIndex(Tile{0, 0, 0}), cfg)
	assert.Equal(t, WorldSquare(cfg.WorldSize), got)

	// one tile at zoom 20 is 256 world units across at default settings
	got = Bounds(NewTileIndex(Tile{20, 5, Flip(7, 20)}), cfg)
	assert.Equal(t, WorldRect{5 * 256, 7 * 256, 256, 256}, got)
}
