package pyramid

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
)

// VisibleTile pairs a tile present on disk with where it lands in the world.
type VisibleTile struct {
	// Tile uses disk addressing (y counted from the top)
	Tile Tile

	// Path is the tile's image file
	Path string

	// Rect is the destination rect in world units
	Rect WorldRect
}

// visibleTiles returns every indexed tile under viewport at the given scale,
// ordered by (x, y) of the world grid cell.
//
// Cost is proportional to the number of grid cells the viewport covers at
// scale, callers are expected to keep both in a sane range.
func visibleTiles(idx *TileIndex, base string, cfg *Config, viewport WorldRect, scale float64) []*VisibleTile {
	result := []*VisibleTile{}
	if viewport.Empty() || !(scale > 0) || math.IsInf(scale, 0) {
		return result
	}

	z := ZoomLevel(scale, cfg)
	if z < idx.MinZoom() || z > idx.MaxZoom() {
		return result
	}
	tilesAtZ := 1 << z
	ts := float64(cfg.TileSize)

	// grid bounds stay in world (bottom-up) convention here
	minX := clampCell(math.Floor(viewport.MinX()*scale/ts), tilesAtZ)
	maxX := clampCell(math.Floor(viewport.MaxX()*scale/ts), tilesAtZ)
	minY := clampCell(math.Floor(viewport.MinY()*scale/ts), tilesAtZ)
	maxY := clampCell(math.Floor(viewport.MaxY()*scale/ts), tilesAtZ)

	size := ts / scale
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			disk := Tile{Z: z, X: x, Y: Flip(y, z)}
			if !idx.Contains(disk) {
				continue
			}
			result = append(result, &VisibleTile{
				Tile: disk,
				Path: tilePath(base, cfg, disk),
				Rect: WorldRect{
					X:      float64(x) * size,
					Y:      float64(y) * size,
					Width:  size,
					Height: size,
				},
			})
		}
	}

	return result
}

// clampCell limits a grid cell index to [-1, n]; anything outside [0, n)
// holds no tiles so the loops above never visit more than the grid.
func clampCell(v float64, n int) int {
	if v < -1 {
		return -1
	}
	if v > float64(n) {
		return n
	}
	return int(v)
}

// tilePath returns <base>/<TilesDir>/z/x/y.ext for a disk-addressed tile
func tilePath(base string, cfg *Config, t Tile) string {
	return filepath.Join(
		base,
		cfg.TilesDir,
		strconv.Itoa(t.Z),
		strconv.Itoa(t.X),
		fmt.Sprintf("%d.%s", t.Y, cfg.Extension),
	)
}
