package pyramid

// Bounds returns the world rect covered by the pyramid.
//
// Only the tiles at the lowest zoom present are used; a pyramid may omit
// its top levels so that zoom need not be 0. Edges are tile inclusive, a
// single tile yields exactly its own footprint.
func Bounds(idx *TileIndex, cfg *Config) WorldRect {
	minZoom := idx.MinZoom()
	tiles := idx.AtZoom(minZoom)

	minX, minY := tiles[0].X, tiles[0].Y
	maxX, maxY := minX, minY
	for _, t := range tiles[1:] {
		minX = min(minX, t.X)
		maxX = max(maxX, t.X)
		minY = min(minY, t.Y)
		maxY = max(maxY, t.Y)
	}

	tilesAtMinZoom := float64(int(1) << minZoom)
	scale := tilesAtMinZoom * float64(cfg.TileSize) / cfg.WorldSize
	ts := float64(cfg.TileSize)

	// disk rows count down from the top, world y counts up, so the
	// lowest disk row becomes the top edge and vice versa
	flippedMinY := Flip(minY, minZoom)
	flippedMaxY := Flip(maxY, minZoom)

	x0 := float64(minX) * ts / scale
	x1 := float64(maxX+1) * ts / scale
	y0 := float64(flippedMaxY) * ts / scale
	y1 := float64(flippedMinY+1) * ts / scale

	return WorldRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
