package pyramid

import (
	"image"
)

// Enumerator lists the files under a root directory.
type Enumerator interface {
	// Walk calls fn for every regular file (or link to one) under root with its path
	// relative to root (slash separated). An error from fn stops the walk.
	Walk(root string, fn func(rel string) error) error
}

// Decoder loads the raster for a tile image path.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// DrawingSurface is where the renderer paints tiles. Push / Pop save and
// restore the transform and must nest. *gg.Context satisfies it directly.
//
// A surface is single writer; don't render into one from multiple
// goroutines at once.
type DrawingSurface interface {
	Push()
	Pop()
	Translate(x, y float64)
	Scale(x, y float64)
	DrawImage(im image.Image, x, y int)
}

// Host is the application showing an overlay. It decides what part of the
// world is on screen and at what zoom scale, and owns the surface.
type Host interface {
	// Viewport is the visible world rect
	Viewport() WorldRect

	// ZoomScale is output pixels per world unit
	ZoomScale() float64

	// Surface receives the draw calls
	Surface() DrawingSurface
}
