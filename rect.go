package pyramid

import (
	"fmt"

	"github.com/go-spatial/geom"
)

// WorldRect is an axis aligned rectangle in world square units.
// (X,Y) is the corner with the smallest coordinates; y grows upward.
type WorldRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewWorldRect builds a rect from two corners in any order.
func NewWorldRect(x0, y0, x1, y1 float64) WorldRect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return WorldRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// WorldSquare returns the rect covering the whole world.
func WorldSquare(worldSize float64) WorldRect {
	return WorldRect{Width: worldSize, Height: worldSize}
}

func (r WorldRect) MinX() float64 { return r.X }
func (r WorldRect) MinY() float64 { return r.Y }
func (r WorldRect) MaxX() float64 { return r.X + r.Width }
func (r WorldRect) MaxY() float64 { return r.Y + r.Height }

// Empty returns true if the rect has no area.
func (r WorldRect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Extent returns the rect as a geom extent (minx, miny, maxx, maxy).
func (r WorldRect) Extent() *geom.Extent {
	return &geom.Extent{r.MinX(), r.MinY(), r.MaxX(), r.MaxY()}
}

// Intersects returns if the two rects overlap with some area.
func (r WorldRect) Intersects(o WorldRect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	common, ok := r.Extent().Intersect(o.Extent())
	if !ok || common == nil {
		return false
	}
	return common.MaxX() > common.MinX() && common.MaxY() > common.MinY()
}

func (r WorldRect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
