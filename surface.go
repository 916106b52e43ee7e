package pyramid

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Canvas is a gg backed surface whose base transform maps a world viewport
// at some zoom scale onto an image (world y up, image y down).
type Canvas struct {
	*gg.Context

	viewport WorldRect
	scale    float64
}

// NewCanvas returns a canvas covering viewport at scale output pixels per
// world unit.
func NewCanvas(viewport WorldRect, scale float64) *Canvas {
	w := int(math.Ceil(viewport.Width * scale))
	h := int(math.Ceil(viewport.Height * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	dc.Translate(0, float64(h))
	dc.Scale(scale, -scale)
	dc.Translate(-viewport.X, -viewport.Y)

	return &Canvas{Context: dc, viewport: viewport, scale: scale}
}

// Viewport returns the world rect the canvas shows
func (c *Canvas) Viewport() WorldRect {
	return c.viewport
}

// ZoomScale returns output pixels per world unit
func (c *Canvas) ZoomScale() float64 {
	return c.scale
}

// Surface returns the canvas itself, so a Canvas can act as a Host
func (c *Canvas) Surface() DrawingSurface {
	return c
}

// Fill paints the whole canvas a single colour, leaving the transform alone
func (c *Canvas) Fill(col color.Color) {
	c.Push()
	defer c.Pop()
	c.Identity()
	c.SetColor(col)
	c.Clear()
}

// FillHex is Fill with a hex colour, eg. "#ffffff" or "000"
func (c *Canvas) FillHex(hex string) {
	c.Push()
	defer c.Pop()
	c.Identity()
	c.SetHexColor(hex)
	c.Clear()
}
