package pyramid

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

// Renderer paints visible tiles onto a DrawingSurface.
type Renderer struct {
	Decoder Decoder
	Logger  zerolog.Logger

	// edge length tiles are drawn at before scaling, in pixels
	TileSize uint

	// overall tile opacity in [0, 1]
	Alpha float64

	// max concurrent decodes per Draw call
	Workers int
}

// RenderStats counts what happened during one Draw call
type RenderStats struct {
	Drawn   int
	Skipped int
}

// NewRenderer returns a fully opaque renderer using the given decoder
func NewRenderer(dec Decoder, cfg *Config, log zerolog.Logger) *Renderer {
	return &Renderer{
		Decoder:  dec,
		Logger:   log,
		TileSize: cfg.TileSize,
		Alpha:    1,
		Workers:  cfg.DecodeWorkers,
	}
}

type decodedTile struct {
	im  image.Image
	err error
}

// Draw paints each tile into its destination rect at the given zoom scale.
//
// Tiles that fail to load are logged as AssetLoadError and skipped; the rest
// are still drawn. Tiles are decoded concurrently but the surface is only
// ever touched from the calling goroutine, in input order.
func (r *Renderer) Draw(s DrawingSurface, tiles []*VisibleTile, scale float64) RenderStats {
	stats := RenderStats{}
	if len(tiles) == 0 {
		return stats
	}

	mapper := iter.Mapper[*VisibleTile, decodedTile]{MaxGoroutines: max(r.Workers, 1)}
	decoded := mapper.Map(tiles, func(vt **VisibleTile) decodedTile {
		im, err := r.load((*vt).Path)
		return decodedTile{im: im, err: err}
	})

	for i, vt := range tiles {
		if decoded[i].err != nil {
			r.Logger.Warn().
				Err(&AssetLoadError{Tile: vt.Tile, Path: vt.Path, Err: decoded[i].err}).
				Msg("skipping tile")
			stats.Skipped++
			continue
		}
		r.drawTile(s, vt, decoded[i].im, scale)
		stats.Drawn++
	}

	return stats
}

// load decodes a tile and gets it ready to draw: TileSize square, faded to
// Alpha if needed.
func (r *Renderer) load(path string) (image.Image, error) {
	im, err := r.Decoder.Decode(path)
	if err != nil {
		return nil, err
	}

	ts := int(r.TileSize)
	b := im.Bounds()
	if b.Dx() != ts || b.Dy() != ts {
		im = resize.Resize(r.TileSize, r.TileSize, im, resize.Bilinear)
	}

	if r.Alpha < 1 {
		im = fade(im, r.Alpha)
	}
	return im, nil
}

// drawTile places one decoded tile. The transform is always restored.
func (r *Renderer) drawTile(s DrawingSurface, vt *VisibleTile, im image.Image, scale float64) {
	s.Push()
	defer s.Pop()

	// rect origin is its lower left corner in world space (y up)
	s.Translate(vt.Rect.MinX(), vt.Rect.MinY())
	s.Scale(1/scale, 1/scale)

	// rasters have their origin top left, rows running down
	s.Translate(0, float64(r.TileSize))
	s.Scale(1, -1)

	s.DrawImage(im, 0, 0)
}

// fade returns a copy of im with its opacity multiplied by alpha
func fade(im image.Image, alpha float64) image.Image {
	alpha = math.Max(0, alpha)
	b := im.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.DrawMask(out, out.Bounds(), im, b.Min, mask, image.Point{}, draw.Over)
	return out
}
