package pyramid

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Cutter slices one image covering the whole world square into a pyramid
// laid out as <base>/<TilesDir>/z/x/y.ext.
type Cutter struct {
	Fs     afero.Fs
	Config *Config
	Logger zerolog.Logger

	// zoom levels to write, inclusive
	MinZoom int
	MaxZoom int

	// don't write tiles that are fully transparent
	SkipEmpty bool
}

// NewCutter returns a cutter writing zoom 0 only; set MinZoom / MaxZoom for more.
func NewCutter(fs afero.Fs, cfg *Config, log zerolog.Logger) *Cutter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Cutter{Fs: fs, Config: cfg, Logger: log}
}

// Cut writes every tile of src for zooms MinZoom..MaxZoom. The top row of src
// is the top (max y) of the world. Returns the number of tiles written.
//
// Each tile is resampled from its own part of src, so deep levels of a small
// source are upscaled. Levels where a tile would cover less than one source
// pixel are refused.
func (c *Cutter) Cut(src image.Image, base string) (int, error) {
	if err := c.Config.Validate(); err != nil {
		return 0, err
	}
	if c.MinZoom < 0 || c.MaxZoom >= MaxZoom || c.MinZoom > c.MaxZoom {
		return 0, fmt.Errorf("invalid zoom range %d-%d", c.MinZoom, c.MaxZoom)
	}
	b := src.Bounds()
	if n := 1 << c.MaxZoom; n > b.Dx() || n > b.Dy() {
		return 0, fmt.Errorf("zoom %d needs %d source pixels across, image is %dx%d", c.MaxZoom, n, b.Dx(), b.Dy())
	}
	encode, err := encoderFor(c.Config.Extension)
	if err != nil {
		return 0, err
	}

	base, err = expandPath(base)
	if err != nil {
		return 0, err
	}

	written := int64(0)
	for z := c.MinZoom; z <= c.MaxZoom; z++ {
		n, err := c.cutLevel(src, base, z, encode)
		written += n
		if err != nil {
			return int(written), err
		}
		c.Logger.Debug().Int("zoom", z).Int64("tiles", n).Msg("cut level")
	}

	c.Logger.Info().Str("base", base).Int64("tiles", written).Msg("cut pyramid")
	return int(written), nil
}

// cutLevel writes the tiles of a single zoom level, encoding in parallel
func (c *Cutter) cutLevel(src image.Image, base string, z int, encode func(image.Image) ([]byte, error)) (int64, error) {
	ts := c.Config.TileSize
	n := 1 << z

	written := atomic.Int64{}
	p := pool.New().WithErrors().WithMaxGoroutines(max(c.Config.DecodeWorkers, 1))

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			x, y := x, y // per-iteration copies (go directive is 1.21)
			t := Tile{Z: z, X: x, Y: y}
			p.Go(func() error {
				part := sourceRect(src.Bounds(), n, x, y)
				crop := image.NewRGBA(image.Rect(0, 0, part.Dx(), part.Dy()))
				draw.Draw(crop, crop.Bounds(), src, part.Min, draw.Src)

				im := resize.Resize(ts, ts, crop, resize.Bilinear)
				if c.SkipEmpty && transparent(im) {
					return nil
				}

				data, err := encode(im)
				if err != nil {
					return err
				}

				fname := tilePath(base, c.Config, t)
				if err := c.Fs.MkdirAll(filepath.Dir(fname), 0755); err != nil {
					return err
				}
				if err := afero.WriteFile(c.Fs, fname, data, 0644); err != nil {
					return err
				}
				written.Add(1)
				return nil
			})
		}
	}

	err := p.Wait()
	return written.Load(), err
}

// sourceRect is the part of b covered by disk tile (x, y) of an n x n grid
func sourceRect(b image.Rectangle, n, x, y int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	return image.Rect(
		b.Min.X+x*w/n,
		b.Min.Y+y*h/n,
		b.Min.X+(x+1)*w/n,
		b.Min.Y+(y+1)*h/n,
	)
}

// encoderFor returns an encoder for a tile file extension
func encoderFor(ext string) (func(image.Image) ([]byte, error), error) {
	switch strings.ToLower(ext) {
	case "png":
		return func(im image.Image) ([]byte, error) {
			buff := new(bytes.Buffer)
			err := png.Encode(buff, im)
			return buff.Bytes(), err
		}, nil
	case "jpg", "jpeg":
		return func(im image.Image) ([]byte, error) {
			buff := new(bytes.Buffer)
			err := jpeg.Encode(buff, im, &jpeg.Options{Quality: 90})
			return buff.Bytes(), err
		}, nil
	}
	return nil, fmt.Errorf("can't write tiles with extension %q", ext)
}

// transparent returns if every pixel of im has zero alpha
func transparent(im image.Image) bool {
	if rgba, ok := im.(*image.RGBA); ok {
		for i := 3; i < len(rgba.Pix); i += 4 {
			if rgba.Pix[i] != 0 {
				return false
			}
		}
		return true
	}

	b := im.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := im.At(x, y).RGBA(); a != 0 {
				return false
			}
		}
	}
	return true
}
