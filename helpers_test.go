package pyramid

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testBase = "/maps/test"

var (
	red    = color.RGBA{R: 255, A: 255}
	green  = color.RGBA{G: 255, A: 255}
	blue   = color.RGBA{B: 255, A: 255}
	yellow = color.RGBA{R: 255, G: 255, A: 255}
)

// testConfig is a world made of exactly one 256px tile at zoom 0
func testConfig() *Config {
	return &Config{TileSize: 256, WorldSize: 256, Extension: "png", TilesDir: "Tiles", DecodeWorkers: 2}
}

func solidImage(c color.Color, size int) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(im, im.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return im
}

// splitImage has its top half in one colour and bottom half in another
func splitImage(top, bottom color.Color, size int) *image.RGBA {
	im := solidImage(bottom, size)
	draw.Draw(im, image.Rect(0, 0, size, size/2), image.NewUniform(top), image.Point{}, draw.Src)
	return im
}

func encodePNG(t *testing.T, im image.Image) []byte {
	t.Helper()
	buf := bytes.Buffer{}
	require.NoError(t, png.Encode(&buf, im))
	return buf.Bytes()
}

// writeFile writes data to fs, creating parent directories
func writeFile(t *testing.T, fs afero.Fs, fname string, data []byte) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(fname), 0755))
	require.NoError(t, afero.WriteFile(fs, fname, data, 0644))
}

// writeTile writes a png for t under base/Tiles
func writeTile(t *testing.T, fs afero.Fs, base string, tile Tile, im image.Image) string {
	t.Helper()
	fname := filepath.Join(base, "Tiles", fmt.Sprint(tile.Z), fmt.Sprint(tile.X), fmt.Sprintf("%d.png", tile.Y))
	writeFile(t, fs, fname, encodePNG(t, im))
	return fname
}

// newPyramid builds an in memory pyramid with a solid 256px tile per input
func newPyramid(t *testing.T, tiles ...Tile) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testBase, "Tiles"), 0755))
	for _, tile := range tiles {
		writeTile(t, fs, testBase, tile, solidImage(green, 256))
	}
	return fs
}

func openTest(t *testing.T, fs afero.Fs, opts ...Option) *Overlay {
	t.Helper()
	ov, err := Open(testBase, append([]Option{WithFs(fs), WithConfig(testConfig())}, opts...)...)
	require.NoError(t, err)
	return ov
}

// op is one recorded surface call
type op struct {
	Name string
	X, Y float64
}

// recordingSurface remembers every call and checks Push / Pop nest
type recordingSurface struct {
	ops      []op
	images   []image.Image
	depth    int
	maxDepth int
	underrun bool
}

func (s *recordingSurface) Push() {
	s.ops = append(s.ops, op{Name: "push"})
	s.depth++
	if s.depth > s.maxDepth {
		s.maxDepth = s.depth
	}
}

func (s *recordingSurface) Pop() {
	s.ops = append(s.ops, op{Name: "pop"})
	s.depth--
	if s.depth < 0 {
		s.underrun = true
	}
}

func (s *recordingSurface) Translate(x, y float64) {
	s.ops = append(s.ops, op{Name: "translate", X: x, Y: y})
}

func (s *recordingSurface) Scale(x, y float64) {
	s.ops = append(s.ops, op{Name: "scale", X: x, Y: y})
}

func (s *recordingSurface) DrawImage(im image.Image, x, y int) {
	s.ops = append(s.ops, op{Name: "draw", X: float64(x), Y: float64(y)})
	s.images = append(s.images, im)
}

func (s *recordingSurface) count(name string) int {
	n := 0
	for _, o := range s.ops {
		if o.Name == name {
			n++
		}
	}
	return n
}

var errBrokenTile = errors.New("broken tile")

// mapDecoder serves images by path; unknown paths fail
type mapDecoder map[string]image.Image

func (d mapDecoder) Decode(path string) (image.Image, error) {
	im, ok := d[path]
	if !ok {
		return nil, errBrokenTile
	}
	return im, nil
}

// rgbAt returns the 8 bit colour of a pixel
func rgbAt(im image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := im.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
