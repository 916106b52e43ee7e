package main

import (
	"math"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/voidshard/pyramid"
)

const desc = `Renders part of a tile pyramid (<input>/Tiles/z/x/y.png) to a png.

The viewport is given in world units (y up). If no viewport is given the
pyramid's bounding rect is used. The zoom scale is either given directly,
derived from --zoom, or chosen so the viewport fits in --size pixels.`

var cli struct {
	Input  string `arg:"" help:"pyramid base directory (holds Tiles/)"`
	Output string `short:"o" default:"render.png" help:"where to write the png. Overwrites output file if it exists."`

	// viewport, in world units
	X      float64 `help:"viewport min x (world units)"`
	Y      float64 `help:"viewport min y (world units)"`
	Width  float64 `help:"viewport width (world units), 0 uses the bounding rect"`
	Height float64 `help:"viewport height (world units), 0 uses the bounding rect"`

	Scale float64 `help:"zoom scale (output px per world unit)"`
	Zoom  int     `short:"z" default:"-1" help:"render at this pyramid level (overrides --scale)"`
	Size  int     `default:"1024" help:"longest output edge in px when neither --scale nor --zoom is set"`

	TileSize  uint    `default:"256" help:"tile edge in px"`
	WorldSize float64 `default:"268435456" help:"world square edge in world units"`
	Ext       string  `default:"png" help:"tile file extension"`

	Alpha      float64 `default:"1" help:"tile opacity 0-1"`
	Background string  `short:"b" help:"fill colour before drawing tiles, eg. #ffffff"`

	Verbose bool `short:"v" help:"debug logging"`
}

func main() {
	kong.Parse(&cli, kong.Name("pyramid-render"), kong.Description(desc))

	log := newLogger(cli.Verbose)

	cfg := &pyramid.Config{
		TileSize:  cli.TileSize,
		WorldSize: cli.WorldSize,
		Extension: cli.Ext,
	}

	ov, err := pyramid.Open(
		cli.Input,
		pyramid.WithConfig(cfg),
		pyramid.WithLogger(log),
		pyramid.WithAlpha(cli.Alpha),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to open pyramid")
	}

	viewport := pyramid.WorldRect{X: cli.X, Y: cli.Y, Width: cli.Width, Height: cli.Height}
	if viewport.Empty() {
		viewport = ov.BoundingRect()
	}

	scale := zoomScale(ov, viewport)
	log.Info().
		Stringer("viewport", viewport).
		Float64("scale", scale).
		Int("zoom", ov.ZoomLevel(scale)).
		Msg("rendering")

	if !ov.CanDraw(viewport, scale) {
		log.Warn().Msg("no tiles in viewport at this zoom")
	}

	canvas := pyramid.NewCanvas(viewport, scale)
	if cli.Background != "" {
		canvas.FillHex(cli.Background)
	}

	stats := ov.Redraw(canvas)

	if err := canvas.SavePNG(cli.Output); err != nil {
		log.Fatal().Err(err).Msg("unable to write output")
	}

	log.Info().Str("file", cli.Output).Int("drawn", stats.Drawn).Int("skipped", stats.Skipped).Msg("wrote render")
}

// zoomScale decides the output scale from --zoom, --scale or --size
func zoomScale(ov *pyramid.Overlay, viewport pyramid.WorldRect) float64 {
	cfg := ov.Config()
	if cli.Zoom >= 0 {
		return math.Exp2(float64(cli.Zoom)) * float64(cfg.TileSize) / cfg.WorldSize
	}
	if cli.Scale > 0 {
		return cli.Scale
	}
	return float64(cli.Size) / math.Max(viewport.Width, viewport.Height)
}

// newLogger returns a console logger on stderr
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
