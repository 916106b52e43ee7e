package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/voidshard/pyramid"
)

const desc = `Cuts one large image covering the whole world into a tile pyramid (<output>/Tiles/z/x/y.png).

The top edge of the input is the top of the world. Every tile from --min-zoom to --max-zoom is resampled
from its own part of the input; --max-zoom may not ask for more tiles across than the input has pixels.`

var cli struct {
	Input  string `short:"i" help:"input image (required)"`
	Output string `short:"o" help:"pyramid base directory. Defaults to input + .pyramid"`

	MinZoom   int  `default:"0" help:"first zoom level to write"`
	MaxZoom   int  `default:"3" help:"last zoom level to write"`
	SkipEmpty bool `help:"don't write fully transparent tiles"`

	TileSize uint   `default:"256" help:"tile edge in px"`
	Ext      string `default:"png" help:"tile format, png or jpg"`
	Workers  int    `default:"4" help:"tiles encoded at once"`

	Verbose bool `short:"v" help:"debug logging"`
}

func main() {
	kong.Parse(&cli, kong.Name("pyramid-cut"), kong.Description(desc))

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if cli.Input == "" {
		log.Fatal().Msg("--input is required")
	}
	if cli.Output == "" {
		cli.Output = fmt.Sprintf("%s.pyramid", cli.Input)
	}

	imgdata, err := os.ReadFile(cli.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to read input")
	}

	in, _, err := image.Decode(bytes.NewBuffer(imgdata))
	if err != nil {
		log.Fatal().Err(err).Msg("unable to decode input")
	}

	cutter := pyramid.NewCutter(nil, &pyramid.Config{TileSize: cli.TileSize, Extension: cli.Ext, DecodeWorkers: cli.Workers}, log)
	cutter.MinZoom = cli.MinZoom
	cutter.MaxZoom = cli.MaxZoom
	cutter.SkipEmpty = cli.SkipEmpty

	n, err := cutter.Cut(in, cli.Output)
	if err != nil {
		log.Fatal().Err(err).Msg("cut failed")
	}

	fmt.Printf("wrote %d tiles to %s\n", n, cli.Output)
}
