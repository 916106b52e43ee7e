package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/voidshard/pyramid"
)

const desc = `Exports a tile pyramid (<input>/Tiles/z/x/y.png) to an MBTiles file.`

var cli struct {
	Input  string `arg:"" help:"pyramid base directory (holds Tiles/)"`
	Output string `short:"o" help:"output .mbtiles file. Defaults to input + .mbtiles"`

	Overwrite bool `help:"remove the output file first if it exists"`

	TileSize  uint    `default:"256" help:"tile edge in px"`
	WorldSize float64 `default:"268435456" help:"world square edge in world units"`
	Ext       string  `default:"png" help:"tile file extension"`

	Verbose bool `short:"v" help:"debug logging"`
}

func main() {
	kong.Parse(&cli, kong.Name("pyramid-mbtiles"), kong.Description(desc))

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if cli.Output == "" {
		cli.Output = fmt.Sprintf("%s.mbtiles", cli.Input)
	}

	if fileExists(cli.Output) {
		if !cli.Overwrite {
			log.Fatal().Str("file", cli.Output).Msg("output exists, use --overwrite")
		}
		if err := os.Remove(cli.Output); err != nil {
			log.Fatal().Err(err).Msg("unable to remove output")
		}
	}

	ov, err := pyramid.Open(
		cli.Input,
		pyramid.WithConfig(&pyramid.Config{TileSize: cli.TileSize, WorldSize: cli.WorldSize, Extension: cli.Ext}),
		pyramid.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to open pyramid")
	}

	mb, err := pyramid.OpenMBTiles(cli.Output)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create mbtiles")
	}
	defer mb.Close()

	n, err := mb.Export(ov)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		mb.Close()
		os.Exit(1)
	}

	fmt.Printf("wrote %d tiles to %s\n", n, cli.Output)
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
