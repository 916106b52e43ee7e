package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/voidshard/pyramid"
)

const desc = `Prints what a tile pyramid holds: zoom levels, tile counts, bounding rect
and any metadata. With --catalog, lists (or looks up) maps in a catalog file.`

var cli struct {
	Input   string `arg:"" optional:"" help:"pyramid base directory, or map title when --catalog is set"`
	Catalog string `short:"c" help:"yaml catalog of maps"`

	TileSize  uint    `default:"256" help:"tile edge in px"`
	WorldSize float64 `default:"268435456" help:"world square edge in world units"`
	Ext       string  `default:"png" help:"tile file extension"`

	Tiles   bool `short:"t" help:"list every tile"`
	Verbose bool `short:"v" help:"debug logging"`
}

func main() {
	kong.Parse(&cli, kong.Name("pyramid-info"), kong.Description(desc))

	level := zerolog.WarnLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	var (
		ov  *pyramid.Overlay
		err error
	)

	if cli.Catalog != "" {
		cat, err := pyramid.LoadCatalog(afero.NewOsFs(), cli.Catalog)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to load catalog")
		}
		if cli.Input == "" {
			for _, m := range cat.Maps {
				fmt.Printf("%-24s %4d  %s\n", m.Title, m.Year, m.Directory)
			}
			return
		}

		entry, ok := cat.Find(cli.Input)
		if !ok {
			log.Fatal().Str("title", cli.Input).Strs("known", cat.Titles()).Msg("map not in catalog")
		}
		ov, err = cat.OpenEntry(entry, pyramid.WithLogger(log))
		if err != nil {
			log.Fatal().Err(err).Msg("unable to open pyramid")
		}
	} else {
		if cli.Input == "" {
			log.Fatal().Msg("a pyramid directory is required without --catalog")
		}
		ov, err = pyramid.Open(
			cli.Input,
			pyramid.WithConfig(&pyramid.Config{TileSize: cli.TileSize, WorldSize: cli.WorldSize, Extension: cli.Ext}),
			pyramid.WithLogger(log),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to open pyramid")
		}
	}

	printOverlay(ov)
}

// printOverlay writes a human readable summary to stdout
func printOverlay(ov *pyramid.Overlay) {
	idx := ov.Index()
	b := ov.BoundingRect()

	fmt.Printf("base:    %s\n", ov.Base())
	fmt.Printf("tiles:   %d\n", idx.Len())
	fmt.Printf("bounds:  %s\n", b)

	zooms := []string{}
	for _, z := range idx.Zooms() {
		zooms = append(zooms, fmt.Sprintf("%d (%d)", z, len(idx.AtZoom(z))))
	}
	fmt.Printf("zooms:   %s\n", strings.Join(zooms, ", "))

	meta := ov.Metadata()
	if meta.Title != "" {
		fmt.Printf("title:   %s\n", meta.Title)
	}
	if meta.Subtitle != "" {
		fmt.Printf("about:   %s\n", meta.Subtitle)
	}
	if meta.Year != 0 {
		fmt.Printf("year:    %d\n", meta.Year)
	}
	if meta.Center != nil {
		fmt.Printf("center:  %f,%f\n", meta.Center.Lat, meta.Center.Lon)
	}

	if cli.Tiles {
		for _, t := range idx.Tiles() {
			fmt.Println(t)
		}
	}
}
