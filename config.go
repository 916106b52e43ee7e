package pyramid

import (
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
)

// Config includes settings for an Overlay
type Config struct {
	// edge length of a tile raster, in pixels
	TileSize uint `default:"256" validate:"gt=0" yaml:"tileSize"`

	// edge length of the world square, in world units. The default is the
	// world at zoom 20 with 256px tiles.
	WorldSize float64 `default:"268435456" validate:"gt=0" yaml:"worldSize"`

	// tile file extension, compared case-insensitively (no leading dot)
	Extension string `default:"png" validate:"required,alphanum" yaml:"extension"`

	// directory under the base path that holds the z/x/y tree
	TilesDir string `default:"Tiles" validate:"required" yaml:"tilesDir"`

	// max goroutines used to decode tiles in one render call
	DecodeWorkers int `default:"4" validate:"gte=1" yaml:"decodeWorkers"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(err) // only fails on malformed tags
	}
	return cfg
}

// Validate checks the config, filling unset fields with defaults first.
func (c *Config) Validate() error {
	if err := defaults.Set(c); err != nil {
		return &ConfigurationError{Err: err}
	}
	c.Extension = strings.TrimPrefix(c.Extension, ".")

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}

// tilesAtFullRes is the number of tiles across the world at zoom scale 1.0
func (c *Config) tilesAtFullRes() float64 {
	return c.WorldSize / float64(c.TileSize)
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(p string) (string, error) {
	return homedir.Expand(p)
}
