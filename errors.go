package pyramid

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTiles is returned (wrapped in a ConfigurationError) when a
	// directory holds no validly named tiles.
	ErrNoTiles = errors.New("no tiles found")

	// ErrNotDirectory means the base path exists but is a file.
	ErrNotDirectory = errors.New("not a directory")
)

// ConfigurationError is fatal to building an overlay: the directory can't be
// read, holds no tiles, or the config itself is invalid.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("pyramid: configuration: %v", e.Err)
	}
	return fmt.Sprintf("pyramid: configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AssetLoadError reports an indexed tile whose file could not be loaded at
// render time. It is logged and the tile skipped, never returned from Render.
type AssetLoadError struct {
	Tile Tile
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("pyramid: load tile %s (%s): %v", e.Tile, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
