package pyramid

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FsEnumerator walks an afero filesystem
type FsEnumerator struct {
	Fs afero.Fs
}

// NewFsEnumerator returns an enumerator over fs (the OS filesystem if nil)
func NewFsEnumerator(fs afero.Fs) *FsEnumerator {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FsEnumerator{Fs: fs}
}

func (e *FsEnumerator) Walk(root string, fn func(rel string) error) error {
	info, err := e.Fs.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "walk", Path: root, Err: ErrNotDirectory}
	}

	return afero.Walk(e.Fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			// tiles are often links to one shared blank tile
			target, err := e.Fs.Stat(p)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

// Discover scans <base>/<TilesDir>/<z>/<x>/<y>.<ext> and returns the index of
// every tile found. Files not shaped like that are skipped. An unreadable
// directory or one with no valid tiles is a ConfigurationError.
func Discover(enum Enumerator, base string, cfg *Config, log zerolog.Logger) (*TileIndex, error) {
	root := filepath.Join(base, cfg.TilesDir)

	found := []Tile{}
	err := enum.Walk(root, func(rel string) error {
		t, ok := parseTilePath(rel, cfg.Extension)
		if !ok {
			log.Debug().Str("file", rel).Msg("skipping non-tile file")
			return nil
		}
		if !t.Valid() {
			log.Debug().Str("file", rel).Stringer("tile", t).Msg("skipping out of range tile")
			return nil
		}
		found = append(found, t)
		return nil
	})
	if err != nil {
		return nil, &ConfigurationError{Path: root, Err: err}
	}

	idx := NewTileIndex(found...)
	if idx == nil {
		return nil, &ConfigurationError{Path: root, Err: ErrNoTiles}
	}

	log.Debug().Str("root", root).Int("tiles", idx.Len()).Int("minZoom", idx.MinZoom()).Int("maxZoom", idx.MaxZoom()).Msg("discovered tiles")
	return idx, nil
}

// parseTilePath reads "z/x/y.ext" into a tile.
func parseTilePath(rel, ext string) (Tile, bool) {
	parts := strings.Split(rel, "/")
	if len(parts) != 3 {
		return Tile{}, false
	}

	fext := path.Ext(parts[2])
	if !strings.EqualFold(strings.TrimPrefix(fext, "."), ext) {
		return Tile{}, false
	}
	parts[2] = strings.TrimSuffix(parts[2], fext)

	nums := [3]int{}
	for i, p := range parts {
		n, ok := parseComponent(p)
		if !ok {
			return Tile{}, false
		}
		nums[i] = n
	}

	return Tile{Z: nums[0], X: nums[1], Y: nums[2]}, true
}

// parseComponent accepts base-10 non-negative integers with no sign and no
// leading zeros ("0" itself is fine).
func parseComponent(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
