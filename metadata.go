package pyramid

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/spf13/afero"
)

// MetadataFile is the optional file next to the Tiles dir describing a map
const MetadataFile = "metadata.yaml"

// LatLon is a geographic position in degrees
type LatLon struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Region is a centre point plus span, in degrees
type Region struct {
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	SpanLat float64 `yaml:"spanLat"`
	SpanLon float64 `yaml:"spanLon"`
}

// Corners of the scanned map sheet
type Corners struct {
	TopLeft    LatLon `yaml:"topLeft"`
	TopRight   LatLon `yaml:"topRight"`
	BottomLeft LatLon `yaml:"bottomLeft"`
}

// Metadata is descriptive info shipped alongside a pyramid. None of it
// takes part in tile math; it's handed through to the host as is.
type Metadata struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Year     int      `yaml:"year"`
	Center   *LatLon  `yaml:"center"`
	Region   *Region  `yaml:"region"`
	Corners  *Corners `yaml:"corners"`
}

// GeoBounds returns the map's WGS84 extent as left, bottom, right, top.
// Sheet corners are preferred over the region; ok is false if neither is set.
func (m *Metadata) GeoBounds() (left, bottom, right, top float64, ok bool) {
	switch {
	case m.Corners != nil:
		c := m.Corners
		left = min(c.TopLeft.Lon, c.TopRight.Lon, c.BottomLeft.Lon)
		right = max(c.TopLeft.Lon, c.TopRight.Lon, c.BottomLeft.Lon)
		bottom = min(c.TopLeft.Lat, c.TopRight.Lat, c.BottomLeft.Lat)
		top = max(c.TopLeft.Lat, c.TopRight.Lat, c.BottomLeft.Lat)
		return left, bottom, right, top, true
	case m.Region != nil:
		r := m.Region
		return r.Lon - r.SpanLon/2, r.Lat - r.SpanLat/2, r.Lon + r.SpanLon/2, r.Lat + r.SpanLat/2, true
	}
	return 0, 0, 0, 0, false
}

// LoadMetadata reads <base>/metadata.yaml. A missing file is not an error and
// gives empty metadata; a malformed one is a ConfigurationError.
func LoadMetadata(fs afero.Fs, base string) (*Metadata, error) {
	fname := filepath.Join(base, MetadataFile)
	data, err := afero.ReadFile(fs, fname)
	if os.IsNotExist(err) {
		return &Metadata{}, nil
	}
	if err != nil {
		return nil, &ConfigurationError{Path: fname, Err: err}
	}

	meta := &Metadata{}
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, &ConfigurationError{Path: fname, Err: err}
	}
	return meta, nil
}

// CatalogEntry names one map directory a host can offer
type CatalogEntry struct {
	Title     string `yaml:"title"`
	Thumbnail string `yaml:"thumbnail"`
	Directory string `yaml:"directory"`
	Year      int    `yaml:"year"`
}

// Catalog is the list of available maps, loaded once at startup.
type Catalog struct {
	// Config applies to every map in the catalog (defaults if unset)
	Config *Config         `yaml:"config"`
	Maps   []*CatalogEntry `yaml:"maps"`
}

// LoadCatalog reads a yaml catalog. Map directories may start with ~ and
// relative ones are taken relative to the catalog file.
func LoadCatalog(fs afero.Fs, fname string) (*Catalog, error) {
	fname, err := expandPath(fname)
	if err != nil {
		return nil, &ConfigurationError{Path: fname, Err: err}
	}

	data, err := afero.ReadFile(fs, fname)
	if err != nil {
		return nil, &ConfigurationError{Path: fname, Err: err}
	}

	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, &ConfigurationError{Path: fname, Err: err}
	}

	if cat.Config == nil {
		cat.Config = DefaultConfig()
	}
	if err := cat.Config.Validate(); err != nil {
		return nil, err
	}

	root := filepath.Dir(fname)
	for _, m := range cat.Maps {
		dir, err := expandPath(m.Directory)
		if err != nil {
			return nil, &ConfigurationError{Path: fname, Err: err}
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		m.Directory = dir
	}

	sort.SliceStable(cat.Maps, func(i, j int) bool {
		return cat.Maps[i].Title < cat.Maps[j].Title
	})

	return cat, nil
}

// Find returns the entry with the given title (case insensitive)
func (c *Catalog) Find(title string) (*CatalogEntry, bool) {
	for _, m := range c.Maps {
		if strings.EqualFold(m.Title, title) {
			return m, true
		}
	}
	return nil, false
}

// Titles returns all map titles, sorted
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.Maps))
	for i, m := range c.Maps {
		titles[i] = m.Title
	}
	return titles
}
