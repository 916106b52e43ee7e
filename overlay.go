package pyramid

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Overlay is a tile pyramid on disk, indexed once at Open.
//
// After Open the overlay is immutable; BoundingRect, TilesVisible and
// CanDraw may be called from any goroutine. Render writes to the given
// surface and inherits that surface's single writer rule.
type Overlay struct {
	base     string
	cfg      *Config
	fs       afero.Fs
	index    *TileIndex
	bounds   WorldRect
	meta     *Metadata
	renderer *Renderer
	log      zerolog.Logger
}

type options struct {
	cfg     *Config
	fs      afero.Fs
	log     zerolog.Logger
	enum    Enumerator
	decoder Decoder
	alpha   float64
}

// Option configures Open
type Option func(*options)

// WithConfig sets tile size, world size, extension etc.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithFs reads tiles and metadata from fs rather than the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithLogger sets the logger (default: discard)
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithEnumerator replaces the directory walker used for discovery
func WithEnumerator(enum Enumerator) Option {
	return func(o *options) { o.enum = enum }
}

// WithDecoder replaces the raster decoder used when rendering
func WithDecoder(dec Decoder) Option {
	return func(o *options) { o.decoder = dec }
}

// WithAlpha sets tile opacity in [0, 1] (default 1)
func WithAlpha(alpha float64) Option {
	return func(o *options) { o.alpha = alpha }
}

// Open indexes the pyramid under base (base/Tiles/z/x/y.ext) and works out
// its bounding rect. Fails with a ConfigurationError if the directory can't
// be read or holds no tiles.
func Open(base string, opts ...Option) (*Overlay, error) {
	o := &options{log: zerolog.Nop(), alpha: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = DefaultConfig()
	} else {
		cp := *o.cfg
		o.cfg = &cp
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.enum == nil {
		o.enum = NewFsEnumerator(o.fs)
	}
	if o.decoder == nil {
		o.decoder = NewFileDecoder(o.fs)
	}

	base, err := expandPath(base)
	if err != nil {
		return nil, &ConfigurationError{Path: base, Err: err}
	}

	idx, err := Discover(o.enum, base, o.cfg, o.log)
	if err != nil {
		return nil, err
	}

	meta, err := LoadMetadata(o.fs, base)
	if err != nil {
		return nil, err
	}

	renderer := NewRenderer(o.decoder, o.cfg, o.log)
	renderer.Alpha = o.alpha

	ov := &Overlay{
		base:     base,
		cfg:      o.cfg,
		fs:       o.fs,
		index:    idx,
		bounds:   Bounds(idx, o.cfg),
		meta:     meta,
		renderer: renderer,
		log:      o.log,
	}

	o.log.Info().Str("base", base).Int("tiles", idx.Len()).Stringer("bounds", ov.bounds).Msg("opened overlay")
	return ov, nil
}

// OpenEntry opens the map a catalog entry points at using the catalog's
// config.
func (c *Catalog) OpenEntry(e *CatalogEntry, opts ...Option) (*Overlay, error) {
	return Open(e.Directory, append([]Option{WithConfig(c.Config)}, opts...)...)
}

// BoundingRect returns the world rect covered by the pyramid's lowest zoom
func (o *Overlay) BoundingRect() WorldRect {
	return o.bounds
}

// TilesVisible returns the on-disk tiles under viewport at zoom scale,
// ordered by (x, y). Every tile returned is in the index.
func (o *Overlay) TilesVisible(viewport WorldRect, scale float64) []*VisibleTile {
	return visibleTiles(o.index, o.base, o.cfg, viewport, scale)
}

// CanDraw returns if rendering viewport at scale would draw anything
func (o *Overlay) CanDraw(viewport WorldRect, scale float64) bool {
	if !o.bounds.Intersects(viewport) {
		return false
	}
	return len(o.TilesVisible(viewport, scale)) > 0
}

// Render draws every visible tile onto s. Tiles that fail to load are
// logged and skipped, never returned as errors.
func (o *Overlay) Render(s DrawingSurface, viewport WorldRect, scale float64) RenderStats {
	return o.renderer.Draw(s, o.TilesVisible(viewport, scale), scale)
}

// Redraw renders whatever the host currently shows
func (o *Overlay) Redraw(h Host) RenderStats {
	return o.Render(h.Surface(), h.Viewport(), h.ZoomScale())
}

// ZoomLevel resolves scale to a pyramid level using this overlay's config
func (o *Overlay) ZoomLevel(scale float64) int {
	return ZoomLevel(scale, o.cfg)
}

// Index returns the (read only) tile index
func (o *Overlay) Index() *TileIndex {
	return o.index
}

// Base returns the directory the overlay was opened from
func (o *Overlay) Base() string {
	return o.base
}

// Config returns a copy of the overlay's config
func (o *Overlay) Config() Config {
	return *o.cfg
}

// Metadata returns the overlay's metadata (empty if none was shipped)
func (o *Overlay) Metadata() *Metadata {
	return o.meta
}
