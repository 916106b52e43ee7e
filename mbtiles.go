package pyramid

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
)

const (
	sqlCreateMetadata = `CREATE TABLE IF NOT EXISTS metadata(
		name TEXT PRIMARY KEY,
		value TEXT
	    );`
	sqlCreateTiles = `CREATE TABLE IF NOT EXISTS tiles(
		zoom_level INTEGER NOT NULL,
		tile_column INTEGER NOT NULL,
		tile_row INTEGER NOT NULL,
		tile_data BLOB,
		PRIMARY KEY (zoom_level, tile_column, tile_row)
	    );`
	sqlUpdateTile     = `INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (:zoom_level, :tile_column, :tile_row, :tile_data) ON CONFLICT (zoom_level, tile_column, tile_row) DO UPDATE SET tile_data=EXCLUDED.tile_data;`
	sqlUpdateMetadata = `INSERT INTO metadata (name, value) VALUES (:name, :value) ON CONFLICT (name) DO UPDATE SET value=EXCLUDED.value;`
)

// dbTile is one row of the MBTiles tiles table. Rows are numbered
// bottom-up (TMS), the opposite of our disk layout.
type dbTile struct {
	Zoom   int    `db:"zoom_level"`
	Column int    `db:"tile_column"`
	Row    int    `db:"tile_row"`
	Data   []byte `db:"tile_data"`
}

// newDBTile converts a disk addressed tile into a row
func newDBTile(t Tile, data []byte) dbTile {
	return dbTile{Zoom: t.Z, Column: t.X, Row: Flip(t.Y, t.Z), Data: data}
}

// Tile returns the disk addressed tile for the row
func (d dbTile) Tile() Tile {
	return Tile{Z: d.Zoom, X: d.Column, Y: Flip(d.Row, d.Zoom)}
}

type dbMeta struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

// MBTiles is an sqlite MBTiles file we can export a pyramid into.
type MBTiles struct {
	filename string
	db       *sqlx.DB
}

// OpenMBTiles opens (creating if needed) an MBTiles file on disk
func OpenMBTiles(fname string) (*MBTiles, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	m := &MBTiles{db: db, filename: fname}
	if err := m.init(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// Filename returns the path to the MBTiles file
func (m *MBTiles) Filename() string {
	return m.filename
}

// Close the underlying database
func (m *MBTiles) Close() error {
	return m.db.Close()
}

// Export copies every indexed tile of the overlay (read from the filesystem
// it was opened on) into the file along with its metadata, in one
// transaction. Returns the number of tiles written.
func (m *MBTiles) Export(o *Overlay) (int, error) {
	txn, err := m.db.Beginx()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, t := range o.Index().Tiles() {
		fname := tilePath(o.base, o.cfg, t)
		data, err := afero.ReadFile(o.fs, fname)
		if err != nil {
			txn.Rollback()
			return 0, &AssetLoadError{Tile: t, Path: fname, Err: err}
		}

		_, err = txn.NamedExec(sqlUpdateTile, newDBTile(t, data))
		if err != nil {
			txn.Rollback()
			return 0, err
		}
		count++
	}

	for _, meta := range exportMetadata(o) {
		_, err = txn.NamedExec(sqlUpdateMetadata, meta)
		if err != nil {
			txn.Rollback()
			return 0, err
		}
	}

	if err := txn.Commit(); err != nil {
		return 0, err
	}

	o.log.Info().Str("file", m.filename).Int("tiles", count).Msg("exported mbtiles")
	return count, nil
}

// Tile returns the data stored for a disk addressed tile (nil if unset)
func (m *MBTiles) Tile(t Tile) ([]byte, error) {
	rows, err := m.db.NamedQuery(
		"SELECT zoom_level,tile_column,tile_row,tile_data FROM tiles WHERE zoom_level=:zoom_level AND tile_column=:tile_column AND tile_row=:tile_row LIMIT 1;",
		newDBTile(t, nil),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	row := dbTile{}
	for rows.Next() { // at most one due to LIMIT 1
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
	}
	return row.Data, rows.Err()
}

// Tiles returns every tile stored in the file, disk addressed
func (m *MBTiles) Tiles() ([]Tile, error) {
	rows := []dbTile{}
	err := m.db.Select(&rows, "SELECT zoom_level,tile_column,tile_row FROM tiles;")
	if err != nil {
		return nil, err
	}

	tiles := make([]Tile, len(rows))
	for i, r := range rows {
		tiles[i] = r.Tile()
	}
	sortTiles(tiles)
	return tiles, nil
}

// Metadata returns the metadata table as a map
func (m *MBTiles) Metadata() (map[string]string, error) {
	rows := []dbMeta{}
	if err := m.db.Select(&rows, "SELECT name,value FROM metadata;"); err != nil {
		return nil, err
	}

	result := map[string]string{}
	for _, r := range rows {
		result[r.Name] = r.Value
	}
	return result, nil
}

// exportMetadata builds the MBTiles metadata rows for an overlay.
// MBTiles bounds and center are WGS84, so they come from the map's metadata
// and are left out when it has no geographic extent; world units never
// appear here.
func exportMetadata(o *Overlay) []dbMeta {
	name := o.meta.Title
	if name == "" {
		name = o.base
	}

	rows := []dbMeta{
		{Name: "name", Value: name},
		{Name: "format", Value: strings.ToLower(o.cfg.Extension)},
		{Name: "minzoom", Value: fmt.Sprintf("%d", o.index.MinZoom())},
		{Name: "maxzoom", Value: fmt.Sprintf("%d", o.index.MaxZoom())},
	}
	if left, bottom, right, top, ok := o.meta.GeoBounds(); ok {
		rows = append(rows, dbMeta{Name: "bounds", Value: fmt.Sprintf("%g,%g,%g,%g", left, bottom, right, top)})
	}
	if o.meta.Center != nil {
		rows = append(rows, dbMeta{Name: "center", Value: fmt.Sprintf("%g,%g,%d", o.meta.Center.Lon, o.meta.Center.Lat, o.index.MinZoom())})
	}
	if o.meta.Subtitle != "" {
		rows = append(rows, dbMeta{Name: "description", Value: o.meta.Subtitle})
	}
	return rows
}

// init creates the MBTiles tables if they don't exist
func (m *MBTiles) init() error {
	_, err := m.db.Exec(sqlCreateMetadata)
	if err != nil {
		return err
	}

	_, err = m.db.Exec(sqlCreateTiles)
	return err
}
