package pyramid

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMBTiles(t *testing.T) *MBTiles {
	t.Helper()
	m, err := OpenMBTiles(filepath.Join(t.TempDir(), "test.mbtiles"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMBTilesExport(t *testing.T) {
	fs := newPyramid(t, Tile{1, 0, 0}, Tile{1, 1, 0}, Tile{2, 3, 1})
	writeFile(t, fs, filepath.Join(testBase, MetadataFile), []byte("title: Export\nsubtitle: a test\n"))
	ov := openTest(t, fs)

	m := newTestMBTiles(t)
	n, err := m.Export(ov)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tiles, err := m.Tiles()
	require.NoError(t, err)
	assert.Equal(t, ov.Index().Tiles(), tiles)

	want, err := afero.ReadFile(fs, tilePath(testBase, testConfig(), Tile{2, 3, 1}))
	require.NoError(t, err)
	got, err := m.Tile(Tile{2, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	missing, err := m.Tile(Tile{2, 0, 0})
	require.NoError(t, err)
	assert.Nil(t, missing)

	meta, err := m.Metadata()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":        "Export",
		"description": "a test",
		"format":      "png",
		"minzoom":     "1",
		"maxzoom":     "2",
	}, meta)
}

func TestMBTilesGeoMetadata(t *testing.T) {
	fs := newPyramid(t, Tile{0, 0, 0})
	writeFile(t, fs, filepath.Join(testBase, MetadataFile), []byte(testMetadata))
	ov := openTest(t, fs)

	m := newTestMBTiles(t)
	_, err := m.Export(ov)
	require.NoError(t, err)

	meta, err := m.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "-119.72,37.64,-119.42,37.84", meta["bounds"])
	assert.Equal(t, "-119.57,37.74,0", meta["center"])
}

func TestMBTilesRowsAreBottomUp(t *testing.T) {
	fs := newPyramid(t, Tile{2, 1, 0})
	ov := openTest(t, fs)

	m := newTestMBTiles(t)
	_, err := m.Export(ov)
	require.NoError(t, err)

	rows := []dbTile{}
	require.NoError(t, m.db.Select(&rows, "SELECT zoom_level,tile_column,tile_row FROM tiles;"))
	require.Len(t, rows, 1)
	assert.Equal(t, dbTile{Zoom: 2, Column: 1, Row: 3}, rows[0])
	assert.Equal(t, Tile{2, 1, 0}, rows[0].Tile())
}

func TestMBTilesExportTwice(t *testing.T) {
	fs := newPyramid(t, Tile{0, 0, 0})
	ov := openTest(t, fs)

	m := newTestMBTiles(t)
	for i := 0; i < 2; i++ {
		n, err := m.Export(ov)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	tiles, err := m.Tiles()
	require.NoError(t, err)
	assert.Equal(t, []Tile{{0, 0, 0}}, tiles)
}

func TestMBTilesExportMissingFile(t *testing.T) {
	fs := newPyramid(t, Tile{1, 0, 0}, Tile{1, 1, 1})
	ov := openTest(t, fs)
	require.NoError(t, fs.Remove(tilePath(testBase, testConfig(), Tile{1, 1, 1})))

	m := newTestMBTiles(t)
	_, err := m.Export(ov)

	var lerr *AssetLoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, Tile{1, 1, 1}, lerr.Tile)

	// rolled back
	tiles, err := m.Tiles()
	require.NoError(t, err)
	assert.Empty(t, tiles)
}
