package pyramid

import (
	"sort"

	"github.com/RoaringBitmap/roaring/roaring64"
)

// TileIndex is the immutable set of tiles found on disk.
// Safe for concurrent reads; there are no writers after NewTileIndex.
type TileIndex struct {
	codes   *roaring64.Bitmap
	minZoom int
	maxZoom int
}

// NewTileIndex builds an index from the given tiles. Invalid tiles are
// dropped, duplicates collapse. Returns nil if nothing valid remains.
func NewTileIndex(tiles ...Tile) *TileIndex {
	codes := roaring64.NewBitmap()
	minZoom, maxZoom := MaxZoom, -1

	for _, t := range tiles {
		if !t.Valid() {
			continue
		}
		codes.Add(t.Code())
		if t.Z < minZoom {
			minZoom = t.Z
		}
		if t.Z > maxZoom {
			maxZoom = t.Z
		}
	}

	if codes.IsEmpty() {
		return nil
	}

	codes.RunOptimize()
	return &TileIndex{codes: codes, minZoom: minZoom, maxZoom: maxZoom}
}

// Contains returns if the tile (on-disk addressing) is in the index
func (i *TileIndex) Contains(t Tile) bool {
	if !t.Valid() {
		return false
	}
	return i.codes.Contains(t.Code())
}

// Len returns the number of tiles in the index
func (i *TileIndex) Len() int {
	return int(i.codes.GetCardinality())
}

// MinZoom returns the lowest zoom level present (not assumed to be 0)
func (i *TileIndex) MinZoom() int {
	return i.minZoom
}

// MaxZoom returns the highest zoom level present
func (i *TileIndex) MaxZoom() int {
	return i.maxZoom
}

// Tiles returns all tiles sorted by (z, x, y)
func (i *TileIndex) Tiles() []Tile {
	tiles := make([]Tile, 0, i.Len())
	it := i.codes.Iterator()
	for it.HasNext() {
		tiles = append(tiles, TileFromCode(it.Next()))
	}
	sortTiles(tiles)
	return tiles
}

// AtZoom returns all tiles at zoom z sorted by (x, y)
func (i *TileIndex) AtZoom(z int) []Tile {
	if z < i.minZoom || z > i.maxZoom {
		return nil
	}

	tiles := []Tile{}
	it := i.codes.Iterator()
	it.AdvanceIfNeeded(zoomOffset(z))
	for it.HasNext() {
		code := it.Next()
		if code >= zoomOffset(z+1) {
			break
		}
		tiles = append(tiles, TileFromCode(code))
	}
	sortTiles(tiles)
	return tiles
}

// Zooms returns the distinct zoom levels present, low -> high
func (i *TileIndex) Zooms() []int {
	zooms := []int{}
	for z := i.minZoom; z <= i.maxZoom; z++ {
		lo, hi := zoomOffset(z), zoomOffset(z+1)
		if i.codes.Rank(hi-1)-rankBelow(i.codes, lo) > 0 {
			zooms = append(zooms, z)
		}
	}
	return zooms
}

// rankBelow returns how many codes are < v
func rankBelow(b *roaring64.Bitmap, v uint64) uint64 {
	if v == 0 {
		return 0
	}
	return b.Rank(v - 1)
}

func sortTiles(tiles []Tile) {
	sort.Slice(tiles, func(a, b int) bool {
		if tiles[a].Z != tiles[b].Z {
			return tiles[a].Z < tiles[b].Z
		}
		if tiles[a].X != tiles[b].X {
			return tiles[a].X < tiles[b].X
		}
		return tiles[a].Y < tiles[b].Y
	})
}
