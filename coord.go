package pyramid

import (
	"fmt"

	"github.com/google/hilbert"
)

// MaxZoom is the first zoom level we refuse to index.
// Tile codes for zoom 30 still fit comfortably in a uint64.
const MaxZoom = 30

// Tile is a single raster tile in the pyramid, addressed the way it is
// stored on disk: y counts rows from the top.
type Tile struct {
	Z int
	X int
	Y int
}

// Valid returns if the coordinate exists at its zoom, ie. 0 <= x,y < 2^z
func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z >= MaxZoom {
		return false
	}
	n := 1 << t.Z
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Flip converts a row index between top-down (disk) and bottom-up (world)
// numbering at zoom z. Flip(Flip(y, z), z) == y.
//
// Every lookup that crosses from world space to disk addressing must call
// this exactly once.
func Flip(y, z int) int {
	return (1 << z) - 1 - y
}

// Flipped returns the same tile with its row numbered bottom-up.
func (t Tile) Flipped() Tile {
	return Tile{Z: t.Z, X: t.X, Y: Flip(t.Y, t.Z)}
}

// Code returns a unique number for the tile across all zoom levels.
// All tiles of lower zooms are numbered first, followed by the hilbert
// index of (x,y) at this zoom. The tile must be Valid.
func (t Tile) Code() uint64 {
	h, err := hilbert.NewHilbert(1 << t.Z)
	if err != nil {
		panic(err) // 2^z is always a positive power of two
	}
	d, err := h.MapInverse(t.X, t.Y)
	if err != nil {
		panic(fmt.Sprintf("tile %s out of range: %v", t, err))
	}
	return zoomOffset(t.Z) + uint64(d)
}

// TileFromCode is the inverse of Tile.Code
func TileFromCode(code uint64) Tile {
	z := 0
	for z+1 < MaxZoom && zoomOffset(z+1) <= code {
		z++
	}

	h, err := hilbert.NewHilbert(1 << z)
	if err != nil {
		panic(err)
	}
	x, y, err := h.Map(int(code - zoomOffset(z)))
	if err != nil {
		panic(fmt.Sprintf("invalid tile code %d: %v", code, err))
	}
	return Tile{Z: z, X: x, Y: y}
}

// zoomOffset is the number of tiles in all zoom levels below z,
// (4^z - 1) / 3
func zoomOffset(z int) uint64 {
	return ((uint64(1) << (2 * uint(z))) - 1) / 3
}
