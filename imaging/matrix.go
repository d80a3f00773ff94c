// Package imaging holds the engine's per-pixel image matrices, addressed in
// 4-pixel horizontal groups the way the shading kernel consumes them.
package imaging

import "github.com/achilleasa/lumenpreview/types"

// Quad3 packs four parallel RGB (or position / normal) vectors, the lane
// shape the shading kernel and ray packets operate on.
type Quad3 [4]types.Vec3

// Matrix is a row-major W x H image of Quad3 groups. Row width is padded up
// to a multiple of 4 so that every row can be walked a whole group at a time.
type Matrix struct {
	W, H   uint32
	GroupW uint32
	Rows   [][]Quad3
}

// GroupWidth returns ceil(w/4).
func GroupWidth(w uint32) uint32 {
	return (w + 3) / 4
}

// NewMatrix allocates a zeroed W x H matrix.
func NewMatrix(w, h uint32) *Matrix {
	groupW := GroupWidth(w)
	rows := make([][]Quad3, h)
	for y := range rows {
		rows[y] = make([]Quad3, groupW)
	}
	return &Matrix{W: w, H: h, GroupW: groupW, Rows: rows}
}

// At returns the value stored for pixel (x, y).
func (m *Matrix) At(x, y uint32) types.Vec3 {
	return m.Rows[y][x/4][x%4]
}

// Set stores the value for pixel (x, y).
func (m *Matrix) Set(x, y uint32, v types.Vec3) {
	m.Rows[y][x/4][x%4] = v
}

// Group returns the group of four lanes holding columns [group*4, group*4+4)
// of row y.
func (m *Matrix) Group(group, y uint32) *Quad3 {
	return &m.Rows[y][group]
}

// SameDims reports whether two matrices share identical dimensions.
func (m *Matrix) SameDims(other *Matrix) bool {
	return m.W == other.W && m.H == other.H
}
