package imaging

import (
	"testing"

	"github.com/achilleasa/lumenpreview/types"
)

func TestMatrixDims(t *testing.T) {
	m := NewMatrix(9, 3)
	if m.GroupW != 3 {
		t.Fatalf("expected group width 3 (ceil(9/4)), got %d", m.GroupW)
	}
	if len(m.Rows) != 3 || len(m.Rows[0]) != 3 {
		t.Fatalf("unexpected row/group shape: %d rows, %d groups", len(m.Rows), len(m.Rows[0]))
	}
}

func TestMatrixSetAt(t *testing.T) {
	m := NewMatrix(8, 2)
	v := types.XYZ(1, 2, 3)
	m.Set(5, 1, v)
	if got := m.At(5, 1); got != v {
		t.Fatalf("At(5,1) = %+v, want %+v", got, v)
	}
	if got := m.At(4, 1); got != (types.Vec3{}) {
		t.Fatalf("unrelated pixel should remain zero, got %+v", got)
	}
}

func TestMatrixGroupAliasesRows(t *testing.T) {
	m := NewMatrix(4, 1)
	g := m.Group(0, 0)
	g[2] = types.XYZ(7, 8, 9)
	if got := m.At(2, 0); got != (types.Vec3{7, 8, 9}) {
		t.Fatalf("Group should alias the backing row, got %+v", got)
	}
}

func TestSameDims(t *testing.T) {
	a := NewMatrix(4, 4)
	b := NewMatrix(4, 4)
	c := NewMatrix(4, 8)
	if !a.SameDims(b) {
		t.Fatal("expected matching dims to report same")
	}
	if a.SameDims(c) {
		t.Fatal("expected differing dims to report not same")
	}
}
