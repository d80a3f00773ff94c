package lighteval

import (
	"math"
	"testing"

	"github.com/achilleasa/lumenpreview/types"
)

func TestDirectionalEvalMatchesNdotL(t *testing.T) {
	d := Description{
		Type:      Directional,
		Direction: types.XYZ(0, 0, -1),
		Color:     types.XYZ(1, 1, 1),
	}

	contrib := Eval(d, types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), false)
	if math.Abs(float64(contrib[0]-1)) > 1e-5 {
		t.Fatalf("expected full intensity facing the light, got %+v", contrib)
	}
}

func TestDirectionalEvalZeroWhenFacingAway(t *testing.T) {
	d := Description{
		Type:      Directional,
		Direction: types.XYZ(0, 0, -1),
		Color:     types.XYZ(1, 1, 1),
	}

	contrib := Eval(d, types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), false)
	if contrib != (types.Vec3{}) {
		t.Fatalf("expected zero contribution facing away from the light, got %+v", contrib)
	}
}

func TestPositionalEvalFallsOffWithDistance(t *testing.T) {
	d := Description{
		Type:     Positional,
		Position: types.XYZ(0, 0, 10),
		Color:    types.XYZ(1, 1, 1),
	}
	near := Eval(d, types.XYZ(0, 0, 9), types.XYZ(0, 0, 1), false)

	d2 := d
	d2.Position = types.XYZ(0, 0, 100)
	far := Eval(d2, types.XYZ(0, 0, 9), types.XYZ(0, 0, 1), false)

	if far[0] >= near[0] {
		t.Fatalf("farther light should contribute less: near=%v far=%v", near[0], far[0])
	}
}

func TestDirectionalHasInfiniteRange(t *testing.T) {
	d := Description{Type: Directional, Direction: types.XYZ(0, -1, 0)}
	_, rayLength := d.ToLightAndRange(types.XYZ(0, 0, 0))
	if rayLength < 1e5 {
		t.Fatalf("directional light should report an effectively infinite range, got %v", rayLength)
	}
}

func TestEvalLaneConsistentWithEval(t *testing.T) {
	d := Description{
		Type:     Positional,
		Position: types.XYZ(5, 5, 5),
		Color:    types.XYZ(2, 1, 0.5),
	}
	pos := types.XYZ(0, 0, 0)
	normal := types.XYZ(0, 0, 1)

	contrib, toLight, rayLength := EvalLane(d, pos, normal)
	wantContrib := Eval(d, pos, normal, true)
	wantToLight, wantRange := d.ToLightAndRange(pos)

	if contrib != wantContrib {
		t.Fatalf("EvalLane contribution mismatch: got %+v want %+v", contrib, wantContrib)
	}
	if toLight != wantToLight || rayLength != wantRange {
		t.Fatalf("EvalLane geometry mismatch: got (%+v,%v) want (%+v,%v)", toLight, rayLength, wantToLight, wantRange)
	}
}
