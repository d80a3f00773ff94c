package incremental

import (
	"testing"

	"github.com/achilleasa/lumenpreview/types"
)

func mkState(id string, state RunState, level int, total float32, ts uint64, dist float32) *LightState {
	return &LightState{
		ObjectID:             id,
		State:                state,
		Level:                level,
		TotalContribution:    total,
		LastNonzeroTimestamp: ts,
		DistanceToEye:        dist,
	}
}

var noBounds = Bounds{Min: types.XYZ(1, 1, 1), Max: types.XYZ(-1, -1, -1)} // nothing is ever inside an inverted box

func TestPriorityAntisymmetry(t *testing.T) {
	states := []RunState{New, NoResults, Partial}
	totals := []float32{0, 1, 5}
	levels := []int{0, 1, 5, 16, 30}
	timestamps := []uint64{0, 1, 100}
	dists := []float32{0, 10, 1000}

	for _, sa := range states {
		for _, sb := range states {
			for _, ta := range totals {
				for _, tb := range totals {
					for _, la := range levels {
						for _, lb := range levels {
							a := mkState("a", sa, la, ta, timestamps[0], dists[0])
							b := mkState("b", sb, lb, tb, timestamps[1], dists[1])
							ab := LowerPriorityThan(a, b, noBounds)
							ba := LowerPriorityThan(b, a, noBounds)
							if ab && ba {
								t.Fatalf("both directions claimed lower priority: a=%+v b=%+v", a, b)
							}
						}
					}
				}
			}
		}
	}
}

func TestHighPriorityBeatsEverything(t *testing.T) {
	bounds := Bounds{Min: types.XYZ(-10, -10, -10), Max: types.XYZ(10, 10, 10)}

	inView := mkState("in-view", New, 0, 0, 0, 0)
	inView.Position = midPoint()

	converged := mkState("converged", Partial, 20, 500, 999, 1000)
	converged.Position = types.XYZ(1000, 0, 0)

	if !LowerPriorityThan(converged, inView, bounds) {
		t.Fatalf("freshly-arrived in-view light should outrank a converged out-of-view light")
	}
	if LowerPriorityThan(inView, converged, bounds) {
		t.Fatalf("antisymmetry violated for high-priority rule")
	}
}

func TestDirectionalNeverHighPriority(t *testing.T) {
	bounds := Bounds{Min: types.XYZ(-10, -10, -10), Max: types.XYZ(10, 10, 10)}

	directional := mkState("sun", New, 0, 0, 0, 0)
	directional.IsDirectional = true
	directional.Position = midPoint()

	bright := mkState("bright", Partial, 20, 500, 999, 1000)

	// Since neither is high-priority (directional is excluded by rule),
	// comparison falls through to the (New, Partial) rule: Partial wins.
	if !LowerPriorityThan(directional, bright, bounds) {
		t.Fatalf("directional New light should not get high-priority treatment")
	}
}

func TestPartialVsPartialBrighterWinsWithinOneLevel(t *testing.T) {
	dim := mkState("dim", Partial, 10, 1, 0, 0)
	bright := mkState("bright", Partial, 11, 10, 0, 0)

	if !LowerPriorityThan(dim, bright, noBounds) {
		t.Fatalf("dimmer light at close level should lose to brighter one")
	}
}

func TestPartialVsPartialLeastRefinedWinsWhenLevelsFar(t *testing.T) {
	shallow := mkState("shallow", Partial, 2, 1, 0, 0)
	deep := mkState("deep", Partial, 20, 100, 0, 0)

	if LowerPriorityThan(shallow, deep, noBounds) {
		t.Fatalf("least-refined light should win when levels differ by more than 1")
	}
}

func midPoint() types.Vec3 { return types.XYZ(0, 0, 0) }
