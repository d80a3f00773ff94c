package engine

import (
	"github.com/achilleasa/lumenpreview/imaging"
	"github.com/achilleasa/lumenpreview/incremental"
	"github.com/achilleasa/lumenpreview/types"
)

// ambientFloorMagnitude is the length of the estimated-unshot-ambient term
// when no light in the scene has converged, spec.md section 4.5's "no
// lights" resolution: a fixed-magnitude floor spread evenly across the
// three channels rather than zero, so a scene with no usable lights still
// renders as dimly lit instead of pure black.
const ambientFloorMagnitude = 0.05

// ambientSeed is a small epsilon seeded into the running color sum before
// any light is added. It keeps the sum's direction well-defined (never the
// zero vector) when no light qualifies, which naturally produces the
// "no lights" floor — split evenly across channels at ambientFloorMagnitude
// — without a separate zero-length special case.
const ambientSeed = 1e-4

// EstimatedUnshotAmbient approximates the light a surface receives from
// bounces the engine never traces (spec.md section 4.5). Only lights that
// have produced at least one partial or full refinement pass contribute,
// each weighted by its most recent total contribution rather than counted
// equally, so a scene with only freshly-arrived (New/NoResults) lights
// falls back to the flat floor instead of being tinted by colors nothing
// has actually lit yet. Grounded on
// CIncrementalLightInfo::EstimatedUnshotAmbient in
// _examples/original_source/hammer/lpreview_thread.cpp.
func EstimatedUnshotAmbient(lightStates []*incremental.LightState) types.Vec3 {
	sum := types.XYZ(ambientSeed, ambientSeed, ambientSeed)
	for _, ls := range lightStates {
		if ls.State != incremental.Partial && ls.State != incremental.Full {
			continue
		}
		color := types.XYZ(ls.Color[0], ls.Color[1], ls.Color[2])
		sum = sum.Add(color.Mul(ls.TotalContribution))
	}

	return sum.Normalize().Mul(ambientFloorMagnitude)
}

// composite implements spec.md section 4.5: accumulate every light's
// cached contribution (resampled to the display row nearest to a row that
// has actually been computed, per light's own refinement level), add the
// ambient floor, multiply by albedo, and tone-map into a Bitmap.
func (e *Engine) composite() *imaging.Bitmap {
	w, h := e.positions.W, e.positions.H
	bitmap := imaging.NewBitmap(w, h, e.generation)

	lightStates := e.arena.All()
	ambient := EstimatedUnshotAmbient(lightStates)

	for y := uint32(0); y < h; y++ {
		tileBase := y - y%incremental.NumLevels
		rowInTile := int(y % incremental.NumLevels)

		for x := uint32(0); x < w; x++ {
			albedo := e.albedos.At(x, y)
			color := ambient.MulVec(albedo)

			for _, ls := range lightStates {
				if ls.ContributionMatrix == nil {
					continue
				}
				// Level counts completed passes, so the last pass that
				// actually ran is Level-1.
				level := ls.Level - 1
				if level < 0 {
					level = 0
				}
				if level >= incremental.NumLevels {
					level = incremental.NumLevels - 1
				}
				srcRow := tileBase + e.lineSchedule.ClosestLine[level][rowInTile]
				if srcRow >= h {
					srcRow = y
				}
				contrib := ls.ContributionMatrix.At(x, srcRow)
				color = color.Add(contrib.MulVec(albedo))
			}

			bitmap.SetPixel(x, y, color)
		}
	}

	return bitmap
}
