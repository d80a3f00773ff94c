// Package shading implements the engine's per-light shadow-traced shading
// kernel (spec.md section 4.3): it writes a light's contribution matrix one
// interleaved pass at a time and reports the scalar magnitude of whatever
// it actually computed.
package shading

import (
	"github.com/achilleasa/lumenpreview/imaging"
	"github.com/achilleasa/lumenpreview/incremental"
	"github.com/achilleasa/lumenpreview/lighteval"
	"github.com/achilleasa/lumenpreview/raytrace"
	"github.com/achilleasa/lumenpreview/types"
)

// darkThreshold is the per-channel floor below which a shaded, albedo
// weighted contribution is treated as zero so that far, dim lights are not
// falsely registered as interesting (spec.md section 4.3, step 6).
const darkThreshold = 0.1 / 1024.0

// shadowBias nudges the shadow ray's origin along its direction to avoid
// self-intersection with the surface it was cast from.
const shadowBias = 0.02

// GBuffer bundles the three read-only per-pixel inputs the kernel samples.
type GBuffer struct {
	Positions *imaging.Matrix
	Normals   *imaging.Matrix
	Albedos   *imaging.Matrix
}

// Kernel evaluates one light's contribution against a RayEnv for shadowing.
type Kernel struct {
	Env *raytrace.RayEnv
}

// NewKernel wraps a RayEnv for use by the shading kernel.
func NewKernel(env *raytrace.RayEnv) *Kernel {
	return &Kernel{Env: env}
}

// Run writes light's contribution for every row selected by calcMask that
// also falls into this invocation's (stride, residue) partition, and
// returns the scalar magnitude accumulated across the rows it actually
// processed (rows skipped by calcMask or by the partition contribute
// nothing to the return value, matching spec.md's literal wording).
func (k *Kernel) Run(light lighteval.Description, gb GBuffer, contribution *imaging.Matrix, calcMask uint32, stride, residue uint32) float32 {
	var total float32
	var workLine uint32

	for y := uint32(0); y < gb.Positions.H; y++ {
		rowInTile := y % incremental.NumLevels
		if calcMask&(1<<rowInTile) == 0 {
			continue
		}

		selected := workLine&stride == residue
		workLine++
		if !selected {
			continue
		}

		total += k.runRow(light, gb, contribution, y)
	}

	return total
}

func (k *Kernel) runRow(light lighteval.Description, gb GBuffer, contribution *imaging.Matrix, y uint32) float32 {
	var rowAccum [4]types.Vec3

	for g := uint32(0); g < gb.Positions.GroupW; g++ {
		posGroup := gb.Positions.Group(g, y)
		normGroup := gb.Normals.Group(g, y)
		albedoGroup := gb.Albedos.Group(g, y)
		contribGroup := contribution.Group(g, y)

		var contrib [4]types.Vec3
		var toLight [4]types.Vec3
		var rayLen [4]float32
		anyNonZero := false

		for lane := 0; lane < 4; lane++ {
			c, tl, rl := lighteval.EvalLane(light, posGroup[lane], normGroup[lane])
			contrib[lane] = c
			toLight[lane] = tl
			rayLen[lane] = rl
			if !c.IsZero() {
				anyNonZero = true
			}
		}

		if anyNonZero {
			packet := raytrace.RayPacket{}
			for lane := 0; lane < 4; lane++ {
				dir := toLight[lane]
				packet.Origin[lane] = posGroup[lane].Add(dir.Mul(shadowBias))
				packet.Dir[lane] = dir
				packet.MaxT[lane] = rayLen[lane]
			}

			hits := k.Env.TracePacket(packet)
			for lane := 0; lane < 4; lane++ {
				if hits[lane].HitID >= 0 && hits[lane].Distance < rayLen[lane] {
					contrib[lane] = types.Vec3{}
				}
			}
		}

		for lane := 0; lane < 4; lane++ {
			contribGroup[lane] = contrib[lane]

			shaded := contrib[lane].MulVec(albedoGroup[lane])
			shaded = thresholdChannels(shaded)
			rowAccum[lane] = rowAccum[lane].Add(shaded)
		}
	}

	var rowTotal float32
	for lane := 0; lane < 4; lane++ {
		rowTotal += rowAccum[lane].Len()
	}
	return rowTotal
}

func thresholdChannels(v types.Vec3) types.Vec3 {
	out := v
	for c := 0; c < 3; c++ {
		if out[c] < darkThreshold {
			out[c] = 0
		}
	}
	return out
}
