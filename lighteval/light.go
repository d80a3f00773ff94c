// Package lighteval implements the engine's LightEval collaborator: given a
// 4-pixel batch and a light description, it returns the unshadowed RGB
// contribution of that light at each pixel. Falloff and BRDF behavior are
// intentionally simple (Lambertian diffuse, inverse-square for positional
// lights) since spec.md explicitly delegates light-type-specific falloff
// models to this routine as a non-goal of the core engine; the type tags
// and the "evaluation routine" framing are adapted from the teacher's
// BxdfType enum in asset/material/bxdf.go.
package lighteval

import "github.com/achilleasa/lumenpreview/types"

// Type distinguishes directional lights (effectively infinitely far away)
// from positional ones.
type Type uint8

const (
	Directional Type = iota
	Positional
)

func (t Type) String() string {
	switch t {
	case Directional:
		return "directional"
	case Positional:
		return "positional"
	default:
		return "unknown"
	}
}

// Description is the host-supplied light description (spec.md section 3).
// For a Directional light, Direction is the unit vector the light travels
// along (e.g. {0,0,-1} shines toward -Z) and Position is unused. For a
// Positional light, Position is the light's world-space location.
type Description struct {
	ObjectID  string
	Type      Type
	Position  types.Vec3
	Direction types.Vec3
	Color     types.Vec3
}

// ToLightAndRange returns the unit direction from a surface point toward
// the light and the ray length that should be used for the shadow query:
// the true distance for positional lights, or a value effectively at
// infinity for directional ones.
func (d Description) ToLightAndRange(surfacePos types.Vec3) (toLight types.Vec3, rayLength float32) {
	if d.Type == Directional {
		return d.Direction.Mul(-1).Normalize(), 1e6
	}
	delta := d.Position.Sub(surfacePos)
	return delta.Normalize(), delta.Len()
}

// Eval returns the unshadowed RGB contribution of light d at a single
// pixel, given its world position and normal. noShadow is accepted to
// mirror spec.md's "no-shadow flag" signature (the contribution returned
// here never accounts for occlusion; that is the shading kernel's job) —
// this routine simply never looks at it.
func Eval(d Description, position, normal types.Vec3, noShadow bool) types.Vec3 {
	toLight, rayLength := d.ToLightAndRange(position)

	ndotl := normal.Dot(toLight)
	if ndotl <= 0 {
		return types.Vec3{}
	}

	intensity := ndotl
	if d.Type == Positional {
		// Inverse-square falloff; clamp the minimum distance so a
		// light coincident with a pixel doesn't blow up.
		dist := rayLength
		if dist < 0.05 {
			dist = 0.05
		}
		intensity /= dist * dist
	}

	return d.Color.Mul(intensity)
}

// EvalLane computes both the unshadowed contribution and the shadow-ray
// geometry (direction toward the light, ray length) for one pixel in a
// single pass, avoiding the duplicate distance computation a caller would
// otherwise need when it evaluates the light and then traces a shadow ray
// against it (spec.md section 4.3, steps 1 and 3).
func EvalLane(d Description, position, normal types.Vec3) (contrib, toLight types.Vec3, rayLength float32) {
	toLight, rayLength = d.ToLightAndRange(position)
	contrib = Eval(d, position, normal, true)
	return contrib, toLight, rayLength
}
