// Package raytrace implements the engine's RayEnv collaborator: a
// BVH-accelerated triangle intersector that answers 4-ray packet shadow
// queries for the shading kernel. Everything here is internal to this repo;
// spec.md treats RayEnv as an external library, but since no such library
// ships in this module's dependency surface we provide a concrete,
// teacher-grounded implementation adapted from the BVH builder and node
// encoding in the teacher's scene/optimized_scene packages.
package raytrace

import "github.com/achilleasa/lumenpreview/types"

// fixedGrayReflectance is the constant gray reflectance for imported
// geometry. Triangle has no material field, so this value is not attached
// to any triangle and nothing reads it; the engine uses triangles only for
// occlusion tests.
var fixedGrayReflectance = types.XYZ(0.7, 0.7, 0.7)

// Triangle is a single shadow-casting primitive.
type Triangle struct {
	V0, V1, V2 types.Vec3
	Center     types.Vec3
	Min, Max   types.Vec3
}

// NewTriangle builds a Triangle from three vertices, precomputing its
// bounding box and centroid for BVH construction.
func NewTriangle(v0, v1, v2 types.Vec3) Triangle {
	min := types.MinVec3(types.MinVec3(v0, v1), v2)
	max := types.MaxVec3(types.MaxVec3(v0, v1), v2)
	center := v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
	return Triangle{V0: v0, V1: v1, V2: v2, Center: center, Min: min, Max: max}
}

// TrianglesFromSoup groups a flat vertex soup, three-at-a-time, into
// triangles. Matches spec.md section 6's Geometry message: "length
// divisible by 3".
func TrianglesFromSoup(vertices []types.Vec3) ([]Triangle, error) {
	if len(vertices)%3 != 0 {
		return nil, ErrMisalignedTriangleSoup
	}
	tris := make([]Triangle, 0, len(vertices)/3)
	for i := 0; i+2 < len(vertices); i += 3 {
		tris = append(tris, NewTriangle(vertices[i], vertices[i+1], vertices[i+2]))
	}
	return tris, nil
}

// intersect performs a Moller-Trumbore ray/triangle test. It returns
// (distance, true) on a hit within (epsilon, maxT], else (0, false).
func (tr Triangle) intersect(origin, dir types.Vec3, maxT float32) (float32, bool) {
	const epsilon = 1e-6

	e1 := tr.V1.Sub(tr.V0)
	e2 := tr.V2.Sub(tr.V0)

	h := cross(dir, e2)
	a := e1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := origin.Sub(tr.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := cross(s, e1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * e2.Dot(q)
	if t <= epsilon || t > maxT {
		return 0, false
	}

	return t, true
}

func cross(a, b types.Vec3) types.Vec3 {
	return types.XYZ(
		a[1]*b[2]-a[2]*b[1],
		a[2]*b[0]-a[0]*b[2],
		a[0]*b[1]-a[1]*b[0],
	)
}
