package raytrace

import "errors"

var (
	// ErrMisalignedTriangleSoup is returned when a Geometry message's
	// vertex count is not divisible by 3.
	ErrMisalignedTriangleSoup = errors.New("raytrace: triangle soup length not divisible by 3")

	// ErrNoTriangles is returned by Build when the incoming triangle
	// list is empty; the caller should drop the RayEnv entirely rather
	// than hold an empty acceleration structure.
	ErrNoTriangles = errors.New("raytrace: no triangles to build an acceleration structure from")

	// ErrAccelBuildFailed signals a fatal condition (spec.md section 7):
	// the acceleration structure could not be constructed.
	ErrAccelBuildFailed = errors.New("raytrace: acceleration structure build failed")
)
