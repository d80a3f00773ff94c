package raytrace

import "github.com/achilleasa/lumenpreview/types"

// Hit is the result of one ray query: HitID >= 0 names the occluding
// triangle and Distance is the distance along the ray to it; HitID < 0
// means no occlusion was found before MaxT.
type Hit struct {
	HitID    int32
	Distance float32
}

// NoHit is returned for a ray that found no occluder.
var NoHit = Hit{HitID: -1}

// RayPacket is four rays evaluated together, the wide-SIMD-shaped query
// unit the shading kernel issues per pixel group.
type RayPacket struct {
	Origin [4]types.Vec3
	Dir    [4]types.Vec3
	MaxT   [4]float32
}

// RayEnv holds a triangle set and a BVH over it, answering 4-ray packet
// shadow queries. It is immutable once built and safe for concurrent reads
// by the shading kernel's worker fan-out (spec.md section 5: "The RayEnv is
// shared read-only during kernel runs").
type RayEnv struct {
	nodes     []bvhNode
	triangles []Triangle
	rootValid bool
}

// Build constructs a RayEnv from a flat triangle soup. An empty triangle
// list is a documented caller error (the scheduler should drop the RayEnv
// entirely rather than build one); Build returns ErrNoTriangles in that
// case.
func Build(triangles []Triangle) (*RayEnv, error) {
	if len(triangles) == 0 {
		return nil, ErrNoTriangles
	}

	nodes, ordered := buildBVH(triangles)
	if len(nodes) == 0 {
		return nil, ErrAccelBuildFailed
	}

	return &RayEnv{nodes: nodes, triangles: ordered, rootValid: true}, nil
}

// TracePacket answers a shadow query for four rays at once. It is an
// any-hit query: traversal stops at the first occluder found within
// (epsilon, MaxT], since the shading kernel only needs to know whether the
// light is occluded, not which surface is nearest.
func (e *RayEnv) TracePacket(packet RayPacket) [4]Hit {
	var out [4]Hit
	for lane := 0; lane < 4; lane++ {
		out[lane] = e.traceOne(packet.Origin[lane], packet.Dir[lane], packet.MaxT[lane])
	}
	return out
}

func (e *RayEnv) traceOne(origin, dir types.Vec3, maxT float32) Hit {
	if !e.rootValid || len(e.nodes) == 0 {
		return NoHit
	}

	invDir := types.XYZ(safeInv(dir[0]), safeInv(dir[1]), safeInv(dir[2]))

	// Explicit stack traversal, bounded by tree depth; 64 entries is far
	// more than this builder's recursion can produce for any realistic
	// triangle count.
	var stack [64]uint32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := &e.nodes[nodeIdx]

		if !intersectsAABB(node.Min, node.Max, origin, invDir, maxT) {
			continue
		}

		if node.isLeaf() {
			first := uint32(-node.lData)
			count := uint32(node.rData)
			for i := uint32(0); i < count; i++ {
				tri := e.triangles[first+i]
				if dist, ok := tri.intersect(origin, dir, maxT); ok {
					return Hit{HitID: int32(first + i), Distance: dist}
				}
			}
			continue
		}

		stack[sp] = uint32(node.lData)
		sp++
		stack[sp] = uint32(node.rData)
		sp++
	}

	return NoHit
}

func safeInv(v float32) float32 {
	if v == 0 {
		return 1e30
	}
	return 1.0 / v
}
