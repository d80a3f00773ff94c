package raytrace

import (
	"math"
	"sort"

	"github.com/achilleasa/lumenpreview/types"
)

// bvhNode mirrors the teacher's optimized_scene.BvhNode encoding: both data
// words are indices into the node list for interior nodes; for leaves lData
// holds the (negated) first-primitive index and rData holds the primitive
// count.
type bvhNode struct {
	Min   types.Vec3
	lData int32

	Max   types.Vec3
	rData int32
}

func (n *bvhNode) setBounds(min, max types.Vec3) {
	n.Min, n.Max = min, max
}

func (n *bvhNode) setChildNodes(left, right uint32) {
	n.lData = int32(left)
	n.rData = int32(right)
}

func (n *bvhNode) setLeaf(firstPrim, count uint32) {
	n.lData = -int32(firstPrim)
	n.rData = int32(count)
}

func (n *bvhNode) isLeaf() bool {
	return n.lData <= 0
}

// minLeafItems bounds recursion the way the teacher's bvhBuilder.minLeafItems
// does: once a work list is this small or smaller, stop splitting.
const minLeafItems = 4

// buildBVH partitions triangles into a BVH using a median split (by
// triangle centroid) along the widest axis of each node's bounds. No
// surface-area heuristic scores the split: sufficient for a shadow-only
// accelerator where split optimality only affects query speed, not
// correctness.
func buildBVH(triangles []Triangle) ([]bvhNode, []Triangle) {
	// ordered accumulates leaves in traversal order so that
	// leaf.lData can index directly into it.
	ordered := make([]Triangle, 0, len(triangles))

	indices := make([]int, len(triangles))
	for i := range indices {
		indices[i] = i
	}

	nodes := make([]bvhNode, 0, 2*len(triangles)+1)
	partitionBVH(triangles, indices, &nodes, &ordered)
	return nodes, ordered
}

func partitionBVH(all []Triangle, indices []int, nodes *[]bvhNode, ordered *[]Triangle) uint32 {
	min := types.XYZ(math.MaxFloat32, math.MaxFloat32, math.MaxFloat32)
	max := types.XYZ(-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32)
	for _, idx := range indices {
		min = types.MinVec3(min, all[idx].Min)
		max = types.MaxVec3(max, all[idx].Max)
	}

	node := bvhNode{}
	node.setBounds(min, max)

	if len(indices) <= minLeafItems {
		return appendLeaf(&node, all, indices, nodes, ordered)
	}

	side := max.Sub(min)
	axis := 0
	if side[1] > side[axis] {
		axis = 1
	}
	if side[2] > side[axis] {
		axis = 2
	}
	if side[axis] < 1e-6 {
		return appendLeaf(&node, all, indices, nodes, ordered)
	}

	sort.Slice(indices, func(i, j int) bool {
		return all[indices[i]].Center[axis] < all[indices[j]].Center[axis]
	})

	mid := len(indices) / 2
	left := indices[:mid]
	right := indices[mid:]
	if len(left) == 0 || len(right) == 0 {
		return appendLeaf(&node, all, indices, nodes, ordered)
	}

	nodeIndex := uint32(len(*nodes))
	*nodes = append(*nodes, node)

	leftIdx := partitionBVH(all, left, nodes, ordered)
	rightIdx := partitionBVH(all, right, nodes, ordered)
	(*nodes)[nodeIndex].setChildNodes(leftIdx, rightIdx)

	return nodeIndex
}

func appendLeaf(node *bvhNode, all []Triangle, indices []int, nodes *[]bvhNode, ordered *[]Triangle) uint32 {
	first := uint32(len(*ordered))
	for _, idx := range indices {
		*ordered = append(*ordered, all[idx])
	}
	node.setLeaf(first, uint32(len(indices)))

	nodeIndex := uint32(len(*nodes))
	*nodes = append(*nodes, *node)
	return nodeIndex
}

// intersectsAABB implements the slab method used by RayEnv.traceOne's
// traversal (rayenv.go).
func intersectsAABB(min, max, origin, invDir types.Vec3, maxT float32) bool {
	tx1 := (min[0] - origin[0]) * invDir[0]
	tx2 := (max[0] - origin[0]) * invDir[0]
	tmin := fmin(tx1, tx2)
	tmax := fmax(tx1, tx2)

	ty1 := (min[1] - origin[1]) * invDir[1]
	ty2 := (max[1] - origin[1]) * invDir[1]
	tmin = fmax(tmin, fmin(ty1, ty2))
	tmax = fmin(tmax, fmax(ty1, ty2))

	tz1 := (min[2] - origin[2]) * invDir[2]
	tz2 := (max[2] - origin[2]) * invDir[2]
	tmin = fmax(tmin, fmin(tz1, tz2))
	tmax = fmin(tmax, fmax(tz1, tz2))

	return tmax >= fmax(tmin, 0) && tmin <= maxT
}

func fmin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
