package raytrace

import (
	"testing"

	"github.com/achilleasa/lumenpreview/types"
)

func quad(z float32) []Triangle {
	v0 := types.XYZ(-10, -10, z)
	v1 := types.XYZ(10, -10, z)
	v2 := types.XYZ(10, 10, z)
	v3 := types.XYZ(-10, 10, z)
	return []Triangle{NewTriangle(v0, v1, v2), NewTriangle(v0, v2, v3)}
}

func TestBuildRejectsEmptyTriangleList(t *testing.T) {
	if _, err := Build(nil); err != ErrNoTriangles {
		t.Fatalf("expected ErrNoTriangles, got %v", err)
	}
}

func TestTrianglesFromSoupRejectsMisalignedLength(t *testing.T) {
	verts := []types.Vec3{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)}
	if _, err := TrianglesFromSoup(verts); err != ErrMisalignedTriangleSoup {
		t.Fatalf("expected ErrMisalignedTriangleSoup, got %v", err)
	}
}

func TestShadowOcclusion(t *testing.T) {
	env, err := Build(quad(1))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// A ray straight through the quad should report an occluder.
	hit := env.traceOne(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), 10)
	if hit.HitID < 0 {
		t.Fatalf("expected an occlusion hit, got none")
	}
	if hit.Distance <= 0 || hit.Distance > 10 {
		t.Fatalf("hit distance out of range: %v", hit.Distance)
	}

	// A ray that doesn't reach the quad (maxT too small) should miss.
	miss := env.traceOne(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), 0.5)
	if miss.HitID >= 0 {
		t.Fatalf("expected no hit before maxT, got %+v", miss)
	}

	// A ray pointed away from any geometry should miss.
	miss2 := env.traceOne(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), 10)
	if miss2.HitID >= 0 {
		t.Fatalf("expected no hit for a ray missing all geometry, got %+v", miss2)
	}
}

func TestTracePacketIsPerLaneIndependent(t *testing.T) {
	env, err := Build(quad(1))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	packet := RayPacket{
		Origin: [4]types.Vec3{
			types.XYZ(0, 0, 0),
			types.XYZ(0, 0, 0),
			types.XYZ(5, 5, 0),
			types.XYZ(0, 0, 0),
		},
		Dir: [4]types.Vec3{
			types.XYZ(0, 0, 1),
			types.XYZ(1, 0, 0),
			types.XYZ(0, 0, 1),
			types.XYZ(0, 0, 1),
		},
		MaxT: [4]float32{10, 10, 10, 10},
	}

	hits := env.TracePacket(packet)
	if hits[0].HitID < 0 {
		t.Fatalf("lane 0 should hit the quad")
	}
	if hits[1].HitID >= 0 {
		t.Fatalf("lane 1 points away from geometry and should miss")
	}
	if hits[2].HitID < 0 {
		t.Fatalf("lane 2 should hit the quad from within its footprint")
	}
	if hits[3].HitID < 0 {
		t.Fatalf("lane 3 is identical to lane 0 and should also hit")
	}
}
