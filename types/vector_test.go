package types

import (
	"math"
	"testing"
)

func TestVec3Ops(t *testing.T) {
	v := Vec3{1, 2, 3}
	w := Vec3{-1, 0.5, 2}

	add := v.Add(w)
	if add != (Vec3{0, 2.5, 5}) {
		t.Fatalf("Add mismatch: %+v", add)
	}
	sub := v.Sub(w)
	if sub != (Vec3{2, 1.5, 1}) {
		t.Fatalf("Sub mismatch: %+v", sub)
	}
	mul := v.Mul(2)
	if mul != (Vec3{2, 4, 6}) {
		t.Fatalf("Mul mismatch: %+v", mul)
	}
	dot := v.Dot(w)
	wantDot := float32(1*(-1) + 2*0.5 + 3*2)
	if dot != wantDot {
		t.Fatalf("Dot mismatch: got %v want %v", dot, wantDot)
	}
	l := v.Len()
	if math.Abs(float64(l)-math.Sqrt(14)) > 1e-5 {
		t.Fatalf("Len mismatch: %v", l)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if math.Abs(float64(n.Len())-1) > 1e-6 {
		t.Fatalf("Normalize not unit length: %v", n.Len())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Fatalf("Normalize of zero vector should stay zero, got %+v", zero)
	}
}

func TestMinMaxVec3(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -5}

	min := MinVec3(a, b)
	if min != (Vec3{1, 2, -5}) {
		t.Fatalf("MinVec3 mismatch: %+v", min)
	}

	max := MaxVec3(a, b)
	if max != (Vec3{3, 5, -2}) {
		t.Fatalf("MaxVec3 mismatch: %+v", max)
	}
}
