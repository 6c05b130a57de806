package model

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/objview/pkg/math"
)

func TestPlacementMatrix_Order(t *testing.T) {
	// Scale then rotate then translate: a unit X point scaled by 2,
	// rotated 90 degrees around Y (landing on -Z), then moved +5 on X.
	m := PlacementMatrix(
		math.Vec3{X: 5},
		math.QuatFromAxisAngle(math.Vec3{Y: 1}, float32(gomath.Pi/2)),
		math.Vec3{X: 2, Y: 2, Z: 2},
	)

	got := m.TransformPoint([3]float32{1, 0, 0})
	want := [3]float32{5, 0, -2}
	for i := range want {
		if gomath.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("transformed point = %v, want ~%v", got, want)
		}
	}
}

func TestPlacementMatrix_Identity(t *testing.T) {
	m := PlacementMatrix(math.Vec3{}, math.QuatIdentity(), math.Vec3{X: 1, Y: 1, Z: 1})
	p := [3]float32{3, 4, 5}
	if got := m.TransformPoint(p); got != p {
		t.Errorf("identity placement transform = %v, want %v", got, p)
	}
}
