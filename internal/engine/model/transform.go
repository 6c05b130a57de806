package model

import (
	"github.com/Faultbox/objview/pkg/math"
)

// PlacementMatrix composes a runtime world transform from position,
// rotation, and scale: translate * rotate * scale (scale applied
// first). It is recomputed on demand and stays separate from the
// normalization transform already baked into the vertex positions.
func PlacementMatrix(position math.Vec3, rotation math.Quat, scale math.Vec3) math.Mat4 {
	return math.Translate(position.X, position.Y, position.Z).
		Mul(rotation.ToMat4()).
		Mul(math.Scale(scale.X, scale.Y, scale.Z))
}
