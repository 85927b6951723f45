package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Up is the world vertical axis.
	Up = mgl64.Vec3{0, 1, 0}
	// Forward is the local facing axis of every character.
	Forward = mgl64.Vec3{0, 0, 1}
)

// Transform is a world-space pose. The arena is simulated in the X/Z plane
// with Y pointing up.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
}

var TransformComponent = NewComponent[Transform]("transform")

// NewTransform returns an identity-rotated transform at p.
func NewTransform(p mgl64.Vec3) *Transform {
	return &Transform{Position: p, Rotation: mgl64.QuatIdent(), Scale: 1}
}

// YawRotation builds the rotation about the world up axis.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// Yaw returns the heading of the transform's forward axis about Up.
func (t *Transform) Yaw() float64 {
	if t == nil {
		return 0
	}
	f := t.Rotation.Rotate(Forward)
	return math.Atan2(f.X(), f.Z())
}
