package projectile

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AimMode selects how the launch velocity treats the vertical axis.
type AimMode string

const (
	// AimFull launches along the full 3D forward vector.
	AimFull AimMode = "full"
	// AimHorizontal drops the vertical component and renormalizes, so shots
	// stay level regardless of pitch.
	AimHorizontal AimMode = "horizontal"
)

// DefaultLocalForward is the player's local forward axis.
var DefaultLocalForward = mgl64.Vec3{0, 0, 1}

var worldUp = mgl64.Vec3{0, 1, 0}

const degenerateEpsilon = 1e-9

// Pose is a world-space position and orientation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Aim is the spawn pose derived from a player pose.
type Aim struct {
	Forward  mgl64.Vec3
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// ComputeAim rotates the local forward axis into world space, places the
// spawn point Standoff along it plus VerticalOffset up, and scales forward
// by LaunchSpeed.
func ComputeAim(pose Pose, cfg Config) Aim {
	local := cfg.LocalForward
	if local.Len() < degenerateEpsilon {
		local = DefaultLocalForward
	}
	rot := pose.Rotation
	if rot.Len() < degenerateEpsilon {
		rot = mgl64.QuatIdent()
	}
	forward := rot.Normalize().Rotate(local).Normalize()

	spawn := pose.Position.
		Add(forward.Mul(cfg.Standoff)).
		Add(worldUp.Mul(cfg.VerticalOffset))

	dir := forward
	if cfg.Mode == AimHorizontal {
		dir = horizontalHeading(rot.Normalize(), local, forward)
	}

	return Aim{
		Forward:  forward,
		Position: spawn,
		Velocity: dir.Mul(cfg.LaunchSpeed),
	}
}

// horizontalHeading returns the unit ground-plane direction of forward. When
// the player looks straight up or down, forward has no ground component and
// the heading is read from the rotated up axis instead, which tilts toward
// the back when pitched up and toward the front when pitched down.
func horizontalHeading(rot mgl64.Quat, local, forward mgl64.Vec3) mgl64.Vec3 {
	if flat, ok := flatten(forward); ok {
		return flat
	}

	up := worldUp
	if math.Abs(local.Normalize().Dot(up)) > 1-1e-6 {
		up = mgl64.Vec3{0, 0, -1}
	}
	sign := 1.0
	if forward.Y() >= 0 {
		sign = -1
	}
	if flat, ok := flatten(rot.Rotate(up).Mul(sign)); ok {
		return flat
	}
	return DefaultLocalForward
}

func flatten(v mgl64.Vec3) (mgl64.Vec3, bool) {
	flat := mgl64.Vec3{v.X(), 0, v.Z()}
	l := flat.Len()
	if l < degenerateEpsilon || math.IsNaN(l) {
		return mgl64.Vec3{}, false
	}
	return flat.Mul(1 / l), true
}
