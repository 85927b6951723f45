package component

import "github.com/go-gl/mathgl/mgl64"

type Player struct {
	MaxVelocity      float64
	SprintMultiplier float64
	JumpVelocity     float64
	TurnSpeed        float64
	MouseSensitivity float64

	Yaw float64
	// Pitch is the look angle above the horizon; it aims shots but never
	// tilts the body.
	Pitch    float64
	Spawn    mgl64.Vec3
	SpawnYaw float64
}

// MaxPitch keeps the look angle short of straight up or down.
const MaxPitch = 1.4

// AimRotation is the player's look rotation: yaw about Up, then pitch.
func (p *Player) AimRotation() mgl64.Quat {
	return YawRotation(p.Yaw).Mul(mgl64.QuatRotate(-p.Pitch, mgl64.Vec3{1, 0, 0}))
}

var PlayerComponent = NewComponent[Player]("player")

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player_tag")
