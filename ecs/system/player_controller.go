package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// PlayerControllerSystem turns input into heading and velocity. Movement is
// relative to the player's yaw: MoveZ pushes along forward, MoveX along right.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	)
	for _, e := range entities {
		player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
		if !ok {
			continue
		}
		input, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || bodyComp.Body == nil {
			continue
		}

		if input.Captured {
			player.Yaw = common.WrapAngle(player.Yaw + input.TurnDelta*player.MouseSensitivity)
			player.Pitch = common.Clamp(player.Pitch+input.PitchDelta*player.MouseSensitivity, -component.MaxPitch, component.MaxPitch)
		}

		desired := desiredVelocity(player, input)
		accel := player.TurnSpeed * common.DeltaTime
		if accel <= 0 || accel > 1 {
			accel = 1
		}
		vel := bodyComp.Body.Velocity()
		vel.X = common.Lerp(vel.X, desired.X, accel)
		vel.Y = common.Lerp(vel.Y, desired.Y, accel)
		bodyComp.Body.SetVelocityVector(vel)

		if input.JumpPressed && bodyComp.Grounded {
			bodyComp.VelocityY = player.JumpVelocity
			bodyComp.Grounded = false
		}

		bodyComp.Body.SetAngle(-player.Yaw)
		bodyComp.Body.SetAngularVelocity(0)
	}
}

// desiredVelocity returns the target planar velocity in cp coordinates.
func desiredVelocity(player *component.Player, input *component.Input) cp.Vector {
	sin, cos := math.Sincos(player.Yaw)
	forward := cp.Vector{X: sin, Y: cos}
	right := cp.Vector{X: cos, Y: -sin}

	move := forward.Mult(input.MoveZ).Add(right.Mult(input.MoveX))
	if move.Length() < 1e-9 {
		return cp.Vector{}
	}
	speed := player.MaxVelocity
	if input.Sprint && player.SprintMultiplier > 0 {
		speed *= player.SprintMultiplier
	}
	return move.Normalize().Mult(speed)
}
