package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const (
	stickDeadzone = 0.2
	// gamepadTurnRate converts right-stick deflection into mouse pixels per tick.
	gamepadTurnRate = 12.0
)

// InputSystem samples keyboard, mouse and gamepad into every Input component
// and owns pointer capture.
type InputSystem struct {
	lastX    int
	lastY    int
	tracking bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// Captured reports whether the pointer is locked to the window.
func (i *InputSystem) Captured() bool {
	return ebiten.CursorMode() == ebiten.CursorModeCaptured
}

// Capture locks the pointer.
func (i *InputSystem) Capture() {
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	i.tracking = false
}

// Release shows the pointer again.
func (i *InputSystem) Release() {
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	i.tracking = false
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	// Captured is sampled before this frame's clicks change it, so the click
	// that captures the pointer does not also fire.
	captured := i.Captured()
	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	forward := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	backward := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	sprint := ebiten.IsKeyPressed(ebiten.KeyShift)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	trigger := inpututil.IsKeyJustPressed(ebiten.KeyF) || (clicked && captured)
	reset := inpututil.IsKeyJustPressed(ebiten.KeyR)

	moveX, moveZ := 0.0, 0.0
	if forward {
		moveZ += 1
	}
	if backward {
		moveZ -= 1
	}
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	turn, pitch := 0.0, 0.0
	x, y := ebiten.CursorPosition()
	if captured && i.tracking {
		turn = float64(x - i.lastX)
		pitch = float64(i.lastY - y)
	}
	i.lastX, i.lastY = x, y
	i.tracking = captured

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX, moveZ = lx, -ly
		}
		if rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal); math.Abs(rx) > stickDeadzone {
			turn += rx * gamepadTurnRate
		}
		if ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical); math.Abs(ry) > stickDeadzone {
			pitch -= ry * gamepadTurnRate
		}

		sprint = sprint || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		trigger = trigger || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		reset = reset || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.MoveX = moveX
		input.MoveZ = moveZ
		input.Sprint = sprint
		input.JumpPressed = jumpPressed
		input.TurnDelta = turn
		input.PitchDelta = pitch
		input.TriggerPressed = trigger
		input.Captured = captured
		input.ResetPressed = reset
	})

	switch {
	case captured && inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		i.Release()
	case !captured && clicked:
		i.Capture()
	}
}
