package component

// Input stores per-frame input state for an entity.
type Input struct {
	// MoveX is strafe (-1 left, +1 right), MoveZ is forward (-1 back, +1 forward).
	MoveX       float64
	MoveZ       float64
	Sprint      bool
	JumpPressed bool

	// TurnDelta is the yaw change requested this frame, in mouse pixels.
	TurnDelta float64
	// PitchDelta is the look-up change, in mouse pixels (positive looks up).
	PitchDelta float64

	// TriggerPressed is a discrete fire event. Captured mirrors the pointer
	// lock state as it was before this frame's clicks were processed.
	TriggerPressed bool
	Captured       bool

	ResetPressed bool
}

var InputComponent = NewComponent[Input]("input")
