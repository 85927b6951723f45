package common

const (
	// TPS is the fixed simulation rate.
	TPS = 60
	// DeltaTime is the length of one simulation tick in seconds.
	DeltaTime = 1.0 / TPS
	// Gravity is the vertical acceleration in metres per second squared.
	Gravity = -9.81
)

// Debug enables verbose logging and physics overlays.
var Debug bool

const (
	// BaseWidth and BaseHeight are the logical screen size.
	BaseWidth  = 1280
	BaseHeight = 720
)
