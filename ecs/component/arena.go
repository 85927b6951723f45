package component

// ArenaBounds describes the playable volume. Anything outside the box
// (expanded by Margin) is out of bounds.
type ArenaBounds struct {
	HalfWidth  float64
	HalfDepth  float64
	FloorY     float64
	CeilingY   float64
	KillY      float64
	WallHeight float64
	Margin     float64
}

var ArenaBoundsComponent = NewComponent[ArenaBounds]("arena_bounds")

// Contains reports whether (x, y, z) is inside the arena volume.
func (b *ArenaBounds) Contains(x, y, z float64) bool {
	if b == nil {
		return true
	}
	if x < -b.HalfWidth-b.Margin || x > b.HalfWidth+b.Margin {
		return false
	}
	if z < -b.HalfDepth-b.Margin || z > b.HalfDepth+b.Margin {
		return false
	}
	return y >= b.KillY && y <= b.CeilingY
}

type CrateTag struct{}

var CrateTagComponent = NewComponent[CrateTag]("crate_tag")

type Lava struct {
	Radius          float64
	DamagePerSecond float64
	Elapsed         float64
}

var LavaComponent = NewComponent[Lava]("lava")

type Camera struct {
	Zoom       float64
	Smoothness float64
	X          float64
	Z          float64
}

var CameraComponent = NewComponent[Camera]("camera")
