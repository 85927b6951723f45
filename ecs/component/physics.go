package component

import "github.com/jakecoffman/cp"

// BodyKind selects the collision category of a physics body.
type BodyKind int

const (
	BodySolid BodyKind = iota
	BodyCrate
	BodyPlayer
	BodyMonster
	BodyProjectile
)

// PhysicsBody stores Chipmunk2D runtime data and the collider description.
// Chipmunk simulates the horizontal plane (cp X = world X, cp Y = world Z);
// the physics system integrates the vertical axis itself.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Kind       BodyKind
	Radius     float64
	Width      float64
	Depth      float64
	Height     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
	// FixedRotation keeps the cp body from spinning (characters).
	FixedRotation bool
	// Undamped bodies ignore the space's linear damping (projectiles).
	Undamped bool

	GravityScale float64
	VelocityY    float64
	Grounded     bool

	// Ready flips to true on the tick the body is inserted into the space.
	Ready bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]("physics_body")

// HalfHeight returns half the vertical extent, falling back to the radius
// for spheres.
func (b *PhysicsBody) HalfHeight() float64 {
	if b == nil {
		return 0
	}
	if b.Height > 0 {
		return b.Height / 2
	}
	return b.Radius
}
