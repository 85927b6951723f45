package component

import "github.com/go-gl/mathgl/mgl64"

// Projectile marks the physics entity backing a launcher record.
type Projectile struct {
	ID       uint64
	State    string
	Age      float64
	Velocity mgl64.Vec3
	// Trail holds recent positions, newest last.
	Trail []mgl64.Vec3
}

var ProjectileComponent = NewComponent[Projectile]("projectile")

// ProjectileImpact collects contacts reported by the physics step. Targets
// holds raw entity values; Wall is set when a static solid was touched.
type ProjectileImpact struct {
	Targets []uint64
	Wall    bool
}

var ProjectileImpactComponent = NewComponent[ProjectileImpact]("projectile_impact")
