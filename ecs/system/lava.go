package system

import (
	"math"

	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// lavaContactHeight is how far above the lava surface feet still burn.
const lavaContactHeight = 0.25

// LavaSystem animates lava pools and burns whoever stands in them.
type LavaSystem struct{}

func NewLavaSystem() *LavaSystem {
	return &LavaSystem{}
}

func (s *LavaSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.LavaComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, lava *component.Lava, lt *component.Transform) {
		lava.Elapsed += common.DeltaTime

		ecs.ForEach3(w, component.HealthComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, h *component.Health, t *component.Transform, body *component.PhysicsBody) {
			if body.Kind != component.BodyPlayer && body.Kind != component.BodyMonster {
				return
			}
			d := math.Hypot(t.Position.X()-lt.Position.X(), t.Position.Z()-lt.Position.Z())
			if d > lava.Radius {
				return
			}
			if t.Position.Y()-body.HalfHeight() > lt.Position.Y()+lavaContactHeight {
				return
			}
			burn(h, lava.DamagePerSecond*common.DeltaTime)
		})
	})
}

// burn accumulates fractional damage and applies whole points.
func burn(h *component.Health, amount float64) {
	if h == nil || amount <= 0 || h.Dead() {
		return
	}
	h.Accumulated += amount
	whole := int(h.Accumulated)
	if whole <= 0 {
		return
	}
	h.Accumulated -= float64(whole)
	h.Damage(whole, 0)
}
