package system

import (
	"log"

	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// HealthSystem ticks hit timers and respawns the player after death, a fall
// below the arena, or a reset request.
type HealthSystem struct {
	physics *PhysicsSystem
}

func NewHealthSystem(physics *PhysicsSystem) *HealthSystem {
	return &HealthSystem{physics: physics}
}

func (s *HealthSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.HealthComponent.Kind(), func(_ ecs.Entity, h *component.Health) {
		h.Invulnerable = max(0, h.Invulnerable-common.DeltaTime)
		h.Flash = max(0, h.Flash-common.DeltaTime)
	})

	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}

	reason := ""
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h.Dead() {
		reason = "died"
	}
	if input, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok && input.ResetPressed {
		reason = "reset"
	}
	if boundsEntity, ok := w.First(component.ArenaBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, boundsEntity, component.ArenaBoundsComponent.Kind()); ok && t.Position.Y() < b.KillY {
			reason = "fell"
		}
	}
	if reason == "" {
		return
	}

	log.Printf("player: respawn (%s)", reason)
	if s.physics != nil {
		s.physics.Teleport(w, player, p.Spawn.X(), p.Spawn.Y(), p.Spawn.Z())
	} else {
		t.Position = p.Spawn
	}
	p.Yaw = p.SpawnYaw
	p.Pitch = 0
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok {
		h.Reset()
	}
}
