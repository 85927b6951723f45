package stream

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
)

// Snapshot is one frame of the spectator feed.
type Snapshot struct {
	Tick        uint64          `json:"tick"`
	Projectiles []ProjectileDTO `json:"projectiles"`
	Player      *PoseDTO        `json:"player,omitempty"`
	Monster     *PoseDTO        `json:"monster,omitempty"`
}

type ProjectileDTO struct {
	ID       uint64     `json:"id"`
	State    string     `json:"state"`
	Age      float64    `json:"age"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

type PoseDTO struct {
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Health   int        `json:"health"`
	State    string     `json:"state,omitempty"`
}

// Capture builds a snapshot of the launcher's live list and the two
// characters. Projectiles whose body entity is gone report their spawn
// position.
func Capture(w *ecs.World, l *projectile.Launcher, tick uint64) Snapshot {
	s := Snapshot{Tick: tick, Projectiles: []ProjectileDTO{}}
	if l != nil {
		for _, p := range l.Projectiles() {
			dto := ProjectileDTO{
				ID:       p.ID,
				State:    p.State.String(),
				Age:      p.Age,
				Position: vec(p.SpawnPosition),
				Velocity: vec(p.InitialVelocity),
			}
			if w != nil {
				e := ecs.Entity(p.Handle)
				if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
					dto.Position = vec(t.Position)
				}
				if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && b.Body != nil && p.State == projectile.StateInFlight {
					v := b.Body.Velocity()
					dto.Velocity = [3]float64{v.X, b.VelocityY, v.Y}
				}
			}
			s.Projectiles = append(s.Projectiles, dto)
		}
	}
	if w == nil {
		return s
	}

	if e, ok := w.First(component.PlayerTagComponent.Kind()); ok {
		s.Player = pose(w, e)
		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && s.Player != nil {
			s.Player.Yaw = p.Yaw
		}
	}
	if e, ok := w.First(component.MonsterTagComponent.Kind()); ok {
		s.Monster = pose(w, e)
		if s.Monster != nil {
			if m, ok := ecs.Get(w, e, component.MonsterComponent.Kind()); ok {
				s.Monster.Yaw = m.Yaw
			}
			if st, ok := ecs.Get(w, e, component.AIStateComponent.Kind()); ok {
				s.Monster.State = st.Current
			}
		}
	}
	return s
}

func pose(w *ecs.World, e ecs.Entity) *PoseDTO {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	p := &PoseDTO{Position: vec(t.Position), Yaw: t.Yaw()}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		p.Health = h.Current
	}
	return p
}

func vec(v mgl64.Vec3) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}
