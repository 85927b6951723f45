package system

import (
	"errors"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
)

const trailLength = 6

var errNoWorld = errors.New("projectile bodies: world not attached")

// ProjectileSystem drives the launcher from player input and settles each
// projectile's fate from physics contacts, bounds and age.
type ProjectileSystem struct {
	launcher *projectile.Launcher
	bodies   *projectileBodies

	// Damage is dealt to a monster per hit.
	Damage int
	// OnSpawn runs after every successful trigger.
	OnSpawn func(projectile.Projectile)

	world    *ecs.World
	captured bool
}

func NewProjectileSystem(cfg projectile.Config, damage int) (*ProjectileSystem, error) {
	s := &ProjectileSystem{Damage: damage}
	s.bodies = &projectileBodies{radius: cfg.Radius, mass: cfg.Mass}

	launcher, err := projectile.NewLauncher(cfg, s.bodies, projectile.PlayerFunc(s.playerPose), projectile.CaptureFunc(s.isCaptured))
	if err != nil {
		return nil, err
	}
	s.launcher = launcher
	return s, nil
}

func (s *ProjectileSystem) Launcher() *projectile.Launcher {
	if s == nil {
		return nil
	}
	return s.launcher
}

// SetConfig applies new launcher tuning to future shots.
func (s *ProjectileSystem) SetConfig(cfg projectile.Config) error {
	if err := s.launcher.SetConfig(cfg); err != nil {
		return err
	}
	s.bodies.radius = cfg.Radius
	s.bodies.mass = cfg.Mass
	return nil
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.world = w
	s.bodies.world = w

	if input, ok := s.playerInput(w); ok && input.ResetPressed {
		if n := s.launcher.Clear(); n > 0 && common.Debug {
			log.Printf("projectile: cleared %d projectiles", n)
		}
	}

	s.resolveImpacts(w)
	s.cullOutOfBounds(w)
	for _, p := range s.launcher.Advance(common.DeltaTime) {
		if common.Debug {
			log.Printf("projectile: id=%d expired after %.2fs", p.ID, p.Age)
		}
	}
	s.markReady(w)
	s.trigger(w)
	s.mirror(w)
}

func (s *ProjectileSystem) playerInput(w *ecs.World) (*component.Input, bool) {
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, player, component.InputComponent.Kind())
}

func (s *ProjectileSystem) playerPose() (projectile.Pose, bool) {
	if s.world == nil {
		return projectile.Pose{}, false
	}
	player, ok := s.world.First(component.PlayerTagComponent.Kind())
	if !ok {
		return projectile.Pose{}, false
	}
	t, ok := ecs.Get(s.world, player, component.TransformComponent.Kind())
	if !ok {
		return projectile.Pose{}, false
	}
	rot := t.Rotation
	if p, ok := ecs.Get(s.world, player, component.PlayerComponent.Kind()); ok {
		rot = p.AimRotation()
	}
	return projectile.Pose{Position: t.Position, Rotation: rot}, true
}

func (s *ProjectileSystem) isCaptured() bool {
	return s.captured
}

func (s *ProjectileSystem) trigger(w *ecs.World) {
	input, ok := s.playerInput(w)
	if !ok || !input.TriggerPressed {
		return
	}
	s.captured = input.Captured

	p, spawned, err := s.launcher.Trigger()
	if err != nil {
		log.Printf("projectile: trigger: %v", err)
		return
	}
	if !spawned {
		return
	}

	if comp, ok := ecs.Get(w, ecs.Entity(p.Handle), component.ProjectileComponent.Kind()); ok {
		comp.ID = p.ID
		comp.State = p.State.String()
	}
	if common.Debug {
		log.Printf("projectile: id=%d spawned at (%.2f, %.2f, %.2f)", p.ID, p.SpawnPosition.X(), p.SpawnPosition.Y(), p.SpawnPosition.Z())
	}
	if s.OnSpawn != nil {
		s.OnSpawn(p)
	}
}

// markReady hands the cached launch velocity to pending projectiles whose
// bodies the physics system inserted on its last tick.
func (s *ProjectileSystem) markReady(w *ecs.World) {
	for _, id := range s.launcher.Pending() {
		p, ok := s.launcher.Get(id)
		if !ok {
			continue
		}
		body, ok := ecs.Get(w, ecs.Entity(p.Handle), component.PhysicsBodyComponent.Kind())
		if !ok || !body.Ready {
			continue
		}
		s.launcher.PhysicsReady(id)
	}
}

func (s *ProjectileSystem) resolveImpacts(w *ecs.World) {
	ecs.ForEach(w, component.ProjectileImpactComponent.Kind(), func(e ecs.Entity, imp *component.ProjectileImpact) {
		id, ok := s.launcher.LookupHandle(projectile.BodyHandle(e))
		if !ok {
			ecs.Remove(w, e, component.ProjectileImpactComponent.Kind())
			return
		}

		hit := imp.Wall
		for _, raw := range imp.Targets {
			target := ecs.Entity(raw)
			if !ecs.Has(w, target, component.MonsterTagComponent.Kind()) {
				continue
			}
			hit = true
			health, ok := ecs.Get(w, target, component.HealthComponent.Kind())
			if !ok {
				continue
			}
			if health.Damage(s.Damage, 0) && common.Debug {
				log.Printf("projectile: id=%d hit monster=%v health=%d/%d", id, target, health.Current, health.Max)
			}
		}

		if hit {
			s.launcher.Terminate(id, projectile.ReasonHit)
			return
		}
		ecs.Remove(w, e, component.ProjectileImpactComponent.Kind())
	})
}

func (s *ProjectileSystem) cullOutOfBounds(w *ecs.World) {
	boundsEntity, ok := w.First(component.ArenaBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.ArenaBoundsComponent.Kind())
	if !ok {
		return
	}
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Projectile, t *component.Transform) {
		if bounds.Contains(t.Position.X(), t.Position.Y(), t.Position.Z()) {
			return
		}
		if id, ok := s.launcher.LookupHandle(projectile.BodyHandle(e)); ok {
			s.launcher.Terminate(id, projectile.ReasonOutOfBounds)
		}
	})
}

// mirror copies launcher state onto body entities for the renderer.
func (s *ProjectileSystem) mirror(w *ecs.World) {
	for _, p := range s.launcher.Projectiles() {
		e := ecs.Entity(p.Handle)
		comp, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
		if !ok {
			continue
		}
		comp.ID = p.ID
		comp.State = p.State.String()
		comp.Age = p.Age
		if p.State == projectile.StateInFlight {
			comp.Velocity = p.InitialVelocity
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			comp.Trail = append(comp.Trail, t.Position)
			if len(comp.Trail) > trailLength {
				comp.Trail = comp.Trail[len(comp.Trail)-trailLength:]
			}
		}
	}
}

// projectileBodies backs launcher records with ECS entities. Bodies appear in
// the cp space on the physics system's next tick.
type projectileBodies struct {
	world  *ecs.World
	radius float64
	mass   float64
}

func (b *projectileBodies) CreateBody(position mgl64.Vec3) (projectile.BodyHandle, error) {
	if b.world == nil {
		return 0, errNoWorld
	}
	e := b.world.CreateEntity()
	if err := ecs.Add(b.world, e, component.TransformComponent.Kind(), component.NewTransform(position)); err != nil {
		b.world.DestroyEntity(e)
		return 0, err
	}
	body := &component.PhysicsBody{
		Kind:     component.BodyProjectile,
		Radius:   b.radius,
		Mass:     b.mass,
		Undamped: true,
	}
	if err := ecs.Add(b.world, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		b.world.DestroyEntity(e)
		return 0, err
	}
	if err := ecs.Add(b.world, e, component.ProjectileComponent.Kind(), &component.Projectile{State: projectile.StatePending.String()}); err != nil {
		b.world.DestroyEntity(e)
		return 0, err
	}
	return projectile.BodyHandle(e), nil
}

func (b *projectileBodies) SetVelocity(h projectile.BodyHandle, v mgl64.Vec3) {
	if b.world == nil {
		return
	}
	body, ok := ecs.Get(b.world, ecs.Entity(h), component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	body.VelocityY = v.Y()
	if body.Body != nil {
		body.Body.SetVelocity(v.X(), v.Z())
	}
}

func (b *projectileBodies) RemoveBody(h projectile.BodyHandle) {
	if b.world == nil {
		return
	}
	b.world.DestroyEntity(ecs.Entity(h))
}
