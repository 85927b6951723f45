package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/projectile"
)

type projectileRig struct {
	w       *ecs.World
	physics *PhysicsSystem
	shots   *ProjectileSystem
	player  ecs.Entity
	input   *component.Input
}

func newProjectileRig(t *testing.T, half float64, cfg projectile.Config, damage int) *projectileRig {
	t.Helper()
	w, _ := newArenaWorld(t, half)
	shots, err := NewProjectileSystem(cfg, damage)
	if err != nil {
		t.Fatalf("NewProjectileSystem: %v", err)
	}

	player := w.CreateEntity()
	input := &component.Input{Captured: true}
	mustAdd(t, w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, player, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{0, 1, 0}))
	mustAdd(t, w, player, component.InputComponent.Kind(), input)

	return &projectileRig{w: w, physics: NewPhysicsSystem(), shots: shots, player: player, input: input}
}

func (r *projectileRig) tick() {
	r.shots.Update(r.w)
	r.physics.Update(r.w)
}

func (r *projectileRig) fire() {
	r.input.TriggerPressed = true
	r.tick()
	r.input.TriggerPressed = false
}

func (r *projectileRig) only(t *testing.T) projectile.Projectile {
	t.Helper()
	live := r.shots.Launcher().Projectiles()
	if len(live) != 1 {
		t.Fatalf("expected one live projectile, got %d", len(live))
	}
	return live[0]
}

func TestProjectileSystem_TriggerThenLaunch(t *testing.T) {
	r := newProjectileRig(t, 10, projectile.DefaultConfig(), 1)
	var spawned []projectile.Projectile
	r.shots.OnSpawn = func(p projectile.Projectile) { spawned = append(spawned, p) }

	r.fire()

	p := r.only(t)
	if p.State != projectile.StatePending {
		t.Fatalf("state = %v, want pending until the body is ready", p.State)
	}
	if len(spawned) != 1 || spawned[0].ID != p.ID {
		t.Fatalf("OnSpawn saw %+v", spawned)
	}
	e := ecs.Entity(p.Handle)
	if pos := position(t, r.w, e); pos != (mgl64.Vec3{0, 1.1, 1}) {
		t.Fatalf("spawned at %v, want (0, 1.1, 1)", pos)
	}
	body, ok := ecs.Get(r.w, e, component.PhysicsBodyComponent.Kind())
	if !ok || !body.Ready {
		t.Fatalf("expected physics to create the body on its tick")
	}
	if pending := r.shots.Launcher().Pending(); len(pending) != 1 || pending[0] != p.ID {
		t.Fatalf("pending = %v, want [%d]", pending, p.ID)
	}

	r.tick()

	if pending := r.shots.Launcher().Pending(); len(pending) != 0 {
		t.Fatalf("ready body should leave nothing pending, got %v", pending)
	}

	p, _ = r.shots.Launcher().Get(p.ID)
	if p.State != projectile.StateInFlight {
		t.Fatalf("state = %v, want in_flight", p.State)
	}
	if p.InitialVelocity != (mgl64.Vec3{0, 0, 30}) {
		t.Fatalf("velocity = %v", p.InitialVelocity)
	}
	if pos := position(t, r.w, e); !near(pos.Z(), 1.5, 1e-6) {
		t.Fatalf("after one flight tick z=%v, want 1.5", pos.Z())
	}
	comp, _ := ecs.Get(r.w, e, component.ProjectileComponent.Kind())
	if comp.State != "in_flight" || comp.ID != p.ID || len(comp.Trail) == 0 {
		t.Fatalf("mirror not updated: %+v", comp)
	}
}

func TestProjectileSystem_UncapturedTriggerIsIgnored(t *testing.T) {
	r := newProjectileRig(t, 10, projectile.DefaultConfig(), 1)
	r.input.Captured = false

	r.fire()

	if n := r.shots.Launcher().Len(); n != 0 {
		t.Fatalf("expected no projectiles, got %d", n)
	}
	if s := r.shots.Launcher().Stats(); s.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", s.Skipped)
	}
}

func TestProjectileSystem_WallHitTerminates(t *testing.T) {
	r := newProjectileRig(t, 3, projectile.DefaultConfig(), 1)
	r.fire()
	e := ecs.Entity(r.only(t).Handle)

	for i := 0; i < 20 && r.shots.Launcher().Len() > 0; i++ {
		r.tick()
	}

	if n := r.shots.Launcher().Len(); n != 0 {
		t.Fatalf("projectile still live")
	}
	if got := r.shots.Launcher().Stats().Terminated[projectile.ReasonHit]; got != 1 {
		t.Fatalf("hit terminations = %d, want 1", got)
	}
	if r.w.IsAlive(e) {
		t.Fatalf("body entity should be destroyed")
	}
}

func TestProjectileSystem_MonsterHitDealsDamage(t *testing.T) {
	r := newProjectileRig(t, 10, projectile.DefaultConfig(), 2)
	monster := addBody(t, r.w, mgl64.Vec3{0, 1, 4}, monsterBody())
	health := &component.Health{Current: 5, Max: 5}
	mustAdd(t, r.w, monster, component.MonsterTagComponent.Kind(), &component.MonsterTag{})
	mustAdd(t, r.w, monster, component.HealthComponent.Kind(), health)

	r.fire()
	for i := 0; i < 20 && r.shots.Launcher().Len() > 0; i++ {
		r.tick()
	}

	if health.Current != 3 {
		t.Fatalf("monster health = %d, want 3", health.Current)
	}
	if got := r.shots.Launcher().Stats().Terminated[projectile.ReasonHit]; got != 1 {
		t.Fatalf("hit terminations = %d, want 1", got)
	}
}

func TestProjectileSystem_Expiry(t *testing.T) {
	cfg := projectile.DefaultConfig()
	cfg.Lifetime = 0.1
	r := newProjectileRig(t, 50, cfg, 1)

	r.fire()
	for i := 0; i < 10; i++ {
		r.tick()
	}

	if got := r.shots.Launcher().Stats().Terminated[projectile.ReasonExpired]; got != 1 {
		t.Fatalf("expired = %d, want 1", got)
	}
}

func TestProjectileSystem_OutOfBounds(t *testing.T) {
	r := newProjectileRig(t, 10, projectile.DefaultConfig(), 1)
	tr, _ := ecs.Get(r.w, r.player, component.TransformComponent.Kind())
	tr.Rotation = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})

	r.fire()
	if pos := position(t, r.w, ecs.Entity(r.only(t).Handle)); !near(pos.Y(), 2.1, 1e-9) {
		t.Fatalf("upward shot spawned at %v", pos)
	}
	for i := 0; i < 90; i++ {
		r.tick()
	}

	if got := r.shots.Launcher().Stats().Terminated[projectile.ReasonOutOfBounds]; got != 1 {
		t.Fatalf("out of bounds = %d, want 1", got)
	}
}

func TestProjectileSystem_ResetClears(t *testing.T) {
	r := newProjectileRig(t, 10, projectile.DefaultConfig(), 1)
	for i := 0; i < 3; i++ {
		r.fire()
	}
	if n := r.shots.Launcher().Len(); n != 3 {
		t.Fatalf("expected 3 live projectiles, got %d", n)
	}

	r.input.ResetPressed = true
	r.tick()

	if n := r.shots.Launcher().Len(); n != 0 {
		t.Fatalf("expected reset to clear, %d left", n)
	}
	if got := r.shots.Launcher().Stats().Terminated[projectile.ReasonCleared]; got != 3 {
		t.Fatalf("cleared = %d, want 3", got)
	}
}

func TestProjectileSystem_SetConfig(t *testing.T) {
	r := newProjectileRig(t, 10, projectile.DefaultConfig(), 1)

	cfg := projectile.DefaultConfig()
	cfg.Radius = 0.1
	cfg.Mode = projectile.AimHorizontal
	if err := r.shots.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	r.fire()

	body, _ := ecs.Get(r.w, ecs.Entity(r.only(t).Handle), component.PhysicsBodyComponent.Kind())
	if body.Radius != 0.1 {
		t.Fatalf("radius = %v, want 0.1", body.Radius)
	}

	bad := cfg
	bad.LaunchSpeed = 0
	if err := r.shots.SetConfig(bad); err == nil {
		t.Fatalf("expected invalid config error")
	}
	if r.shots.Launcher().Config().LaunchSpeed != 30 {
		t.Fatalf("invalid config must not be applied")
	}
}

func TestProjectileSystem_PitchAndAimMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  projectile.AimMode
		level bool
	}{
		{"full follows pitch", projectile.AimFull, false},
		{"horizontal stays level", projectile.AimHorizontal, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := projectile.DefaultConfig()
			cfg.Mode = tt.mode
			r := newProjectileRig(t, 10, cfg, 1)
			mustAdd(t, r.w, r.player, component.PlayerComponent.Kind(), &component.Player{Pitch: math.Pi / 6})

			r.fire()

			v := r.only(t).InitialVelocity
			if !near(v.Len(), cfg.LaunchSpeed, 1e-9) {
				t.Fatalf("speed = %v, want %v", v.Len(), cfg.LaunchSpeed)
			}
			if tt.level && !near(v.Y(), 0, 1e-9) {
				t.Fatalf("horizontal shot has vertical velocity %v", v)
			}
			if !tt.level && !near(v.Y(), cfg.LaunchSpeed/2, 1e-9) {
				t.Fatalf("pitched shot vy = %v, want %v", v.Y(), cfg.LaunchSpeed/2)
			}
		})
	}
}
