package system

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

type monsterRig struct {
	w       *ecs.World
	ai      *MonsterAISystem
	monster ecs.Entity
	m       *component.Monster
	state   *component.AIState
	health  *component.Health
	player  *component.Health
}

func newMonsterRig(t *testing.T, monsterPos mgl64.Vec3) *monsterRig {
	t.Helper()
	w, _ := newArenaWorld(t, 14)

	player := w.CreateEntity()
	playerHealth := &component.Health{Current: 100, Max: 100}
	mustAdd(t, w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, player, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{0, 1, 0}))
	mustAdd(t, w, player, component.HealthComponent.Kind(), playerHealth)

	r := &monsterRig{
		w:      w,
		ai:     NewMonsterAISystem(nil, rand.New(rand.NewPCG(3, 5))),
		player: playerHealth,
		m: &component.Monster{
			MoveSpeed:      2.5,
			ChaseRange:     10,
			AttackRange:    1.4,
			AttackDamage:   10,
			AttackCooldown: 1,
			RespawnDelay:   0.1,
			SpawnRange:     12,
		},
		state:  &component.AIState{Current: "idle"},
		health: &component.Health{Current: 5, Max: 5},
	}
	r.monster = w.CreateEntity()
	mustAdd(t, w, r.monster, component.MonsterTagComponent.Kind(), &component.MonsterTag{})
	mustAdd(t, w, r.monster, component.MonsterComponent.Kind(), r.m)
	mustAdd(t, w, r.monster, component.TransformComponent.Kind(), component.NewTransform(monsterPos))
	mustAdd(t, w, r.monster, component.PhysicsBodyComponent.Kind(), monsterBody())
	mustAdd(t, w, r.monster, component.AIStateComponent.Kind(), r.state)
	mustAdd(t, w, r.monster, component.AIScriptComponent.Kind(), &component.AIScript{Path: "scripts/monster.tengo"})
	mustAdd(t, w, r.monster, component.HealthComponent.Kind(), r.health)
	return r
}

func TestMonsterAI_ChasesPlayerInRange(t *testing.T) {
	r := newMonsterRig(t, mgl64.Vec3{0, 1, 5})

	r.ai.Update(r.w)
	if r.state.Current != "chase" {
		t.Fatalf("state = %q, want chase", r.state.Current)
	}

	r.ai.Update(r.w)
	if r.m.Desired.Z() >= 0 || !near(r.m.Desired.Len(), r.m.MoveSpeed, 1e-9) {
		t.Fatalf("desired = %v, want move toward the player at full speed", r.m.Desired)
	}
	if !near(math.Abs(r.m.Yaw), math.Pi, 1e-9) {
		t.Fatalf("yaw = %v, want to face -Z", r.m.Yaw)
	}
}

func TestMonsterAI_StaysIdleOutOfRange(t *testing.T) {
	r := newMonsterRig(t, mgl64.Vec3{0, 1, 12})

	for i := 0; i < 5; i++ {
		r.ai.Update(r.w)
	}
	if r.state.Current != "idle" {
		t.Fatalf("state = %q, want idle", r.state.Current)
	}
	if r.m.Desired.Len() != 0 {
		t.Fatalf("idle monster should not move, desired=%v", r.m.Desired)
	}
}

func TestMonsterAI_AttacksPlayer(t *testing.T) {
	r := newMonsterRig(t, mgl64.Vec3{0, 1, 1})

	for i := 0; i < 3; i++ {
		r.ai.Update(r.w)
	}

	if r.state.Current != "attack" {
		t.Fatalf("state = %q, want attack", r.state.Current)
	}
	if r.player.Current != 90 {
		t.Fatalf("player health = %d, want 90", r.player.Current)
	}

	r.ai.Update(r.w)
	if r.player.Current != 90 {
		t.Fatalf("attack cooldown ignored, player health = %d", r.player.Current)
	}
}

func TestMonsterAI_RespawnsAfterDeath(t *testing.T) {
	r := newMonsterRig(t, mgl64.Vec3{0, 1, 5})
	r.health.Current = 0

	r.ai.Update(r.w)
	if r.state.Current != deadState {
		t.Fatalf("state = %q, want dead", r.state.Current)
	}

	for i := 0; i < 10; i++ {
		r.ai.Update(r.w)
	}

	if r.health.Current != r.health.Max {
		t.Fatalf("health = %d, want reset to %d", r.health.Current, r.health.Max)
	}
	if r.state.Current == deadState {
		t.Fatalf("monster still dead")
	}
	pos := position(t, r.w, r.monster)
	if math.Abs(pos.X()) > r.m.SpawnRange || math.Abs(pos.Z()) > r.m.SpawnRange {
		t.Fatalf("respawned outside spawn range at %v", pos)
	}
}

func TestMonsterAI_ReloadDropsCompiledScripts(t *testing.T) {
	r := newMonsterRig(t, mgl64.Vec3{0, 1, 12})
	r.ai.Update(r.w)
	if len(r.ai.scripts) != 1 {
		t.Fatalf("expected one compiled script, got %d", len(r.ai.scripts))
	}

	r.ai.Reload("scripts/other.tengo")
	if len(r.ai.scripts) != 1 {
		t.Fatalf("reload of another path should keep the script")
	}
	r.ai.Reload("scripts/monster.tengo")
	if len(r.ai.scripts) != 0 {
		t.Fatalf("reload should drop the script")
	}
}

func TestCompileAIScript_Errors(t *testing.T) {
	if _, err := compileAIScript(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := compileAIScript("scripts/missing.tengo"); err == nil {
		t.Fatalf("expected error for missing script")
	}
}
