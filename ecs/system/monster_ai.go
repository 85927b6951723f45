package system

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const (
	deadState           = "dead"
	monsterSpawnClear   = 4.0
	monsterSpawnTries   = 8
	playerHitIframes    = 0.5
	monsterAcceleration = 8.0
)

// MonsterAISystem runs each monster's tengo script and handles death and
// respawn.
type MonsterAISystem struct {
	physics *PhysicsSystem
	rng     *rand.Rand
	scripts map[ecs.Entity]*aiScriptRuntime
}

func NewMonsterAISystem(physics *PhysicsSystem, rng *rand.Rand) *MonsterAISystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &MonsterAISystem{
		physics: physics,
		rng:     rng,
		scripts: make(map[ecs.Entity]*aiScriptRuntime),
	}
}

// Reload drops compiled scripts loaded from path so they recompile on the
// next tick. An empty path drops everything.
func (s *MonsterAISystem) Reload(path string) {
	for e, rt := range s.scripts {
		if path == "" || rt.scriptPath == path {
			delete(s.scripts, e)
		}
	}
}

func (s *MonsterAISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.scripts {
		if !w.IsAlive(e) {
			delete(s.scripts, e)
		}
	}

	playerX, playerZ, hasPlayer := 0.0, 0.0, false
	var playerHealth *component.Health
	if player, ok := w.First(component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			playerX, playerZ, hasPlayer = t.Position.X(), t.Position.Z(), true
		}
		playerHealth, _ = ecs.Get(w, player, component.HealthComponent.Kind())
	}

	entities := w.Query(
		component.MonsterTagComponent.Kind(),
		component.MonsterComponent.Kind(),
		component.TransformComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
		component.AIStateComponent.Kind(),
	)
	for _, e := range entities {
		monster, _ := ecs.Get(w, e, component.MonsterComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		state, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
		health, hasHealth := ecs.Get(w, e, component.HealthComponent.Kind())
		if monster == nil || transform == nil || bodyComp == nil || state == nil {
			continue
		}

		if monster.Cooldown > 0 {
			monster.Cooldown -= common.DeltaTime
		}
		state.Elapsed += common.DeltaTime

		if hasHealth && health.Dead() {
			s.updateDead(w, e, monster, transform, health, state, playerX, playerZ, hasPlayer)
			s.applyMovement(bodyComp, monster)
			continue
		}

		scriptComp, ok := ecs.Get(w, e, component.AIScriptComponent.Kind())
		if !ok {
			continue
		}
		rt, err := s.runtime(e, scriptComp.Path)
		if err != nil {
			log.Printf("ai: entity=%v load script %q: %v", e, scriptComp.Path, err)
			continue
		}

		pos := transform.Position
		ctx := &monsterContext{
			position: func() (float64, float64) { return pos.X(), pos.Z() },
			player: func() (float64, float64, bool) {
				return playerX, playerZ, hasPlayer
			},
			moveToward: func(x, z float64) {
				dx, dz := x-pos.X(), z-pos.Z()
				d := math.Hypot(dx, dz)
				if d < 1e-6 {
					monster.Desired = monster.Desired.Mul(0)
					return
				}
				monster.Desired[0] = dx / d * monster.MoveSpeed
				monster.Desired[2] = dz / d * monster.MoveSpeed
				monster.Yaw = math.Atan2(dx, dz)
			},
			stop: func() {
				monster.Desired = monster.Desired.Mul(0)
			},
			attack: func() bool {
				if !hasPlayer || monster.Cooldown > 0 {
					return false
				}
				if math.Hypot(playerX-pos.X(), playerZ-pos.Z()) > monster.AttackRange {
					return false
				}
				monster.Cooldown = monster.AttackCooldown
				if playerHealth != nil && playerHealth.Damage(monster.AttackDamage, playerHitIframes) && common.Debug {
					log.Printf("ai: monster=%v hit player health=%d/%d", e, playerHealth.Current, playerHealth.Max)
				}
				return true
			},
			elapsed:     state.Elapsed,
			chaseRange:  monster.ChaseRange,
			attackRange: monster.AttackRange,
			moveSpeed:   monster.MoveSpeed,
		}
		if hasHealth {
			ctx.currentHealth = health.Current
		}

		prev := state.Current
		next, err := rt.step(prev, ctx)
		if err != nil {
			log.Printf("ai: entity=%v script %s: %v", e, prev, err)
		}
		if next != prev {
			if common.Debug {
				log.Printf("ai: entity=%v %s -> %s", e, prev, next)
			}
			state.Current = next
			state.Elapsed = 0
		}

		s.applyMovement(bodyComp, monster)
	}
}

func (s *MonsterAISystem) runtime(e ecs.Entity, path string) (*aiScriptRuntime, error) {
	if rt, ok := s.scripts[e]; ok && rt.scriptPath == path {
		return rt, nil
	}
	rt, err := compileAIScript(path)
	if err != nil {
		return nil, err
	}
	s.scripts[e] = rt
	return rt, nil
}

func (s *MonsterAISystem) updateDead(w *ecs.World, e ecs.Entity, monster *component.Monster, transform *component.Transform, health *component.Health, state *component.AIState, playerX, playerZ float64, hasPlayer bool) {
	monster.Desired = monster.Desired.Mul(0)
	if state.Current != deadState {
		state.Current = deadState
		state.Elapsed = 0
		monster.RespawnTimer = monster.RespawnDelay
		log.Printf("ai: monster=%v down, respawning in %.1fs", e, monster.RespawnDelay)
		return
	}

	monster.RespawnTimer -= common.DeltaTime
	if monster.RespawnTimer > 0 {
		return
	}

	x, z := s.spawnPoint(monster.SpawnRange, playerX, playerZ, hasPlayer)
	if s.physics != nil {
		s.physics.Teleport(w, e, x, transform.Position.Y(), z)
	} else {
		transform.Position[0], transform.Position[2] = x, z
	}
	health.Reset()
	state.Current = ""
	state.Elapsed = 0
	delete(s.scripts, e)
	if common.Debug {
		log.Printf("ai: monster=%v respawned at (%.2f, %.2f)", e, x, z)
	}
}

// spawnPoint picks a random point within ±spawnRange, preferring points away
// from the player.
func (s *MonsterAISystem) spawnPoint(spawnRange, playerX, playerZ float64, hasPlayer bool) (float64, float64) {
	var x, z float64
	for i := 0; i < monsterSpawnTries; i++ {
		x = (s.rng.Float64()*2 - 1) * spawnRange
		z = (s.rng.Float64()*2 - 1) * spawnRange
		if !hasPlayer || math.Hypot(x-playerX, z-playerZ) >= monsterSpawnClear {
			break
		}
	}
	return x, z
}

func (s *MonsterAISystem) applyMovement(bodyComp *component.PhysicsBody, monster *component.Monster) {
	if bodyComp.Body == nil {
		return
	}
	t := monsterAcceleration * common.DeltaTime
	vel := bodyComp.Body.Velocity()
	bodyComp.Body.SetVelocityVector(cp.Vector{
		X: common.Lerp(vel.X, monster.Desired.X(), t),
		Y: common.Lerp(vel.Y, monster.Desired.Z(), t),
	})
	bodyComp.Body.SetAngle(-monster.Yaw)
	bodyComp.Body.SetAngularVelocity(0)
}
