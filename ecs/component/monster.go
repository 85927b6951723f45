package component

import "github.com/go-gl/mathgl/mgl64"

type Monster struct {
	MoveSpeed      float64
	ChaseRange     float64
	AttackRange    float64
	AttackDamage   int
	AttackCooldown float64
	RespawnDelay   float64
	SpawnRange     float64

	Cooldown     float64
	RespawnTimer float64
	Desired      mgl64.Vec3
	Yaw          float64
}

var MonsterComponent = NewComponent[Monster]("monster")

type MonsterTag struct{}

var MonsterTagComponent = NewComponent[MonsterTag]("monster_tag")

// AIState is the current state name of a scripted FSM.
type AIState struct {
	Current string
	Elapsed float64
}

var AIStateComponent = NewComponent[AIState]("ai_state")

// AIScript names the tengo script driving an entity.
type AIScript struct {
	Path string
}

var AIScriptComponent = NewComponent[AIScript]("ai_script")
