package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Scale float64 `yaml:"scale"`
}

type PhysicsBodyComponentSpec struct {
	Kind          string   `yaml:"kind"`
	Radius        float64  `yaml:"radius"`
	Width         float64  `yaml:"width"`
	Depth         float64  `yaml:"depth"`
	Height        float64  `yaml:"height"`
	Mass          float64  `yaml:"mass"`
	Friction      float64  `yaml:"friction"`
	Elasticity    float64  `yaml:"elasticity"`
	Static        bool     `yaml:"static"`
	FixedRotation bool     `yaml:"fixed_rotation"`
	Undamped      bool     `yaml:"undamped"`
	GravityScale  *float64 `yaml:"gravity_scale"`
}

type PlayerComponentSpec struct {
	MaxVelocity      float64 `yaml:"max_velocity"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	JumpVelocity     float64 `yaml:"jump_velocity"`
	TurnSpeed        float64 `yaml:"turn_speed"`
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
}

type HealthComponentSpec struct {
	Max int `yaml:"max"`
}

type MonsterComponentSpec struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	ChaseRange     float64 `yaml:"chase_range"`
	AttackRange    float64 `yaml:"attack_range"`
	AttackDamage   int     `yaml:"attack_damage"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	RespawnDelay   float64 `yaml:"respawn_delay"`
	SpawnRange     float64 `yaml:"spawn_range"`
}

type AIStateComponentSpec struct {
	Initial string `yaml:"initial"`
}

type AIScriptComponentSpec struct {
	Path string `yaml:"path"`
}

type LavaComponentSpec struct {
	Radius          float64 `yaml:"radius"`
	DamagePerSecond float64 `yaml:"damage_per_second"`
}

type CameraComponentSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}
