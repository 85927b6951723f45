package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	component.PlayerTagComponent.Name():   addPlayerTag,
	component.MonsterTagComponent.Name():  addMonsterTag,
	component.CrateTagComponent.Name():    addCrateTag,
	component.TransformComponent.Name():   addTransform,
	component.PhysicsBodyComponent.Name(): addPhysicsBody,
	component.PlayerComponent.Name():      addPlayer,
	component.InputComponent.Name():       addInput,
	component.HealthComponent.Name():      addHealth,
	component.MonsterComponent.Name():     addMonster,
	component.AIStateComponent.Name():     addAIState,
	component.AIScriptComponent.Name():    addAIScript,
	component.LavaComponent.Name():        addLava,
	component.CameraComponent.Name():      addCamera,
}

// componentBuildOrder runs physics_body last so it sees the final transform.
var componentBuildOrder = []string{
	component.PlayerTagComponent.Name(),
	component.MonsterTagComponent.Name(),
	component.CrateTagComponent.Name(),
	component.TransformComponent.Name(),
	component.PlayerComponent.Name(),
	component.InputComponent.Name(),
	component.HealthComponent.Name(),
	component.MonsterComponent.Name(),
	component.AIStateComponent.Name(),
	component.AIScriptComponent.Name(),
	component.LavaComponent.Name(),
	component.CameraComponent.Name(),
	component.PhysicsBodyComponent.Name(),
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %s", prefabPath, strings.Join(names, ", "))
	}

	return e, nil
}

// SetEntityTransform moves e to (x, y, z) facing yaw, creating the transform
// if the prefab did not define one.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, z, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = component.NewTransform(mgl64.Vec3{})
	}
	t.Position = mgl64.Vec3{x, y, z}
	t.Rotation = component.YawRotation(yaw)
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addMonsterTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.MonsterTagComponent.Kind(), &component.MonsterTag{})
}

func addCrateTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CrateTagComponent.Kind(), &component.CrateTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: mgl64.Vec3{spec.X, spec.Y, spec.Z},
		Rotation: component.YawRotation(spec.Yaw),
		Scale:    scale,
	})
}

func parseBodyKind(kind string) (component.BodyKind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "solid":
		return component.BodySolid, nil
	case "crate":
		return component.BodyCrate, nil
	case "player":
		return component.BodyPlayer, nil
	case "monster":
		return component.BodyMonster, nil
	case "projectile":
		return component.BodyProjectile, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q", kind)
	}
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics_body spec: %w", err)
	}
	kind, err := parseBodyKind(spec.Kind)
	if err != nil {
		return err
	}
	if spec.Radius <= 0 && (spec.Width <= 0 || spec.Depth <= 0) {
		return fmt.Errorf("physics_body in %s needs a radius or width and depth", ctx.PrefabPath)
	}

	gravityScale := 1.0
	if spec.Static {
		gravityScale = 0
	}
	if spec.GravityScale != nil {
		gravityScale = *spec.GravityScale
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Kind:          kind,
		Radius:        spec.Radius,
		Width:         spec.Width,
		Depth:         spec.Depth,
		Height:        spec.Height,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Static:        spec.Static,
		FixedRotation: spec.FixedRotation,
		Undamped:      spec.Undamped,
		GravityScale:  gravityScale,
	})
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	player := &component.Player{
		MaxVelocity:      spec.MaxVelocity,
		SprintMultiplier: spec.SprintMultiplier,
		JumpVelocity:     spec.JumpVelocity,
		TurnSpeed:        spec.TurnSpeed,
		MouseSensitivity: spec.MouseSensitivity,
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		player.Spawn = t.Position
		player.Yaw = t.Yaw()
		player.SpawnYaw = player.Yaw
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), player)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max <= 0 {
		return fmt.Errorf("health max must be positive, got %d", spec.Max)
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: spec.Max, Max: spec.Max})
}

func addMonster(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MonsterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode monster spec: %w", err)
	}
	return ecs.Add(w, e, component.MonsterComponent.Kind(), &component.Monster{
		MoveSpeed:      spec.MoveSpeed,
		ChaseRange:     spec.ChaseRange,
		AttackRange:    spec.AttackRange,
		AttackDamage:   spec.AttackDamage,
		AttackCooldown: spec.AttackCooldown,
		RespawnDelay:   spec.RespawnDelay,
		SpawnRange:     spec.SpawnRange,
	})
}

func addAIState(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AIStateComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ai_state spec: %w", err)
	}
	return ecs.Add(w, e, component.AIStateComponent.Kind(), &component.AIState{Current: spec.Initial})
}

func addAIScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AIScriptComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ai_script spec: %w", err)
	}
	if strings.TrimSpace(spec.Path) == "" {
		return fmt.Errorf("ai_script path is empty")
	}
	if _, err := prefabs.LoadScript(spec.Path); err != nil {
		return fmt.Errorf("ai_script %q: %w", spec.Path, err)
	}
	return ecs.Add(w, e, component.AIScriptComponent.Kind(), &component.AIScript{Path: spec.Path})
}

func addLava(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.LavaComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode lava spec: %w", err)
	}
	return ecs.Add(w, e, component.LavaComponent.Kind(), &component.Lava{
		Radius:          spec.Radius,
		DamagePerSecond: spec.DamagePerSecond,
	})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 28
	}
	smooth := spec.Smoothness
	if smooth <= 0 {
		smooth = 6
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{Zoom: zoom, Smoothness: smooth})
}
