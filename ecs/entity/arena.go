package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

// Arena lists the entities BuildArena created.
type Arena struct {
	Bounds  ecs.Entity
	Player  ecs.Entity
	Monster ecs.Entity
	Camera  ecs.Entity
	Crates  []ecs.Entity
	Lava    []ecs.Entity
}

// LoadArena reads the named arena spec and builds it into w.
func LoadArena(w *ecs.World, name string, rng *rand.Rand) (Arena, error) {
	spec, err := prefabs.LoadArenaSpec(name)
	if err != nil {
		return Arena{}, err
	}
	return BuildArena(w, spec, rng)
}

// BuildArena creates the bounds, scattered crates with a tower, lava pools,
// the player, the monster and the camera.
func BuildArena(w *ecs.World, spec prefabs.ArenaSpec, rng *rand.Rand) (Arena, error) {
	if w == nil {
		return Arena{}, fmt.Errorf("arena: world is nil")
	}
	if spec.Bounds.HalfWidth <= 0 || spec.Bounds.HalfDepth <= 0 {
		return Arena{}, fmt.Errorf("arena: %q has empty bounds", spec.Name)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}

	var arena Arena
	floor := spec.Bounds.FloorY

	arena.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, arena.Bounds, component.ArenaBoundsComponent.Kind(), &component.ArenaBounds{
		HalfWidth:  spec.Bounds.HalfWidth,
		HalfDepth:  spec.Bounds.HalfDepth,
		FloorY:     floor,
		CeilingY:   spec.Bounds.CeilingY,
		KillY:      spec.Bounds.KillY,
		WallHeight: spec.Bounds.WallHeight,
		Margin:     spec.Bounds.Margin,
	}); err != nil {
		return Arena{}, fmt.Errorf("arena: add bounds: %w", err)
	}

	if spec.Crates.Prefab != "" {
		for i := 0; i < spec.Crates.Count; i++ {
			x := randomIn(rng, spec.Crates.Range)
			z := randomIn(rng, spec.Crates.Range)
			crate, err := placeOnFloor(w, spec.Crates.Prefab, x, floor, z, 0)
			if err != nil {
				return Arena{}, err
			}
			arena.Crates = append(arena.Crates, crate)
		}
		for i := 0; i < spec.Crates.TowerHeight; i++ {
			crate, err := placeOnFloor(w, spec.Crates.Prefab, spec.Crates.TowerX, floor, spec.Crates.TowerZ, i)
			if err != nil {
				return Arena{}, err
			}
			arena.Crates = append(arena.Crates, crate)
		}
	}

	for _, placement := range spec.Lava {
		lava, err := place(w, placement, floor)
		if err != nil {
			return Arena{}, err
		}
		arena.Lava = append(arena.Lava, lava)
	}

	if spec.Player.Prefab != "" {
		player, err := place(w, spec.Player, floor)
		if err != nil {
			return Arena{}, err
		}
		if p, ok := ecs.Get(w, player, component.PlayerComponent.Kind()); ok {
			t, _ := ecs.Get(w, player, component.TransformComponent.Kind())
			p.Spawn = t.Position
			p.Yaw = spec.Player.Yaw
			p.SpawnYaw = spec.Player.Yaw
		}
		arena.Player = player
	}

	if spec.Monster.Prefab != "" {
		x := randomIn(rng, spec.Monster.Range)
		monster, err := placeOnFloor(w, spec.Monster.Prefab, x, floor, spec.Monster.Z, 0)
		if err != nil {
			return Arena{}, err
		}
		arena.Monster = monster
	}

	if spec.Camera.Prefab != "" {
		camera, err := BuildEntity(w, spec.Camera.Prefab)
		if err != nil {
			return Arena{}, fmt.Errorf("arena: camera: %w", err)
		}
		if c, ok := ecs.Get(w, camera, component.CameraComponent.Kind()); ok {
			c.X, c.Z = spec.Player.X, spec.Player.Z
		}
		arena.Camera = camera
	}

	return arena, nil
}

// place builds a prefab at an explicit placement lifted by the floor height.
func place(w *ecs.World, p prefabs.PlacementSpec, floor float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, p.Prefab)
	if err != nil {
		return 0, fmt.Errorf("arena: %w", err)
	}
	if err := SetEntityTransform(w, e, p.X, floor+p.Y, p.Z, p.Yaw); err != nil {
		return 0, fmt.Errorf("arena: place %s: %w", p.Prefab, err)
	}
	return e, nil
}

// placeOnFloor builds a prefab resting on the floor, level crates high.
func placeOnFloor(w *ecs.World, prefab string, x, floor, z float64, level int) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefab)
	if err != nil {
		return 0, fmt.Errorf("arena: %w", err)
	}
	halfHeight := 0.5
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		halfHeight = body.HalfHeight()
	}
	y := floor + halfHeight + float64(level)*2*halfHeight
	if err := SetEntityTransform(w, e, x, y, z, 0); err != nil {
		return 0, fmt.Errorf("arena: place %s: %w", prefab, err)
	}
	return e, nil
}

func randomIn(rng *rand.Rand, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * r
}
