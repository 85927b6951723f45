package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

// newArenaWorld returns a world with a square arena of the given half size.
func newArenaWorld(t *testing.T, half float64) (*ecs.World, *component.ArenaBounds) {
	t.Helper()
	w := ecs.NewWorld()
	bounds := &component.ArenaBounds{
		HalfWidth:  half,
		HalfDepth:  half,
		FloorY:     0,
		CeilingY:   20,
		KillY:      -5,
		WallHeight: 3,
		Margin:     1,
	}
	mustAdd(t, w, w.CreateEntity(), component.ArenaBoundsComponent.Kind(), bounds)
	return w, bounds
}

func addBody(t *testing.T, w *ecs.World, pos mgl64.Vec3, body *component.PhysicsBody) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, w, e, component.TransformComponent.Kind(), component.NewTransform(pos))
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), body)
	return e
}

func crateBody() *component.PhysicsBody {
	return &component.PhysicsBody{Kind: component.BodyCrate, Width: 1, Depth: 1, Height: 1, Mass: 1, GravityScale: 1}
}

func projectileBody() *component.PhysicsBody {
	return &component.PhysicsBody{Kind: component.BodyProjectile, Radius: 0.025, Mass: 0.05, Undamped: true}
}

func monsterBody() *component.PhysicsBody {
	return &component.PhysicsBody{Kind: component.BodyMonster, Radius: 0.5, Height: 2, Mass: 4, FixedRotation: true, Undamped: true, GravityScale: 1}
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) mgl64.Vec3 {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	return tr.Position
}

func near(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}
