package ecs

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/arena/ecs/component"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name    string
		create  int
		destroy []int
		alive   int
	}{
		{"single", 1, []int{0}, 0},
		{"destroy_middle_projectile", 3, []int{1}, 2},
		{"destroy_none", 2, nil, 2},
		{"destroy_all", 4, []int{3, 0, 2, 1}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e := CreateEntity(w)
				if !e.Valid() {
					t.Fatalf("created invalid entity %v", e)
				}
				ents = append(ents, e)
			}
			for _, i := range c.destroy {
				if !DestroyEntity(w, ents[i]) {
					t.Fatalf("DestroyEntity(%v) should succeed", ents[i])
				}
				if DestroyEntity(w, ents[i]) {
					t.Fatalf("second DestroyEntity(%v) should fail", ents[i])
				}
			}
			if got := len(Entities(w)); got != c.alive {
				t.Fatalf("expected %d live entities, got %d", c.alive, got)
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	kind := component.ProjectileComponent.Kind()

	old := CreateEntity(w)
	if err := Add(w, old, kind, &component.Projectile{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if !DestroyEntity(w, old) {
		t.Fatal("failed to destroy entity")
	}

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v after %v", reused, old)
	}
	if reused == old {
		t.Fatalf("reused entity must carry a new generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if Has(w, reused, kind) {
		t.Fatalf("projectile leaked into reused slot")
	}
	if _, ok := Get(w, old, kind); ok {
		t.Fatalf("Get through stale handle succeeded")
	}
	if err := Add(w, old, kind, &component.Projectile{ID: 2}); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestComponentRoundTrip(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	tests := []struct {
		name  string
		add   func() error
		check func(t *testing.T)
		drop  func() bool
	}{
		{
			name: "transform",
			add: func() error {
				return Add(w, e, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{1, 2, 3}))
			},
			check: func(t *testing.T) {
				tr, ok := Get(w, e, component.TransformComponent.Kind())
				if !ok || tr.Position != (mgl64.Vec3{1, 2, 3}) {
					t.Fatalf("unexpected transform %+v ok=%v", tr, ok)
				}
			},
			drop: func() bool { return Remove(w, e, component.TransformComponent.Kind()) },
		},
		{
			name: "health",
			add:  func() error { return Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: 5, Max: 5}) },
			check: func(t *testing.T) {
				h, ok := Get(w, e, component.HealthComponent.Kind())
				if !ok || h.Current != 5 {
					t.Fatalf("unexpected health %+v ok=%v", h, ok)
				}
			},
			drop: func() bool { return Remove(w, e, component.HealthComponent.Kind()) },
		},
		{
			name: "impact_replaced",
			add: func() error {
				if err := Add(w, e, component.ProjectileImpactComponent.Kind(), &component.ProjectileImpact{Wall: true}); err != nil {
					return err
				}
				return Add(w, e, component.ProjectileImpactComponent.Kind(), &component.ProjectileImpact{Targets: []uint64{7}})
			},
			check: func(t *testing.T) {
				imp, ok := Get(w, e, component.ProjectileImpactComponent.Kind())
				if !ok || imp.Wall || len(imp.Targets) != 1 {
					t.Fatalf("expected the second impact to replace the first, got %+v", imp)
				}
			},
			drop: func() bool { return Remove(w, e, component.ProjectileImpactComponent.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.add(); err != nil {
				t.Fatalf("add failed: %v", err)
			}
			tc.check(t)
			if !tc.drop() {
				t.Fatalf("remove failed")
			}
			if tc.drop() {
				t.Fatalf("second remove should report false")
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	tests := []struct {
		name     string
		err      error
		want     error
		mentions string
	}{
		{"nil_value", Add[component.Health](w, e, component.HealthComponent.Kind(), nil), component.ErrNilComponent, "health"},
		{"zero_kind", Add(w, e, component.ComponentKind[component.Health]{}, &component.Health{}), component.ErrInvalidComponentKind, "component#0"},
		{"nil_world", Add(nil, e, component.LavaComponent.Kind(), &component.Lava{}), component.ErrEntityNotAlive, "lava"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, tt.err)
			}
			if !strings.Contains(tt.err.Error(), tt.mentions) {
				t.Fatalf("expected %q in %q", tt.mentions, tt.err)
			}
		})
	}
}

func TestComponentNames(t *testing.T) {
	if got := component.PhysicsBodyComponent.Name(); got != "physics_body" {
		t.Fatalf("physics body name: got %q", got)
	}
	if got := component.TransformComponent.Kind().String(); got != "transform" {
		t.Fatalf("transform kind string: got %q", got)
	}
	anon := component.NewComponentKind[int]("")
	if !strings.HasPrefix(anon.String(), "component#") {
		t.Fatalf("unnamed kind should fall back to its id, got %q", anon)
	}
}

func TestQueries(t *testing.T) {
	w := NewWorld()
	tr := component.TransformComponent.Kind()
	body := component.PhysicsBodyComponent.Kind()
	shot := component.ProjectileComponent.Kind()

	crate := CreateEntity(w)
	projectile := CreateEntity(w)
	pending := CreateEntity(w)
	_ = Add(w, crate, tr, component.NewTransform(mgl64.Vec3{}))
	_ = Add(w, crate, body, &component.PhysicsBody{Kind: component.BodyCrate})
	_ = Add(w, projectile, tr, component.NewTransform(mgl64.Vec3{}))
	_ = Add(w, projectile, body, &component.PhysicsBody{Kind: component.BodyProjectile})
	_ = Add(w, projectile, shot, &component.Projectile{ID: 1})
	_ = Add(w, pending, shot, &component.Projectile{ID: 2})

	t.Run("query", func(t *testing.T) {
		got := w.Query(tr, body, shot)
		if len(got) != 1 || got[0] != projectile {
			t.Fatalf("expected only the projectile, got %v", got)
		}
		if got := w.Query(); got != nil {
			t.Fatalf("empty query should be nil, got %v", got)
		}
	})

	t.Run("for_each", func(t *testing.T) {
		var ids []uint64
		ForEach(w, shot, func(_ Entity, p *component.Projectile) { ids = append(ids, p.ID) })
		if len(ids) != 2 {
			t.Fatalf("expected 2 projectiles, got %v", ids)
		}
	})

	t.Run("for_each2_mutates", func(t *testing.T) {
		ForEach2(w, shot, body, func(_ Entity, p *component.Projectile, b *component.PhysicsBody) {
			p.State = "in_flight"
			b.Ready = true
		})
		p, _ := Get(w, projectile, shot)
		b, _ := Get(w, projectile, body)
		if p.State != "in_flight" || !b.Ready {
			t.Fatalf("expected mutation through pointers, got %+v %+v", p, b)
		}
		other, _ := Get(w, pending, shot)
		if other.State != "" {
			t.Fatalf("projectile without a body should be untouched, got %+v", other)
		}
	})

	t.Run("for_each3", func(t *testing.T) {
		var res []Entity
		ForEach3(w, tr, body, shot, func(e Entity, _ *component.Transform, _ *component.PhysicsBody, _ *component.Projectile) {
			res = append(res, e)
		})
		if len(res) != 1 || res[0] != projectile {
			t.Fatalf("expected only the projectile, got %v", res)
		}
	})

	t.Run("missing_store", func(t *testing.T) {
		var res []Entity
		ForEach3(w, tr, body, component.LavaComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.PhysicsBody, _ *component.Lava) {
			res = append(res, e)
		})
		if len(res) != 0 {
			t.Fatalf("expected nothing without lava, got %v", res)
		}
	})

	t.Run("first_skips_destroyed", func(t *testing.T) {
		first, ok := w.First(body)
		if !ok || first != crate {
			t.Fatalf("expected crate first, got %v %v", first, ok)
		}
		DestroyEntity(w, crate)
		first, ok = w.First(body)
		if !ok || first != projectile {
			t.Fatalf("expected projectile after crate destroyed, got %v %v", first, ok)
		}
	})
}

func TestForEach_DestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	kind := component.ProjectileComponent.Kind()
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		_ = Add(w, e, kind, &component.Projectile{ID: uint64(i + 1)})
	}

	visited := 0
	ForEach(w, kind, func(e Entity, _ *component.Projectile) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 5 {
		t.Fatalf("expected 5 visits, got %d", visited)
	}
	if len(Entities(w)) != 0 {
		t.Fatalf("expected empty world, got %v", Entities(w))
	}
}

type recordingSystem struct {
	calls *[]string
	name  string
}

func (s recordingSystem) Update(*World) {
	*s.calls = append(*s.calls, s.name)
}

func (s recordingSystem) String() string {
	return s.name
}

type anonymousSystem struct{}

func (anonymousSystem) Update(*World) {}

func TestScheduler(t *testing.T) {
	var calls []string
	s := NewScheduler(recordingSystem{&calls, "input"}, nil, recordingSystem{&calls, "projectile"})
	s.Add(nil)
	s.Add(recordingSystem{&calls, "physics"})
	s.Add(anonymousSystem{})

	s.Update(NewWorld())

	if len(s.Systems()) != 4 {
		t.Fatalf("expected 4 systems, got %d", len(s.Systems()))
	}
	want := []string{"input", "projectile", "physics"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Fatalf("update order: got %v, want %v", calls, want)
	}

	timings := s.Timings()
	if timings[1].Name != "projectile" || timings[3].Name != "ecs.anonymousSystem" {
		t.Fatalf("unexpected timing names %+v", timings)
	}

	s.Profile = true
	s.Update(NewWorld())
	if len(calls) != 6 {
		t.Fatalf("profiled update should still run every system, got %v", calls)
	}
}
