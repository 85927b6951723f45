package ecs

import (
	"fmt"

	"github.com/milk9111/arena/ecs/component"
)

// Add stores value on e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return fmt.Errorf("add %s to %v: %w", kind, e, component.ErrNilComponent)
	}
	if w == nil {
		return fmt.Errorf("add %s to %v: %w", kind, e, component.ErrEntityNotAlive)
	}
	if err := w.addComponent(e, kind.ID(), value); err != nil {
		return fmt.Errorf("add %s to %v: %w", kind, e, err)
	}
	return nil
}

// Remove deletes the component of the given kind from e.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	return w.removeComponent(e, kind.ID())
}

// Has reports whether e carries a component of the given kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	_, ok := w.getComponent(e, kind.ID())
	return ok
}

// Get returns the stored pointer, so callers may mutate it in place.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil {
		return nil, false
	}
	value, ok := w.getComponent(e, kind.ID())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok || cast == nil {
		return nil, false
	}
	return cast, true
}

// ForEach calls fn for every live entity carrying kind. The entity list is
// copied first so fn may create or destroy entities.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	for _, e := range w.Query(kind) {
		v, ok := Get(w, e, kind)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}
