package ecs

import "github.com/milk9111/arena/ecs/component"

// KindID is satisfied by every component.ComponentKind regardless of its
// value type, so queries can mix kinds.
type KindID interface {
	ID() component.ComponentID
}

// World owns entities and their component storage.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) addComponent(e Entity, id component.ComponentID, value any) error {
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(id, true).Set(e, value)
	return nil
}

func (w *World) getComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	s := w.store(id, false)
	if s == nil {
		return nil, false
	}
	v := s.Get(e)
	return v, v != nil
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	s := w.store(id, false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

// Package-level forms of the lifecycle methods.

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}
