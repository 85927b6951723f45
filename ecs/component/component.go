package component

import (
	"errors"
	"strconv"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind identifies one registered component type. The name is the
// prefab key the entity builder reads it from.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any](name string) ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1)), name: name}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

func (k ComponentKind[T]) Name() string {
	return k.name
}

func (k ComponentKind[T]) String() string {
	if k.name != "" {
		return k.name
	}
	return "component#" + strconv.FormatUint(uint64(k.id), 10)
}

// ComponentHandle is the package-level registration of a component type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T](name)}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

// Name is the prefab key of the component.
func (h ComponentHandle[T]) Name() string {
	return h.kind.name
}
