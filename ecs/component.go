package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Component is implemented by component types that know their owning entity.
// Embedding Base is the usual way to satisfy it.
type Component interface {
	Owner() Entity
}

// Base carries the owning entity of a component. It is set once at
// construction and never changes.
type Base struct {
	owner Entity
}

// NewBase binds a component base to its owning entity
func NewBase(e Entity) Base {
	return Base{owner: e}
}

// Owner returns the entity the component belongs to
func (b Base) Owner() Entity {
	return b.owner
}

const (
	componentBlockSize = 64
)

// ComponentFactory stores at most one component of type T per entity.
// Components live in fixed-size blocks so the pointers handed out by Create
// and Get stay valid until the component is deleted.
type ComponentFactory[T any] struct {
	newComponent func(Entity) T

	blocks    []*[componentBlockSize]T
	owners    []*[componentBlockSize]Entity
	freeSlots []int
	nextSlot  int
	index     *intmap.Map[Entity, int]
}

// NewComponentFactory creates a factory building components with newComponent.
func NewComponentFactory[T any](newComponent func(Entity) T) *ComponentFactory[T] {
	if newComponent == nil {
		panic("component constructor is required")
	}
	return &ComponentFactory[T]{
		newComponent: newComponent,
		index:        intmap.New[Entity, int](64),
	}
}

// Create builds a new component bound to e and returns a pointer to it.
// An existing component for e is replaced in place.
func (cf *ComponentFactory[T]) Create(e Entity) *T {
	// built first so a panicking constructor leaves the factory untouched
	c := cf.newComponent(e)

	if slot, ok := cf.index.Get(e); ok {
		ptr := cf.at(slot)
		*ptr = c
		return ptr
	}

	slot := cf.allocate()
	cf.owners[slot/componentBlockSize][slot%componentBlockSize] = e
	cf.index.Put(e, slot)

	ptr := cf.at(slot)
	*ptr = c
	return ptr
}

func (cf *ComponentFactory[T]) allocate() int {
	if len(cf.freeSlots) > 0 {
		slot := cf.freeSlots[len(cf.freeSlots)-1]
		cf.freeSlots = cf.freeSlots[:len(cf.freeSlots)-1]
		return slot
	}

	slot := cf.nextSlot
	cf.nextSlot++
	if slot/componentBlockSize >= len(cf.blocks) {
		cf.blocks = append(cf.blocks, new([componentBlockSize]T))
		cf.owners = append(cf.owners, new([componentBlockSize]Entity))
	}
	return slot
}

func (cf *ComponentFactory[T]) at(slot int) *T {
	return &cf.blocks[slot/componentBlockSize][slot%componentBlockSize]
}

// Delete removes the component of e. Missing components are ignored.
func (cf *ComponentFactory[T]) Delete(e Entity) {
	slot, ok := cf.index.Get(e)
	if !ok {
		return
	}
	cf.index.Del(e)

	var zero T
	*cf.at(slot) = zero // release references held by the component
	cf.owners[slot/componentBlockSize][slot%componentBlockSize] = 0
	cf.freeSlots = append(cf.freeSlots, slot)
}

// Get returns the component of e, if any. It never creates one.
func (cf *ComponentFactory[T]) Get(e Entity) (*T, bool) {
	slot, ok := cf.index.Get(e)
	if !ok {
		return nil, false
	}
	return cf.at(slot), true
}

// Has reports whether e owns a component in this factory
func (cf *ComponentFactory[T]) Has(e Entity) bool {
	return cf.index.Has(e)
}

// Len returns the number of stored components
func (cf *ComponentFactory[T]) Len() int {
	return cf.index.Len()
}

// All iterates over the stored components and their owners in slot order.
// Slots are handed out in insertion order and freed slots are reused last-in
// first-out, so the order matches insertion order only until a deletion happens.
// The factory must not be structurally modified while iterating.
func (cf *ComponentFactory[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for slot := 0; slot < cf.nextSlot; slot++ {
			owner := cf.owners[slot/componentBlockSize][slot%componentBlockSize]
			if owner == 0 {
				continue
			}
			if !yield(owner, cf.at(slot)) {
				return
			}
		}
	}
}

// Clear drops every component
func (cf *ComponentFactory[T]) Clear() {
	cf.blocks = nil
	cf.owners = nil
	cf.freeSlots = nil
	cf.nextSlot = 0
	cf.index.Clear()
}

// Debug dumps every stored component
func (cf *ComponentFactory[T]) Debug(log *zap.Logger) {
	log = log.With(zap.Stringer("type", reflect.TypeFor[T]()))
	log.Debug("component factory", zap.Int("count", cf.Len()))
	for owner, c := range cf.All() {
		log.Debug("component", zap.Stringer("entity", owner), zap.Any("value", c))
	}
}
