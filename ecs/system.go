package ecs

import (
	"iter"
	"reflect"

	"go.uber.org/zap"
)

// System binds one component type to one Processing. This is the type-erased
// handle kept in the world registry; use As or Register for typed access.
type System interface {
	Name() string
	ComponentType() reflect.Type
	Has(e Entity) bool
	Delete(e Entity)
	Len() int
	Clear()
	Debug(log *zap.Logger)

	run(phase Phase, systems Systems) ([]Entity, error)
}

// TypedSystem is a System storing components of type T.
type TypedSystem[T any] struct {
	name       string
	components *ComponentFactory[T]
	processing Processing
}

// NewSystem builds a system outside of any world. The processing is constructed
// with the system's own component factory.
func NewSystem[T any](
	name string,
	newComponent func(Entity) T,
	newProcessing func(*ComponentFactory[T]) Processing,
) *TypedSystem[T] {
	components := NewComponentFactory(newComponent)
	return &TypedSystem[T]{
		name:       name,
		components: components,
		processing: newProcessing(components),
	}
}

// Name returns the registry key of the system
func (s *TypedSystem[T]) Name() string { return s.name }

// ComponentType returns the type of the stored components
func (s *TypedSystem[T]) ComponentType() reflect.Type { return reflect.TypeFor[T]() }

// Components exposes the component factory for cross-system lookups
func (s *TypedSystem[T]) Components() *ComponentFactory[T] { return s.components }

// Processing returns the per-tick behavior of the system
func (s *TypedSystem[T]) Processing() Processing { return s.processing }

// Create builds the component of e, replacing any existing one
func (s *TypedSystem[T]) Create(e Entity) *T { return s.components.Create(e) }

// Get returns the component of e, if any
func (s *TypedSystem[T]) Get(e Entity) (*T, bool) { return s.components.Get(e) }

// Has reports whether e owns a component in this system
func (s *TypedSystem[T]) Has(e Entity) bool { return s.components.Has(e) }

// Delete removes the component of e. Missing components are ignored.
func (s *TypedSystem[T]) Delete(e Entity) { s.components.Delete(e) }

// Len returns the number of stored components
func (s *TypedSystem[T]) Len() int { return s.components.Len() }

// Clear drops every component of the system
func (s *TypedSystem[T]) Clear() { s.components.Clear() }

// Debug dumps the stored components tagged with the system name
func (s *TypedSystem[T]) Debug(log *zap.Logger) {
	s.components.Debug(log.With(zap.String("system", s.name)))
}

// Preprocess runs the preprocess hook and returns the entities it marked
func (s *TypedSystem[T]) Preprocess(systems Systems) ([]Entity, error) {
	return s.processing.Preprocess(systems)
}

// Process runs the process hook and returns the entities it marked
func (s *TypedSystem[T]) Process(systems Systems) ([]Entity, error) {
	return s.processing.Process(systems)
}

// Postprocess runs the postprocess hook and returns the entities it marked
func (s *TypedSystem[T]) Postprocess(systems Systems) ([]Entity, error) {
	return s.processing.Postprocess(systems)
}

func (s *TypedSystem[T]) run(phase Phase, systems Systems) ([]Entity, error) {
	switch phase {
	case PhasePreprocess:
		return s.Preprocess(systems)
	case PhaseProcess:
		return s.Process(systems)
	case PhasePostprocess:
		return s.Postprocess(systems)
	default:
		return nil, nil
	}
}

// As returns the typed view of sys when it stores components of type T.
func As[T any](sys System) (*TypedSystem[T], bool) {
	typed, ok := sys.(*TypedSystem[T])
	return typed, ok
}

// Definition carries what the world needs to build a system on first
// registration. Create one with Define.
type Definition interface {
	complete() bool
	build(name string) System
}

type definition[T any] struct {
	newComponent  func(Entity) T
	newProcessing func(*ComponentFactory[T]) Processing
}

// Define describes a system storing T components processed by the Processing
// returned from newProcessing. Both constructors are required; a definition
// missing either of them cannot create a system.
func Define[T any](newComponent func(Entity) T, newProcessing func(*ComponentFactory[T]) Processing) Definition {
	return definition[T]{
		newComponent:  newComponent,
		newProcessing: newProcessing,
	}
}

func (d definition[T]) complete() bool {
	return d.newComponent != nil && d.newProcessing != nil
}

func (d definition[T]) build(name string) System {
	return NewSystem(name, d.newComponent, d.newProcessing)
}

type registry struct {
	order  []System
	byName map[string]System
}

func newRegistry() *registry {
	return &registry{
		order:  make([]System, 0),
		byName: make(map[string]System),
	}
}

func (r *registry) add(sys System) {
	r.order = append(r.order, sys)
	r.byName[sys.Name()] = sys
}

// Systems is a read-only view of the systems registered in a world, in
// registration order. The zero value is an empty view.
type Systems struct {
	r *registry
}

// Get returns the system registered under name
func (s Systems) Get(name string) (System, bool) {
	if s.r == nil {
		return nil, false
	}
	sys, ok := s.r.byName[name]
	return sys, ok
}

// Names returns the registered names in registration order
func (s Systems) Names() []string {
	if s.r == nil {
		return nil
	}
	names := make([]string, len(s.r.order))
	for i, sys := range s.r.order {
		names[i] = sys.Name()
	}
	return names
}

// Len returns the number of registered systems
func (s Systems) Len() int {
	if s.r == nil {
		return 0
	}
	return len(s.r.order)
}

// All iterates over the systems in registration order
func (s Systems) All() iter.Seq2[string, System] {
	return func(yield func(string, System) bool) {
		if s.r == nil {
			return
		}
		for _, sys := range s.r.order {
			if !yield(sys.Name(), sys) {
				return
			}
		}
	}
}
