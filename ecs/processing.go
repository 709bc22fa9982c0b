package ecs

import "iter"

// Processing is the per-tick behavior plugged into a System.
//
// Every hook receives the registered systems for cross-system lookups and
// returns the entities it wants destroyed. Those entities are only deleted once
// all systems went through all three phases, so they stay readable for the rest
// of the tick. Hooks may mutate fields of components they fetched, but must not
// create or delete components, nor call World.Run, World.Delete or World.Clear.
type Processing interface {
	Preprocess(systems Systems) ([]Entity, error)
	Process(systems Systems) ([]Entity, error)
	Postprocess(systems Systems) ([]Entity, error)
}

// NopProcessing implements every hook as a no-op. Embed it to override only
// the hooks a system needs.
type NopProcessing struct{}

func (NopProcessing) Preprocess(Systems) ([]Entity, error)  { return nil, nil }
func (NopProcessing) Process(Systems) ([]Entity, error)     { return nil, nil }
func (NopProcessing) Postprocess(Systems) ([]Entity, error) { return nil, nil }

// NoProcessing is a processing constructor for systems that only hold data.
func NoProcessing[T any]() func(*ComponentFactory[T]) Processing {
	return func(*ComponentFactory[T]) Processing {
		return NopProcessing{}
	}
}

// HookFunc is the signature shared by the three processing hooks.
type HookFunc func(systems Systems) ([]Entity, error)

// Hooks adapts plain functions to Processing. Nil hooks do nothing.
type Hooks struct {
	PreprocessFunc  HookFunc
	ProcessFunc     HookFunc
	PostprocessFunc HookFunc
}

// Preprocess calls PreprocessFunc when set
func (h Hooks) Preprocess(systems Systems) ([]Entity, error) {
	return h.call(h.PreprocessFunc, systems)
}

// Process calls ProcessFunc when set
func (h Hooks) Process(systems Systems) ([]Entity, error) {
	return h.call(h.ProcessFunc, systems)
}

// Postprocess calls PostprocessFunc when set
func (h Hooks) Postprocess(systems Systems) ([]Entity, error) {
	return h.call(h.PostprocessFunc, systems)
}

func (h Hooks) call(fn HookFunc, systems Systems) ([]Entity, error) {
	if fn == nil {
		return nil, nil
	}
	return fn(systems)
}

// Lookup returns the component factory of the system registered under name,
// provided it stores components of type T.
func Lookup[T any](systems Systems, name string) (*ComponentFactory[T], bool) {
	sys, ok := systems.Get(name)
	if !ok {
		return nil, false
	}
	typed, ok := As[T](sys)
	if !ok {
		return nil, false
	}
	return typed.Components(), true
}

// Join iterates over the components of a together with the component of b
// owned by the same entity. Entities of a without a match in b are skipped.
func Join[A, B any](a *ComponentFactory[A], b *ComponentFactory[B]) iter.Seq2[*A, *B] {
	return func(yield func(*A, *B) bool) {
		for owner, ca := range a.All() {
			cb, ok := b.Get(owner)
			if !ok {
				continue
			}
			if !yield(ca, cb) {
				return
			}
		}
	}
}
