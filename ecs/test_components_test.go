package ecs_test

import "github.com/plus3/minecs/ecs"

// Common test component types
type Position struct {
	ecs.Base
	X, Y float32
}

func NewPosition(e ecs.Entity) Position {
	return Position{Base: ecs.NewBase(e)}
}

type Velocity struct {
	ecs.Base
	DX, DY float32
}

func NewVelocity(e ecs.Entity) Velocity {
	return Velocity{Base: ecs.NewBase(e)}
}

type Health struct {
	ecs.Base
	Current int
	Max     int
}

func NewHealth(e ecs.Entity) Health {
	return Health{Base: ecs.NewBase(e), Current: 100, Max: 100}
}

// Components without a Base are fine too
type Score int32

func NewScore(ecs.Entity) Score { return 0 }

// tracer records hook calls across systems
type tracer struct {
	calls []string
}

func (tr *tracer) hooks(name string) ecs.Hooks {
	record := func(hook string) ecs.HookFunc {
		return func(ecs.Systems) ([]ecs.Entity, error) {
			tr.calls = append(tr.calls, name+"."+hook)
			return nil, nil
		}
	}
	return ecs.Hooks{
		PreprocessFunc:  record("preprocess"),
		ProcessFunc:     record("process"),
		PostprocessFunc: record("postprocess"),
	}
}

func processing[T any](p ecs.Processing) func(*ecs.ComponentFactory[T]) ecs.Processing {
	return func(*ecs.ComponentFactory[T]) ecs.Processing {
		return p
	}
}

func marks(entities ...ecs.Entity) ecs.HookFunc {
	return func(ecs.Systems) ([]ecs.Entity, error) {
		return entities, nil
	}
}
