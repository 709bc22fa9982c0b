package ecs

import (
	"context"
	"reflect"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Phase is the state of the tick pipeline.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreprocess
	PhaseProcess
	PhasePostprocess
	PhaseDeletion
)

var tickPhases = [...]Phase{PhasePreprocess, PhaseProcess, PhasePostprocess}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreprocess:
		return "preprocess"
	case PhaseProcess:
		return "process"
	case PhasePostprocess:
		return "postprocess"
	case PhaseDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for registration, tick failures and Debug.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// World owns the entities and the named systems, runs the tick pipeline and
// keeps components consistent when entities are deleted.
//
// A World is not safe for concurrent use. Everything runs on the calling
// goroutine; processing hooks must not call back into Run, Delete, Clear or
// register systems.
type World struct {
	entities *EntityFactory
	live     []Entity
	systems  *registry
	stats    []*systemStatsInternal
	pending  *deletionQueue
	phase    Phase
	log      *zap.Logger

	ticks       int64
	failedTicks int64
	deleted     int64
}

// NewWorld creates an empty world
func NewWorld(opts ...Option) *World {
	w := &World{
		entities: NewEntityFactory(),
		live:     make([]Entity, 0, 64),
		systems:  newRegistry(),
		pending:  newDeletionQueue(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CreateEntity allocates a new entity and tracks it as live
func (w *World) CreateEntity() Entity {
	e := w.entities.Create()
	w.live = append(w.live, e)
	return e
}

// Entities returns the live entities in creation order
func (w *World) Entities() []Entity {
	return slices.Clone(w.live)
}

// Alive reports whether e is a live entity of this world
func (w *World) Alive(e Entity) bool {
	return w.entities.Alive(e)
}

// Systems returns a read-only view of the registered systems
func (w *World) Systems() Systems {
	return Systems{r: w.systems}
}

// Phase reports where the tick pipeline currently is
func (w *World) Phase() Phase {
	return w.phase
}

// System returns the system registered under name. When name is unknown, the
// first Definition is used to build and register it; without a complete
// Definition the lookup fails with ErrSystemNotFound. Registration is final:
// definitions passed for an existing name are ignored.
func (w *World) System(name string, def ...Definition) (System, error) {
	if sys, ok := w.systems.byName[name]; ok {
		return sys, nil
	}

	if len(def) == 0 || def[0] == nil || !def[0].complete() {
		return nil, eris.Wrapf(ErrSystemNotFound, "system %q", name)
	}
	w.mustBeIdle("register a system")

	sys := def[0].build(name)
	w.systems.add(sys)
	w.stats = append(w.stats, newSystemStats())

	w.log.Debug("system registered",
		zap.String("system", name),
		zap.Stringer("component", sys.ComponentType()),
	)
	return sys, nil
}

// MustSystem is like System but panics on failure
func (w *World) MustSystem(name string, def ...Definition) System {
	sys, err := w.System(name, def...)
	if err != nil {
		panic(err)
	}
	return sys
}

// Register returns the system of T components registered under name,
// registering it first if needed.
func Register[T any](
	w *World,
	name string,
	newComponent func(Entity) T,
	newProcessing func(*ComponentFactory[T]) Processing,
) (*TypedSystem[T], error) {
	sys, err := w.System(name, Define(newComponent, newProcessing))
	if err != nil {
		return nil, err
	}
	return typed[T](sys)
}

// SystemOf looks up an already registered system of T components.
func SystemOf[T any](w *World, name string) (*TypedSystem[T], error) {
	sys, err := w.System(name)
	if err != nil {
		return nil, err
	}
	return typed[T](sys)
}

func typed[T any](sys System) (*TypedSystem[T], error) {
	ts, ok := As[T](sys)
	if !ok {
		return nil, eris.Wrapf(ErrSystemTypeMismatch, "system %q stores %s, not %s",
			sys.Name(), sys.ComponentType(), reflect.TypeFor[T]())
	}
	return ts, nil
}

// Delete removes e and its components from every system, then releases its
// identity. Deleting an entity that is not live is a no-op.
func (w *World) Delete(e Entity) {
	w.mustBeIdle("delete an entity")
	w.delete(e)
}

func (w *World) delete(e Entity) {
	for _, sys := range w.systems.order {
		sys.Delete(e)
	}
	w.entities.Delete(e)

	if i := slices.Index(w.live, e); i >= 0 {
		w.live = slices.Delete(w.live, i, i+1)
	}
}

// Run executes one tick: every system preprocesses, then every system
// processes, then every system postprocesses, each phase in registration order.
// Entities returned by the hooks are deleted once, after the last phase.
//
// A hook error aborts the tick immediately. Mutations already made by earlier
// hooks are kept and the pending deletions are dropped.
func (w *World) Run() error {
	if w.phase != PhaseIdle {
		return ErrReentrantRun
	}
	defer func() {
		w.phase = PhaseIdle
		w.pending.Reset()
	}()

	w.ticks++
	view := w.Systems()

	for _, phase := range tickPhases {
		w.phase = phase
		for i, sys := range w.systems.order {
			start := time.Now()
			marked, err := sys.run(phase, view)
			w.stats[i].record(phase, time.Since(start))

			if err != nil {
				w.failedTicks++
				w.log.Warn("tick aborted",
					zap.Int64("tick", w.ticks),
					zap.String("system", sys.Name()),
					zap.Stringer("phase", phase),
					zap.Error(err),
				)
				return eris.Wrapf(err, "system %q %s failed", sys.Name(), phase)
			}
			w.pending.Push(marked...)
		}
	}

	w.phase = PhaseDeletion
	w.pending.Flush(func(e Entity) {
		if w.entities.Alive(e) {
			w.deleted++
		}
		w.delete(e)
	})
	return nil
}

// Loop runs a tick every interval until the context is cancelled or a tick
// fails. It blocks the calling goroutine. The interval must be positive.
func (w *World) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return eris.Wrapf(ErrInvalidInterval, "interval %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Run(); err != nil {
				return err
			}
		}
	}
}

// Clear deletes every live entity and its components. Systems stay registered.
func (w *World) Clear() {
	w.mustBeIdle("clear the world")
	for len(w.live) > 0 {
		w.delete(w.live[0])
	}
}

// Close tears the world down: every entity is deleted and every system is
// unregistered.
func (w *World) Close() {
	w.Clear()
	for _, sys := range w.systems.order {
		sys.Clear()
	}
	w.systems = newRegistry()
	w.stats = nil
	w.entities.Clear()
}

// Debug dumps the entity factory, then every system in registration order
func (w *World) Debug() {
	w.entities.Debug(w.log)
	for _, sys := range w.systems.order {
		sys.Debug(w.log)
	}
}

func (w *World) mustBeIdle(action string) {
	if w.phase != PhaseIdle {
		panic("ecs: cannot " + action + " during the " + w.phase.String() + " phase")
	}
}
