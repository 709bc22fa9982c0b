package ecs

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Entity encodes both the slot index (lower 32 bits) and the slot generation (upper 32 bits).
// The zero Entity is never handed out and means "no entity".
type Entity uint64

// NewEntity creates an Entity from a slot index and generation
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// IsZero reports whether e is the "no entity" value
func (e Entity) IsZero() bool { return e == 0 }

// String formats the entity as index "v" generation, e.g. "12v3"
func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.Index(), e.Generation())
}

// EntityFactory allocates entity identities from a recycled pool of slot indices.
// Deleting an entity bumps the generation of its slot, so a stale handle never
// compares equal to the entity that later reuses the slot.
type EntityFactory struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
	limit       uint32
	live        *intmap.Set[Entity]
}

// NewEntityFactory creates an empty entity factory
func NewEntityFactory() *EntityFactory {
	return &EntityFactory{
		// slot 0 is reserved so that Entity(0) stays invalid
		generations: make([]uint32, 1, 1024),
		freeList:    make([]uint32, 0, 256),
		nextIndex:   1,
		limit:       math.MaxUint32,
		live:        intmap.NewSet[Entity](256),
	}
}

// Create allocates an identity distinct from every live one.
// Running out of slot indices is unrecoverable and panics with ErrEntitySpaceExhausted.
func (f *EntityFactory) Create() Entity {
	var e Entity
	if len(f.freeList) > 0 {
		idx := f.freeList[len(f.freeList)-1]
		f.freeList = f.freeList[:len(f.freeList)-1]
		e = NewEntity(idx, f.generations[idx])
	} else {
		if f.nextIndex >= f.limit {
			panic(ErrEntitySpaceExhausted)
		}
		idx := f.nextIndex
		f.nextIndex++
		f.generations = append(f.generations, 0)
		e = NewEntity(idx, 0)
	}

	f.live.Add(e)
	return e
}

// Delete releases a live entity. Unknown or stale entities are ignored.
func (f *EntityFactory) Delete(e Entity) {
	if !f.live.Del(e) {
		return
	}

	idx := e.Index()
	if f.generations[idx] == math.MaxUint32 {
		// the next generation would wrap onto old handles; retire the slot
		return
	}
	f.generations[idx]++
	f.freeList = append(f.freeList, idx)
}

// Alive reports whether the entity is currently live
func (f *EntityFactory) Alive(e Entity) bool {
	return f.live.Has(e)
}

// Len returns the number of live entities
func (f *EntityFactory) Len() int {
	return f.live.Len()
}

// Entities iterates over the live entities in no particular order
func (f *EntityFactory) Entities() iter.Seq[Entity] {
	return f.live.All()
}

// Clear forgets every identity, live or recycled
func (f *EntityFactory) Clear() {
	f.generations = f.generations[:1]
	f.freeList = f.freeList[:0]
	f.nextIndex = 1
	f.live.Clear()
}

// Debug dumps the live identities sorted by slot index
func (f *EntityFactory) Debug(log *zap.Logger) {
	entities := slices.SortedFunc(f.live.All(), func(a, b Entity) int {
		return cmp.Compare(a.Index(), b.Index())
	})
	log.Debug("entity factory",
		zap.Int("live", len(entities)),
		zap.Int("recycled", len(f.freeList)),
		zap.Stringers("entities", entities),
	)
}
