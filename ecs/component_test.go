package ecs_test

import (
	"testing"

	"github.com/plus3/minecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestComponentFactoryCreate(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	e := ecs.NewEntity(1, 0)

	pos := positions.Create(e)
	require.NotNil(t, pos)
	assert.Equal(t, e, pos.Owner())
	assert.Equal(t, float32(0), pos.X)
	assert.Equal(t, float32(0), pos.Y)

	pos.X = 3
	got, ok := positions.Get(e)
	require.True(t, ok)
	assert.Same(t, pos, got)
	assert.Equal(t, float32(3), got.X)
	assert.Equal(t, 1, positions.Len())
}

func TestComponentFactoryCreateReplaces(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	e := ecs.NewEntity(1, 0)

	first := positions.Create(e)
	first.X = 10

	second := positions.Create(e)
	assert.Equal(t, float32(0), second.X, "last write wins")
	assert.Equal(t, 1, positions.Len())

	got, _ := positions.Get(e)
	assert.Equal(t, float32(0), got.X)
}

func TestComponentFactoryGetMissing(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)

	got, ok := positions.Get(ecs.NewEntity(1, 0))
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, positions.Len(), "Get never creates")
}

func TestComponentFactoryDelete(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	a := ecs.NewEntity(1, 0)
	b := ecs.NewEntity(2, 0)

	positions.Create(a)
	positions.Create(b).X = 2

	positions.Delete(a)
	assert.False(t, positions.Has(a))
	assert.True(t, positions.Has(b))
	assert.Equal(t, 1, positions.Len())

	// missing components are ignored
	positions.Delete(a)
	positions.Delete(ecs.NewEntity(3, 0))
	assert.Equal(t, 1, positions.Len())

	got, ok := positions.Get(b)
	require.True(t, ok)
	assert.Equal(t, float32(2), got.X)
}

func TestComponentFactoryGenerationsAreDistinct(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	old := ecs.NewEntity(1, 0)
	reused := ecs.NewEntity(1, 1)

	positions.Create(reused)
	positions.Delete(old)

	assert.True(t, positions.Has(reused), "a stale handle does not delete the component of the new entity")
}

func TestComponentFactoryAll(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)

	entities := make([]ecs.Entity, 0)
	for i := uint32(1); i <= 5; i++ {
		e := ecs.NewEntity(i, 0)
		positions.Create(e).X = float32(i)
		entities = append(entities, e)
	}

	t.Run("insertion order", func(t *testing.T) {
		var owners []ecs.Entity
		for owner, pos := range positions.All() {
			assert.Equal(t, owner, pos.Owner())
			owners = append(owners, owner)
		}
		assert.Equal(t, entities, owners)
	})

	t.Run("skips deleted components", func(t *testing.T) {
		positions.Delete(entities[1])
		positions.Delete(entities[3])

		var owners []ecs.Entity
		for owner := range positions.All() {
			owners = append(owners, owner)
		}
		assert.ElementsMatch(t, []ecs.Entity{entities[0], entities[2], entities[4]}, owners)
	})

	t.Run("early break", func(t *testing.T) {
		count := 0
		for range positions.All() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

func TestComponentFactoryPointerStability(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)

	first := positions.Create(ecs.NewEntity(1, 0))
	first.X = 42

	// grow well past a single block
	for i := uint32(2); i < 1000; i++ {
		positions.Create(ecs.NewEntity(i, 0))
	}

	got, ok := positions.Get(ecs.NewEntity(1, 0))
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, float32(42), first.X)
	assert.Equal(t, 999, positions.Len())
}

func TestComponentFactorySlotReuse(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	a := ecs.NewEntity(1, 0)
	b := ecs.NewEntity(2, 0)

	positions.Create(a).X = 1
	positions.Delete(a)

	pos := positions.Create(b)
	assert.Equal(t, b, pos.Owner())
	assert.Equal(t, float32(0), pos.X, "reused slots start from a fresh component")
	assert.False(t, positions.Has(a))
}

func TestComponentFactoryWithoutBase(t *testing.T) {
	scores := ecs.NewComponentFactory(NewScore)
	e := ecs.NewEntity(4, 0)

	*scores.Create(e) = 12

	for owner, score := range scores.All() {
		assert.Equal(t, e, owner)
		assert.Equal(t, Score(12), *score)
	}
}

func TestComponentFactoryClear(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	positions.Create(ecs.NewEntity(1, 0))
	positions.Create(ecs.NewEntity(2, 0))

	positions.Clear()
	assert.Equal(t, 0, positions.Len())
	assert.False(t, positions.Has(ecs.NewEntity(1, 0)))

	for range positions.All() {
		t.Fatal("expected no components after Clear")
	}

	positions.Create(ecs.NewEntity(3, 0))
	assert.Equal(t, 1, positions.Len())
}

func TestComponentFactoryRequiresConstructor(t *testing.T) {
	assert.Panics(t, func() {
		ecs.NewComponentFactory[Position](nil)
	})
}

func TestComponentFactoryConstructorPanic(t *testing.T) {
	e := ecs.NewEntity(1, 0)
	positions := ecs.NewComponentFactory(func(owner ecs.Entity) Position {
		if owner == e {
			panic("cannot build")
		}
		return NewPosition(owner)
	})

	assert.Panics(t, func() {
		positions.Create(e)
	})
	assert.False(t, positions.Has(e), "a failed construction stores nothing")
	assert.Equal(t, 0, positions.Len())

	other := ecs.NewEntity(2, 0)
	positions.Create(other)
	for owner := range positions.All() {
		assert.Equal(t, other, owner)
	}
}

func TestComponentFactoryDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	positions := ecs.NewComponentFactory(NewPosition)
	positions.Create(ecs.NewEntity(1, 0))
	positions.Create(ecs.NewEntity(2, 0))

	positions.Debug(zap.New(core))

	assert.Equal(t, 1, logs.FilterMessage("component factory").Len())
	assert.Equal(t, 2, logs.FilterMessage("component").Len())
	assert.Equal(t, 2, positions.Len())
}
