package ecs_test

import (
	"testing"

	"github.com/plus3/minecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopProcessing(t *testing.T) {
	var p ecs.Processing = ecs.NopProcessing{}

	for _, hook := range []ecs.HookFunc{p.Preprocess, p.Process, p.Postprocess} {
		entities, err := hook(ecs.Systems{})
		assert.NoError(t, err)
		assert.Empty(t, entities)
	}
}

func TestHooksWithoutFuncs(t *testing.T) {
	var p ecs.Processing = ecs.Hooks{}

	entities, err := p.Process(ecs.Systems{})
	assert.NoError(t, err)
	assert.Empty(t, entities)
}

func TestSystemsView(t *testing.T) {
	t.Run("zero value is empty", func(t *testing.T) {
		var systems ecs.Systems
		_, ok := systems.Get("position")
		assert.False(t, ok)
		assert.Equal(t, 0, systems.Len())
		assert.Empty(t, systems.Names())
		for range systems.All() {
			t.Fatal("expected no systems")
		}
	})

	t.Run("registration order", func(t *testing.T) {
		world := ecs.NewWorld()
		for _, name := range []string{"c", "a", "b"} {
			_, err := ecs.Register(world, name, NewScore, ecs.NoProcessing[Score]())
			require.NoError(t, err)
		}

		systems := world.Systems()
		assert.Equal(t, []string{"c", "a", "b"}, systems.Names())

		var names []string
		for name, sys := range systems.All() {
			assert.Equal(t, name, sys.Name())
			names = append(names, name)
		}
		assert.Equal(t, []string{"c", "a", "b"}, names)
	})
}

func TestLookup(t *testing.T) {
	world := ecs.NewWorld()
	positions, err := ecs.Register(world, "position", NewPosition, ecs.NoProcessing[Position]())
	require.NoError(t, err)

	found, ok := ecs.Lookup[Position](world.Systems(), "position")
	require.True(t, ok)
	assert.Same(t, positions.Components(), found)

	_, ok = ecs.Lookup[Health](world.Systems(), "position")
	assert.False(t, ok, "wrong component type")

	_, ok = ecs.Lookup[Position](world.Systems(), "missing")
	assert.False(t, ok)
}

func TestJoin(t *testing.T) {
	positions := ecs.NewComponentFactory(NewPosition)
	velocities := ecs.NewComponentFactory(NewVelocity)

	moving := ecs.NewEntity(1, 0)
	static := ecs.NewEntity(2, 0)
	ghost := ecs.NewEntity(3, 0)

	positions.Create(moving)
	positions.Create(static)
	v := velocities.Create(moving)
	v.DX, v.DY = 1, 2
	velocities.Create(ghost)

	count := 0
	for pos, vel := range ecs.Join(positions, velocities) {
		assert.Equal(t, pos.Owner(), vel.Owner())
		pos.X += vel.DX
		pos.Y += vel.DY
		count++
	}

	assert.Equal(t, 1, count, "entities without a match are skipped")
	pos, _ := positions.Get(moving)
	assert.Equal(t, float32(1), pos.X)
	assert.Equal(t, float32(2), pos.Y)
	pos, _ = positions.Get(static)
	assert.Equal(t, float32(0), pos.X)
}

// A movement system reading another system's components by name.
type movementProcessing struct {
	ecs.NopProcessing
	velocities *ecs.ComponentFactory[Velocity]
}

func (p *movementProcessing) Process(systems ecs.Systems) ([]ecs.Entity, error) {
	positions, ok := ecs.Lookup[Position](systems, "position")
	if !ok {
		return nil, nil
	}
	for vel, pos := range ecs.Join(p.velocities, positions) {
		pos.X += vel.DX
		pos.Y += vel.DY
	}
	return nil, nil
}

func newMovementProcessing(velocities *ecs.ComponentFactory[Velocity]) ecs.Processing {
	return &movementProcessing{velocities: velocities}
}

func TestCrossSystemProcessing(t *testing.T) {
	world := ecs.NewWorld()
	positions, err := ecs.Register(world, "position", NewPosition, ecs.NoProcessing[Position]())
	require.NoError(t, err)
	velocities, err := ecs.Register(world, "velocity", NewVelocity, newMovementProcessing)
	require.NoError(t, err)

	e := world.CreateEntity()
	positions.Create(e)
	v := velocities.Create(e)
	v.DX = 2

	require.NoError(t, world.Run())
	require.NoError(t, world.Run())

	pos, ok := positions.Get(e)
	require.True(t, ok)
	assert.Equal(t, float32(4), pos.X)
}

func TestCrossSystemProcessingWithoutCollaborator(t *testing.T) {
	world := ecs.NewWorld()
	velocities, err := ecs.Register(world, "velocity", NewVelocity, newMovementProcessing)
	require.NoError(t, err)
	velocities.Create(world.CreateEntity())

	assert.NoError(t, world.Run(), "a missing collaborator system is a skip, not an error")
}
