// Package game holds the concrete components and processing of the demo game
// built on top of the ecs package.
package game

import (
	"github.com/plus3/minecs/ecs"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Well-known system names, used by processing hooks to find each other.
const (
	PositionSystem = "position"
	InputSystem    = "input"
	LifetimeSystem = "lifetime"
)

// Handles gives typed access to the game systems of a world.
type Handles struct {
	Position *ecs.TypedSystem[Position]
	Input    *ecs.TypedSystem[Input]
	Lifetime *ecs.TypedSystem[Lifetime]
}

// Setup registers the game systems on the world. Input processing reads key
// presses from keyboard.
func Setup(world *ecs.World, keyboard Keyboard, log *zap.Logger) (*Handles, error) {
	if log == nil {
		log = zap.NewNop()
	}

	position, err := ecs.Register(world, PositionSystem, NewPosition, ecs.NoProcessing[Position]())
	if err != nil {
		return nil, eris.Wrap(err, "register position system")
	}

	input, err := ecs.Register(world, InputSystem, NewInput, NewInputProcessing(keyboard, log))
	if err != nil {
		return nil, eris.Wrap(err, "register input system")
	}

	lifetime, err := ecs.Register(world, LifetimeSystem, NewLifetime, NewLifetimeProcessing)
	if err != nil {
		return nil, eris.Wrap(err, "register lifetime system")
	}

	return &Handles{
		Position: position,
		Input:    input,
		Lifetime: lifetime,
	}, nil
}
