package game

import (
	"fmt"

	"github.com/plus3/minecs/ecs"
)

// Position places an entity on the grid.
type Position struct {
	ecs.Base
	X, Y int
}

// NewPosition creates a Position of e at the origin
func NewPosition(e ecs.Entity) Position {
	return Position{Base: ecs.NewBase(e)}
}

func (p *Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
