package ecs

import "github.com/rotisserie/eris"

var (
	// ErrSystemNotFound is returned when a system is looked up by a name that was
	// never registered and no complete Definition was supplied to create it.
	ErrSystemNotFound = eris.New("system not found")

	// ErrSystemTypeMismatch is returned when a name is already bound to a system
	// storing a different component type.
	ErrSystemTypeMismatch = eris.New("system component type mismatch")

	// ErrReentrantRun is returned by Run when called from inside a tick.
	ErrReentrantRun = eris.New("world is already running a tick")

	// ErrInvalidInterval is returned by Loop for a non-positive tick interval.
	ErrInvalidInterval = eris.New("tick interval must be positive")

	// ErrEntitySpaceExhausted is the panic value raised once every slot index is in use.
	ErrEntitySpaceExhausted = eris.New("entity identity space exhausted")
)
