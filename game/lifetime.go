package game

import "github.com/plus3/minecs/ecs"

// Lifetime destroys its entity after a number of ticks.
type Lifetime struct {
	ecs.Base
	Remaining int
}

// NewLifetime creates a Lifetime of e that expires on the next tick
func NewLifetime(e ecs.Entity) Lifetime {
	return Lifetime{Base: ecs.NewBase(e)}
}

// LifetimeProcessing counts lifetimes down during process and marks the
// expired entities for deletion during postprocess.
type LifetimeProcessing struct {
	ecs.NopProcessing
	lifetimes *ecs.ComponentFactory[Lifetime]
}

// NewLifetimeProcessing is the processing constructor of the lifetime system
func NewLifetimeProcessing(lifetimes *ecs.ComponentFactory[Lifetime]) ecs.Processing {
	return &LifetimeProcessing{lifetimes: lifetimes}
}

// Process counts every remaining lifetime down by one tick
func (p *LifetimeProcessing) Process(ecs.Systems) ([]ecs.Entity, error) {
	for _, lifetime := range p.lifetimes.All() {
		if lifetime.Remaining > 0 {
			lifetime.Remaining--
		}
	}
	return nil, nil
}

// Postprocess marks the entities whose lifetime ran out
func (p *LifetimeProcessing) Postprocess(ecs.Systems) ([]ecs.Entity, error) {
	var expired []ecs.Entity
	for owner, lifetime := range p.lifetimes.All() {
		if lifetime.Remaining <= 0 {
			expired = append(expired, owner)
		}
	}
	return expired, nil
}
