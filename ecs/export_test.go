package ecs

// SetIndexLimit caps the slot indices the factory may hand out.
func (f *EntityFactory) SetIndexLimit(limit uint32) {
	f.limit = limit
}

// SetGeneration forces the generation of a slot.
func (f *EntityFactory) SetGeneration(index uint32, generation uint32) {
	f.generations[index] = generation
}
