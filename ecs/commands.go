package ecs

import "github.com/kamstrup/intmap"

// deletionQueue buffers the entities marked for destruction during a tick.
// Structural changes are deferred to the end of the tick so that hooks never
// see storage disappear under them.
type deletionQueue struct {
	entities []Entity
	queued   *intmap.Set[Entity]
}

func newDeletionQueue() *deletionQueue {
	return &deletionQueue{
		entities: make([]Entity, 0, 64),
		queued:   intmap.NewSet[Entity](64),
	}
}

// Push queues entities for deletion. Zero and already queued entities are dropped.
func (q *deletionQueue) Push(entities ...Entity) {
	for _, e := range entities {
		if e.IsZero() || !q.queued.Add(e) {
			continue
		}
		q.entities = append(q.entities, e)
	}
}

func (q *deletionQueue) Len() int {
	return len(q.entities)
}

// Flush hands every queued entity to del once, in the order it was first
// queued, then resets the buffer.
func (q *deletionQueue) Flush(del func(Entity)) {
	for _, e := range q.entities {
		del(e)
	}
	q.Reset()
}

func (q *deletionQueue) Reset() {
	q.entities = q.entities[:0]
	q.queued.Clear()
}
