package stockroom

type operationType int

const (
	opAddComponent operationType = iota
	opRemoveComponent
	opDestroy
)

func (t operationType) String() string {
	switch t {
	case opAddComponent:
		return "add_component"
	case opRemoveComponent:
		return "remove_component"
	case opDestroy:
		return "destroy"
	}
	return "unknown"
}

type operation struct {
	typ    operationType
	entity EntityID
	// apply performs the change; nil for destroys and cancelled ops.
	apply func(*Storage)
}

// opQueue holds structural changes requested while the storage was locked.
// Component changes run in request order, destroys run last.
type opQueue struct {
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
	}
}

func (q *opQueue) len() int {
	return len(q.componentOps) + len(q.destroyOps)
}

func (q *opQueue) enqueueComponentOp(typ operationType, id EntityID, apply func(*Storage)) {
	// Changes to an entity that is about to be destroyed are pointless.
	if _, doomed := q.pendingDestroy[id]; doomed {
		return
	}
	q.componentOps = append(q.componentOps, operation{
		typ:    typ,
		entity: id,
		apply:  apply,
	})
}

func (q *opQueue) enqueueDestroy(id EntityID) {
	if _, queued := q.pendingDestroy[id]; queued {
		return
	}
	q.pendingDestroy[id] = struct{}{}
	for i := range q.componentOps {
		if q.componentOps[i].entity == id {
			q.componentOps[i].apply = nil
		}
	}
	q.destroyOps = append(q.destroyOps, operation{
		typ:    opDestroy,
		entity: id,
	})
}

func (s *Storage) processOperationQueue() {
	if s.opQueue.len() == 0 {
		return
	}
	applied, skipped := 0, 0

	for _, op := range s.opQueue.componentOps {
		// The entity may have been destroyed directly since the op was queued.
		if op.apply == nil || !s.entities.has(op.entity) {
			s.logger.Debug().
				Stringer("op", op.typ).
				Uint32("entity_id", uint32(op.entity)).
				Msg("skipped deferred operation")
			skipped++
			continue
		}
		op.apply(s)
		applied++
	}

	for _, op := range s.opQueue.destroyOps {
		s.DestroyEntity(op.entity)
		applied++
	}

	s.logger.Debug().
		Int("applied", applied).
		Int("skipped", skipped).
		Msg("flushed deferred operations")

	clear(s.opQueue.componentOps)
	s.opQueue.componentOps = s.opQueue.componentOps[:0]
	s.opQueue.destroyOps = s.opQueue.destroyOps[:0]
	clear(s.opQueue.pendingDestroy)
}
