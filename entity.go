package stockroom

// EntityID identifies an entity. IDs are recycled after destruction, so an ID is only
// meaningful while the entity it names is alive.
type EntityID uint32

type entityRecord struct {
	alive bool
}

// entities allocates entity IDs and tracks which slots are alive.
// Destroyed IDs go on a free list and are handed out again before new slots are appended.
type entities struct {
	records []entityRecord
	free    []EntityID
}

func newEntities(capacity int) entities {
	return entities{
		records: make([]entityRecord, 0, capacity),
	}
}

func (en *entities) create() EntityID {
	if n := len(en.free); n > 0 {
		id := en.free[n-1]
		en.free = en.free[:n-1]
		en.records[id].alive = true
		return id
	}
	en.records = append(en.records, entityRecord{alive: true})
	return EntityID(len(en.records) - 1)
}

func (en *entities) has(id EntityID) bool {
	return int(id) < len(en.records) && en.records[id].alive
}

// remove only flips the record and frees the ID; pools and masks are the caller's job.
func (en *entities) remove(id EntityID) {
	if !en.has(id) {
		return
	}
	en.records[id].alive = false
	en.free = append(en.free, id)
}

func (en *entities) count() int {
	return len(en.records) - len(en.free)
}
