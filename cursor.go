package stockroom

import (
	"iter"

	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ iCursor = &Cursor{}

// Cursor walks the entities of every group matched by a query. The storage stays
// locked from the first step until the cursor is exhausted or Reset, so structural
// changes made while iterating have to go through the Enqueue functions.
type Cursor struct {
	query   QueryNode
	storage *Storage

	current    *group
	groupIndex int
	// entityIndex is one past the current entity within current.
	entityIndex int

	initialized   bool
	matchedGroups []*group
}

func newCursor(query QueryNode, storage *Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

// Next advances to the following entity and reports whether there is one.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.groupIndex < len(c.matchedGroups) {
		c.current = c.matchedGroups[c.groupIndex]
		if c.entityIndex < len(c.current.entities) {
			c.entityIndex++
			return true
		}
		c.groupIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

// Entity returns the entity under the cursor. Only valid after Next returned true.
func (c *Cursor) Entity() EntityID {
	return c.current.entities[c.entityIndex-1]
}

func (c *Cursor) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for c.Next() {
			if !yield(c.Entity()) {
				c.Reset()
				return
			}
		}
	}
}

// Collect drains the cursor into a slice. The lock is released before it returns.
func (c *Cursor) Collect() []EntityID {
	return iter_util.Collect(c.Entities())
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.matchedGroups = c.storage.matchingGroups(c.query)
	c.groupIndex = 0
	c.entityIndex = 0
	c.initialized = true
	c.storage.Lock()
}

// Reset rewinds the cursor and releases its lock. Deferred operations run when the
// last lock goes away.
func (c *Cursor) Reset() {
	wasInitialized := c.initialized
	c.current = nil
	c.groupIndex = 0
	c.entityIndex = 0
	c.matchedGroups = nil
	c.initialized = false
	if wasInitialized {
		c.storage.Unlock()
	}
}

func (c *Cursor) RemainingInGroup() int {
	if c.current == nil {
		return 0
	}
	return len(c.current.entities) - c.entityIndex
}

// TotalMatched counts matching entities without moving the cursor.
func (c *Cursor) TotalMatched() int {
	groups := c.matchedGroups
	if !c.initialized {
		groups = c.storage.matchingGroups(c.query)
	}
	total := 0
	for _, g := range groups {
		total += len(g.entities)
	}
	return total
}
