package stockroom

import "github.com/rotisserie/eris"

// resultCache memoizes query results by mask key. It holds no invalidation logic of its
// own; the index clears it on every mask change.
type resultCache struct {
	items       [][]EntityID
	itemIndices map[string]int
	maxCapacity int
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		itemIndices: make(map[string]int),
		maxCapacity: capacity,
	}
}

func (c *resultCache) get(key string) ([]EntityID, bool) {
	index, ok := c.itemIndices[key]
	if !ok {
		return nil, false
	}
	return c.items[index], true
}

func (c *resultCache) full() bool {
	return len(c.itemIndices) >= c.maxCapacity
}

func (c *resultCache) register(key string, ids []EntityID) error {
	if c.full() {
		return eris.Errorf("result cache at maximum capacity (%d)", c.maxCapacity)
	}
	c.itemIndices[key] = len(c.items)
	c.items = append(c.items, ids)
	return nil
}

func (c *resultCache) len() int {
	return len(c.items)
}

func (c *resultCache) clear() {
	if len(c.items) == 0 {
		return
	}
	clear(c.items)
	c.items = c.items[:0]
	clear(c.itemIndices)
}
