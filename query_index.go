package stockroom

import (
	"reflect"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

const defaultCacheCapacity = 64

// queryIndex gives every registered component type one bit and files each entity into
// the group matching its exact mask. Queries walk groups, not entities.
type queryIndex struct {
	bits     map[reflect.Type]uint
	released *bitset.BitSet
	nextBit  uint
	limit    int

	masks       map[EntityID]*bitset.BitSet
	groups      []*group
	nextGroupID groupID

	cache *resultCache
}

func newQueryIndex(limit int, caching bool) *queryIndex {
	index := &queryIndex{
		bits:        make(map[reflect.Type]uint),
		released:    bitset.New(0),
		limit:       limit,
		masks:       make(map[EntityID]*bitset.BitSet),
		nextGroupID: 1,
	}
	if caching {
		index.cache = newResultCache(defaultCacheCapacity)
	}
	return index
}

// register hands out the lowest released bit, or a fresh one when none was released.
func (qi *queryIndex) register(t reflect.Type) uint {
	if bit, ok := qi.bits[t]; ok {
		return bit
	}
	if qi.limit > 0 && len(qi.bits) >= qi.limit {
		panic(ComponentLimitError{Type: t, Limit: qi.limit})
	}
	bit, recycled := qi.released.NextSet(0)
	if recycled {
		qi.released.Clear(bit)
	} else {
		bit = qi.nextBit
		qi.nextBit++
	}
	qi.bits[t] = bit
	qi.invalidate()
	return bit
}

// unregister frees the bit for reuse. Callers make sure no entity still carries it.
func (qi *queryIndex) unregister(t reflect.Type) {
	bit, ok := qi.bits[t]
	if !ok {
		return
	}
	delete(qi.bits, t)
	qi.released.Set(bit)
	qi.invalidate()
}

func (qi *queryIndex) bitFor(t reflect.Type) (uint, bool) {
	bit, ok := qi.bits[t]
	return bit, ok
}

// maskOf returns a copy; the empty mask for entities that were never indexed.
func (qi *queryIndex) maskOf(id EntityID) *bitset.BitSet {
	if mask, ok := qi.masks[id]; ok {
		return mask.Clone()
	}
	return bitset.New(0)
}

func (qi *queryIndex) indexed(id EntityID) bool {
	_, ok := qi.masks[id]
	return ok
}

func (qi *queryIndex) removeEntity(id EntityID) {
	mask, ok := qi.masks[id]
	if !ok {
		return
	}
	if g := qi.findGroup(mask); g != nil {
		g.remove(id)
	}
	delete(qi.masks, id)
	qi.invalidate()
}

func (qi *queryIndex) addEntity(id EntityID, mask *bitset.BitSet) {
	g := qi.findGroup(mask)
	if g == nil {
		g = newGroup(qi.nextGroupID, mask)
		qi.nextGroupID++
		qi.groups = append(qi.groups, g)
	}
	g.add(id)
	qi.masks[id] = mask.Clone()
	qi.invalidate()
}

func (qi *queryIndex) findGroup(mask *bitset.BitSet) *group {
	for _, g := range qi.groups {
		if sameMask(g.mask, mask) {
			return g
		}
	}
	return nil
}

// query returns every entity whose mask is a superset of mask. The result belongs to
// the caller.
func (qi *queryIndex) query(mask *bitset.BitSet) []EntityID {
	var key string
	if qi.cache != nil {
		key = mask.String()
		if ids, ok := qi.cache.get(key); ok {
			return slices.Clone(ids)
		}
	}

	var ids []EntityID
	for _, g := range qi.groups {
		if g.mask.IsSuperSet(mask) {
			ids = append(ids, g.entities...)
		}
	}

	// A full cache stops memoizing until the next invalidation.
	if qi.cache != nil && !qi.cache.full() {
		if err := qi.cache.register(key, slices.Clone(ids)); err != nil {
			panic(err)
		}
	}
	return ids
}

func (qi *queryIndex) maskForTypes(types ...reflect.Type) (*bitset.BitSet, bool) {
	mask := bitset.New(qi.nextBit)
	complete := true
	for _, t := range types {
		bit, ok := qi.bits[t]
		if !ok {
			complete = false
			continue
		}
		mask.Set(bit)
	}
	return mask, complete
}

func (qi *queryIndex) invalidate() {
	if qi.cache != nil {
		qi.cache.clear()
	}
}
