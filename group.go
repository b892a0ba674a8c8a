package stockroom

import "github.com/bits-and-blooms/bitset"

type groupID uint32

// group collects every entity whose mask is exactly mask.
// Groups are created on first use and stay around when they empty out.
type group struct {
	id       groupID
	mask     *bitset.BitSet
	entities []EntityID
}

func newGroup(id groupID, mask *bitset.BitSet) *group {
	return &group{
		id:   id,
		mask: mask.Clone(),
	}
}

func (g *group) ID() uint32 {
	return uint32(g.id)
}

// Mask is shared with the index and must not be modified.
func (g *group) Mask() *bitset.BitSet {
	return g.mask
}

func (g *group) Len() int {
	return len(g.entities)
}

func (g *group) add(id EntityID) {
	g.entities = append(g.entities, id)
}

func (g *group) remove(id EntityID) bool {
	for i, member := range g.entities {
		if member == id {
			last := len(g.entities) - 1
			g.entities[i] = g.entities[last]
			g.entities = g.entities[:last]
			return true
		}
	}
	return false
}

// sameMask compares set bits only; bitset.Equal also compares lengths.
func sameMask(a, b *bitset.BitSet) bool {
	return a.SymmetricDifferenceCardinality(b) == 0
}
