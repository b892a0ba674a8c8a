package stockroom

import (
	"reflect"
	"slices"
)

var _ erasedPool = &Pool[struct{}]{}

// Pool is the dense storage for one component type.
//
// values and owners are parallel arrays; sparse maps an entity ID to its dense index
// plus one, so the zero value means "absent" and the slice never needs filling.
type Pool[T any] struct {
	values []T
	owners []EntityID
	sparse []int
}

func newPool[T any](capacity int) *Pool[T] {
	return &Pool[T]{
		values: make([]T, 0, capacity),
		owners: make([]EntityID, 0, capacity),
	}
}

// Has reports whether the entity owns a value in this pool.
func (p *Pool[T]) Has(id EntityID) bool {
	return int(id) < len(p.sparse) && p.sparse[id] != 0
}

// add stores value for the entity. An entity that already owns a value keeps it; the
// new value is dropped. Membership changes go through the storage so the query index
// stays in step.
func (p *Pool[T]) add(id EntityID, value T) {
	if p.Has(id) {
		return
	}
	if int(id) >= len(p.sparse) {
		p.sparse = append(p.sparse, make([]int, int(id)+1-len(p.sparse))...)
	}
	p.values = append(p.values, value)
	p.owners = append(p.owners, id)
	p.sparse[id] = len(p.values)
}

// remove drops the entity's value by moving the last value into its slot.
// Dense order is therefore not stable across removals.
func (p *Pool[T]) remove(id EntityID) {
	if !p.Has(id) {
		return
	}
	index := p.sparse[id] - 1
	last := len(p.values) - 1

	// Hand the vacated slot to the last owner before the swap.
	p.sparse[p.owners[last]] = index + 1

	p.values[index] = p.values[last]
	p.owners[index] = p.owners[last]

	var zero T
	p.values[last] = zero
	p.values = p.values[:last]
	p.owners = p.owners[:last]

	p.sparse[id] = 0
}

// Get returns a copy of the entity's value.
func (p *Pool[T]) Get(id EntityID) (T, bool) {
	if !p.Has(id) {
		var zero T
		return zero, false
	}
	return p.values[p.sparse[id]-1], true
}

// GetMut returns a pointer to the entity's value, or nil. The pointer is valid until
// the pool next gains or loses a value.
func (p *Pool[T]) GetMut(id EntityID) *T {
	if !p.Has(id) {
		return nil
	}
	return &p.values[p.sparse[id]-1]
}

// All returns a copy of every value in dense order.
func (p *Pool[T]) All() []T {
	return slices.Clone(p.values)
}

// AllMut returns the dense values themselves. Writes go straight to storage.
func (p *Pool[T]) AllMut() []T {
	return p.values
}

// Entities returns the owners in the same order as All.
func (p *Pool[T]) Entities() []EntityID {
	return slices.Clone(p.owners)
}

// Len is the number of entities holding a value.
func (p *Pool[T]) Len() int {
	return len(p.values)
}

func (p *Pool[T]) has(id EntityID) bool {
	return p.Has(id)
}

func (p *Pool[T]) len() int {
	return len(p.values)
}

func (p *Pool[T]) typeIdentity() reflect.Type {
	return reflect.TypeFor[T]()
}
