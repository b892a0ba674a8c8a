package stockroom

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
)

// RegisterComponent creates T's pool and query bit. Registering twice is a no-op.
// Panics with ComponentLimitError when a configured limit is reached.
func RegisterComponent[T any](s *Storage) {
	t := reflect.TypeFor[T]()
	if s.registry.contains(t) {
		return
	}
	bit := s.index.register(t)
	registerPool[T](&s.registry)
	s.logger.Debug().Str("component", t.String()).Uint("bit", bit).Msg("registered component")
}

// UnregisterComponent drops T's pool and releases its bit for reuse. It refuses while
// any entity still holds a T.
func UnregisterComponent[T any](s *Storage) error {
	s.mustBeUnlocked()
	t := reflect.TypeFor[T]()
	pool, ok := lookup[T](&s.registry)
	if !ok {
		return UnregisteredComponentError{Type: t}
	}
	if n := pool.Len(); n > 0 {
		return ComponentInUseError{Type: t, Count: n}
	}
	bit, _ := s.index.bitFor(t)
	s.registry.unregister(t)
	s.index.unregister(t)
	s.logger.Debug().Str("component", t.String()).Uint("bit", bit).Msg("unregistered component")
	return nil
}

// Resolve returns T's pool for reads and in-place writes. Panics with
// UnregisteredComponentError. Structural changes go through AddComponent and
// RemoveComponent.
func Resolve[T any](s *Storage) *Pool[T] {
	return resolve[T](&s.registry)
}

// AddComponent attaches value to the entity. If the entity already holds a T the
// existing value is kept. The index is updated before the pool is written; setting a bit
// that is already set changes nothing, so a duplicate add leaves the index as it was.
func AddComponent[T any](s *Storage, id EntityID, value T) {
	bit := s.mustBit(reflect.TypeFor[T]())
	s.mustBeUnlocked()
	s.mustBeAlive(id)

	mask := s.index.maskOf(id)
	s.index.removeEntity(id)
	mask.Set(bit)
	s.index.addEntity(id, mask)

	resolve[T](&s.registry).add(id, value)
}

// RemoveComponent detaches T from the entity; absent components are ignored.
// An entity left with no components drops out of the index entirely.
func RemoveComponent[T any](s *Storage, id EntityID) {
	bit := s.mustBit(reflect.TypeFor[T]())
	s.mustBeUnlocked()

	pool := resolve[T](&s.registry)
	if !pool.Has(id) {
		return
	}
	pool.remove(id)

	mask := s.index.maskOf(id)
	s.index.removeEntity(id)
	mask.Clear(bit)
	if mask.Any() {
		s.index.addEntity(id, mask)
	}
}

// EnqueueAddComponent adds now, or after the last lock is released.
func EnqueueAddComponent[T any](s *Storage, id EntityID, value T) {
	s.mustBit(reflect.TypeFor[T]())
	if !s.Locked() {
		AddComponent(s, id, value)
		return
	}
	s.opQueue.enqueueComponentOp(opAddComponent, id, func(s *Storage) {
		AddComponent(s, id, value)
	})
}

// EnqueueRemoveComponent removes now, or after the last lock is released.
func EnqueueRemoveComponent[T any](s *Storage, id EntityID) {
	s.mustBit(reflect.TypeFor[T]())
	if !s.Locked() {
		RemoveComponent[T](s, id)
		return
	}
	s.opQueue.enqueueComponentOp(opRemoveComponent, id, func(s *Storage) {
		RemoveComponent[T](s, id)
	})
}

// HasComponent reports false for unregistered types instead of panicking.
func HasComponent[T any](s *Storage, id EntityID) bool {
	pool, ok := lookup[T](&s.registry)
	return ok && pool.Has(id)
}

// GetComponent returns a copy of the entity's T.
func GetComponent[T any](s *Storage, id EntityID) (T, bool) {
	return resolve[T](&s.registry).Get(id)
}

// GetComponentMut returns a pointer to the entity's T, or nil. The pointer is valid
// until T's pool next gains or loses a value.
func GetComponentMut[T any](s *Storage, id EntityID) *T {
	return resolve[T](&s.registry).GetMut(id)
}

// GetTwoComponentsMut returns pointers to two different components of one entity.
// It panics with AliasedAccessError when T and U are the same type, and reports false
// when the entity lacks either component.
func GetTwoComponentsMut[T, U any](s *Storage, id EntityID) (*T, *U, bool) {
	first, second := resolvePair[T, U](&s.registry)
	a := first.GetMut(id)
	b := second.GetMut(id)
	if a == nil || b == nil {
		return nil, nil, false
	}
	return a, b, true
}

// Query returns the entities holding a T. It reports false, rather than panicking,
// when T was never registered.
func Query[T any](s *Storage) ([]EntityID, bool) {
	return queryTypes(s, reflect.TypeFor[T]())
}

// QueryPair returns the entities holding both a T and a U.
func QueryPair[T, U any](s *Storage) ([]EntityID, bool) {
	return queryTypes(s, reflect.TypeFor[T](), reflect.TypeFor[U]())
}

// AllComponents returns a copy of every T in storage order.
func AllComponents[T any](s *Storage) []T {
	return resolve[T](&s.registry).All()
}

// AllComponentsMut returns T's dense storage for in-place updates.
func AllComponentsMut[T any](s *Storage) []T {
	return resolve[T](&s.registry).AllMut()
}

func queryTypes(s *Storage, types ...reflect.Type) ([]EntityID, bool) {
	mask := bitset.New(0)
	for _, t := range types {
		bit, ok := s.index.bitFor(t)
		if !ok {
			return nil, false
		}
		mask.Set(bit)
	}
	return s.index.query(mask), true
}
