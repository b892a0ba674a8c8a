package stockroom

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// erasedPool is the part of a Pool that can be used without knowing its type parameter.
type erasedPool interface {
	has(id EntityID) bool
	remove(id EntityID)
	len() int
	typeIdentity() reflect.Type
}

// registry holds at most one pool per component type. A pool is never replaced once
// created; unregister is the only way to drop it.
type registry struct {
	pools    map[reflect.Type]erasedPool
	order    []reflect.Type
	capacity int
}

func newRegistry(capacity int) registry {
	return registry{
		pools:    make(map[reflect.Type]erasedPool),
		capacity: capacity,
	}
}

func (r *registry) contains(t reflect.Type) bool {
	_, ok := r.pools[t]
	return ok
}

// registerPool reports whether a new pool was created.
func registerPool[T any](r *registry) bool {
	t := reflect.TypeFor[T]()
	if r.contains(t) {
		return false
	}
	r.pools[t] = newPool[T](r.capacity)
	r.order = append(r.order, t)
	return true
}

func (r *registry) unregister(t reflect.Type) {
	if !r.contains(t) {
		return
	}
	delete(r.pools, t)
	for i, registered := range r.order {
		if registered == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// lookup returns the concrete pool, or false when T has no pool.
func lookup[T any](r *registry) (*Pool[T], bool) {
	t := reflect.TypeFor[T]()
	erased, ok := r.pools[t]
	if !ok {
		return nil, false
	}
	pool, ok := erased.(*Pool[T])
	if !ok {
		panic(eris.Errorf("pool registered for %v holds %v values", t, erased.typeIdentity()))
	}
	return pool, true
}

// resolve panics with UnregisteredComponentError when T has no pool.
func resolve[T any](r *registry) *Pool[T] {
	pool, ok := lookup[T](r)
	if !ok {
		panic(UnregisteredComponentError{Type: reflect.TypeFor[T]()})
	}
	return pool
}

// resolvePair hands out two pools at once for simultaneous mutation.
//
// Each pool is its own heap object with its own backing arrays, so pools of two
// different types never share memory and both handles can be written through freely.
// The same type twice would give two views of one pool, and is rejected with
// AliasedAccessError.
func resolvePair[T, U any](r *registry) (*Pool[T], *Pool[U]) {
	if t := reflect.TypeFor[T](); t == reflect.TypeFor[U]() {
		panic(AliasedAccessError{Type: t})
	}
	return resolve[T](r), resolve[U](r)
}

// each visits pools in registration order.
func (r *registry) each(fn func(erasedPool)) {
	for _, t := range r.order {
		fn(r.pools[t])
	}
}
