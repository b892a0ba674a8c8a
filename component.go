package stockroom

import "reflect"

var _ Component = AccessibleComponent[struct{}]{}

// AccessibleComponent is a typed handle for one component type. It carries the type's
// runtime identity for filters and wraps the generic storage functions.
type AccessibleComponent[T any] struct {
	typ reflect.Type
}

// Type is the identity used as the registry and mask key.
func (c AccessibleComponent[T]) Type() reflect.Type {
	return c.typ
}

func (c AccessibleComponent[T]) Name() string {
	return c.typ.String()
}

func (c AccessibleComponent[T]) Register(sto *Storage) {
	RegisterComponent[T](sto)
}

func (c AccessibleComponent[T]) Add(sto *Storage, id EntityID, value T) {
	AddComponent(sto, id, value)
}

func (c AccessibleComponent[T]) Remove(sto *Storage, id EntityID) {
	RemoveComponent[T](sto, id)
}

func (c AccessibleComponent[T]) Has(sto *Storage, id EntityID) bool {
	return HasComponent[T](sto, id)
}

// GetFromEntity returns a pointer into storage, or nil when the entity lacks T.
func (c AccessibleComponent[T]) GetFromEntity(sto *Storage, id EntityID) *T {
	return GetComponentMut[T](sto, id)
}

// GetFromCursor returns the value of the entity under the cursor.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return GetComponentMut[T](cursor.storage, cursor.Entity())
}

// GetFromCursorSafe reports false instead of returning nil.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	ptr := c.GetFromCursor(cursor)
	return ptr != nil, ptr
}
