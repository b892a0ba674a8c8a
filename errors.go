package stockroom

import (
	"fmt"
	"reflect"
)

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked, use the Enqueue variants while iterating"
}

// UnregisteredComponentError reports use of a component type that has no pool.
type UnregisteredComponentError struct {
	Type reflect.Type
}

func (e UnregisteredComponentError) Error() string {
	return fmt.Sprintf("component type is not registered: %v", e.Type)
}

// AliasedAccessError reports a split borrow that names the same component type twice.
type AliasedAccessError struct {
	Type reflect.Type
}

func (e AliasedAccessError) Error() string {
	return fmt.Sprintf("two mutable handles requested for the same component type: %v", e.Type)
}

type ComponentLimitError struct {
	Type  reflect.Type
	Limit int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("cannot register %v: component type limit (%d) reached", e.Type, e.Limit)
}

type ComponentInUseError struct {
	Type  reflect.Type
	Count int
}

func (e ComponentInUseError) Error() string {
	return fmt.Sprintf("component type %v is still attached to %d entities", e.Type, e.Count)
}

type EntityNotAliveError struct {
	ID EntityID
}

func (e EntityNotAliveError) Error() string {
	return fmt.Sprintf("entity %d is not alive", e.ID)
}
