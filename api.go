package stockroom

import (
	"iter"
	"reflect"

	"github.com/bits-and-blooms/bitset"
)

// Component identifies a component type at runtime.
type Component interface {
	Type() reflect.Type
}

// Group is the set of entities that share one exact component mask.
type Group interface {
	ID() uint32
	Mask() *bitset.BitSet
	Len() int
}

// QueryBuilder builds filter trees; the first node it builds is its root.
type QueryBuilder interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(group Group, storage *Storage) bool
}

type iCursor interface {
	Entities() iter.Seq[EntityID]
	Next() bool
	Entity() EntityID
}

// Stats is a point-in-time summary of a Storage.
type Stats struct {
	Entities       int `json:"entities"`
	ComponentTypes int `json:"component_types"`
	Groups         int `json:"groups"`
	CachedQueries  int `json:"cached_queries"`
	PendingOps     int `json:"pending_ops"`
}
