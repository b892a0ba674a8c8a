package stockroom

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// compositeNode holds component types by identity, not by bit, so a node built before a
// type is registered still matches once it is.
type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []reflect.Type
}

type query struct {
	root QueryNode
}

func newQuery() QueryBuilder {
	return &query{}
}

func (n *compositeNode) Evaluate(group Group, storage *Storage) bool {
	nodeMask, complete := storage.index.maskForTypes(n.components...)
	switch n.op {
	case OpAnd:
		return complete && n.matchAll(group, nodeMask, storage)
	case OpOr:
		return n.matchAny(group, nodeMask, storage)
	case OpNot:
		return n.matchNone(group, nodeMask, storage)
	}
	return false
}

// matchAll requires every listed type and every child. An unregistered type can never
// be held, so callers fail the node before getting here.
func (n *compositeNode) matchAll(group Group, nodeMask *bitset.BitSet, storage *Storage) bool {
	if !group.Mask().IsSuperSet(nodeMask) {
		return false
	}
	for _, child := range n.children {
		if !child.Evaluate(group, storage) {
			return false
		}
	}
	return true
}

func (n *compositeNode) matchAny(group Group, nodeMask *bitset.BitSet, storage *Storage) bool {
	if group.Mask().IntersectionCardinality(nodeMask) > 0 {
		return true
	}
	for _, child := range n.children {
		if child.Evaluate(group, storage) {
			return true
		}
	}
	return false
}

// matchNone rejects groups holding any listed type or matching any child.
func (n *compositeNode) matchNone(group Group, nodeMask *bitset.BitSet, storage *Storage) bool {
	for _, child := range n.children {
		if child.Evaluate(group, storage) {
			return false
		}
	}
	return group.Mask().IntersectionCardinality(nodeMask) == 0
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items)
}

// node builds a composite node; the first node built becomes the query's root.
func (q *query) node(op Operation, items []interface{}) QueryNode {
	node := &compositeNode{op: op}
	node.components, node.children = splitItems(items)
	if q.root == nil {
		q.root = node
	}
	return node
}

// splitItems accepts Components, component slices, raw reflect.Types and nested nodes.
// Anything else is ignored.
func splitItems(items []interface{}) ([]reflect.Type, []QueryNode) {
	var (
		components []reflect.Type
		children   []QueryNode
	)
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v.Type())
		case []Component:
			for _, c := range v {
				components = append(components, c.Type())
			}
		case reflect.Type:
			components = append(components, v)
		case QueryNode:
			children = append(children, v)
		}
	}
	return components, children
}

func (q *query) Evaluate(group Group, storage *Storage) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(group, storage)
}
