package stockroom

import "reflect"

type factory struct{}

var Factory factory

func (f factory) NewStorage(opts ...Option) *Storage {
	return newStorage(opts...)
}

func (f factory) NewQuery() QueryBuilder {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage *Storage) *Cursor {
	return newCursor(query, storage)
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{typ: reflect.TypeFor[T]()}
}
