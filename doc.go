/*
Package stockroom provides in-memory entity/component storage for tick-driven simulations.

Each component type lives in its own dense pool (a sparse set), so systems that touch every
instance of a type iterate a plain slice. Every registered type also owns one bit in a
growable mask; entities are filed into groups by their exact mask, and queries collect the
groups whose mask is a superset of the one asked for.

Core Concepts:

  - Entity: a recyclable EntityID. Destroying an entity clears all of its components.
  - Component: any Go type, identified by its reflect.Type.
  - Pool: the dense storage for one component type.
  - Group: the entities that share one exact component mask.
  - QueryBuilder: And/Or/Not filters over component types, evaluated per group.

Basic Usage:

	storage := stockroom.Factory.NewStorage()
	stockroom.RegisterComponent[Position](storage)
	stockroom.RegisterComponent[Velocity](storage)

	e := storage.CreateEntity()
	stockroom.AddComponent(storage, e, Position{})
	stockroom.AddComponent(storage, e, Velocity{X: 1, Y: 1})

	ids, _ := stockroom.QueryPair[Velocity, Position](storage)
	for _, id := range ids {
		vel, pos, _ := stockroom.GetTwoComponentsMut[Velocity, Position](storage, id)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Storage is not safe for concurrent use. While a Cursor is iterating the storage is locked;
structural changes made during iteration go through EnqueueAddComponent,
EnqueueRemoveComponent and EnqueueDestroyEntity and are applied when the cursor finishes.
*/
package stockroom
