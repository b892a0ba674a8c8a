package stockroom

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
)

// Storage owns entities, their component pools and the query index. It is not safe
// for concurrent use; one owner drives it per tick.
type Storage struct {
	logger   zerolog.Logger
	locks    int
	entities entities
	registry registry
	index    *queryIndex
	opQueue  opQueue
}

func newStorage(opts ...Option) *Storage {
	cfg := defaultStorageConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Storage{
		logger:   cfg.logger,
		entities: newEntities(cfg.initialCapacity),
		registry: newRegistry(cfg.initialCapacity),
		index:    newQueryIndex(cfg.componentLimit, cfg.queryCache),
		opQueue:  newOpQueue(),
	}
}

// CreateEntity returns a fresh or recycled ID. Allowed while locked, since a new
// entity belongs to no group until it gets a component.
func (s *Storage) CreateEntity() EntityID {
	return s.entities.create()
}

// Alive reports whether id names a live entity.
func (s *Storage) Alive(id EntityID) bool {
	return s.entities.has(id)
}

// DestroyEntity drops every component the entity holds, removes it from the query
// index and frees the ID. A recycled ID therefore starts out empty.
func (s *Storage) DestroyEntity(id EntityID) {
	s.mustBeUnlocked()
	if !s.entities.has(id) {
		return
	}
	s.registry.each(func(pool erasedPool) {
		pool.remove(id)
	})
	s.index.removeEntity(id)
	s.entities.remove(id)
	s.logger.Debug().Uint32("entity_id", uint32(id)).Msg("destroyed entity")
}

// EnqueueDestroyEntity destroys now, or after the last lock is released.
func (s *Storage) EnqueueDestroyEntity(id EntityID) {
	if !s.Locked() {
		s.DestroyEntity(id)
		return
	}
	s.opQueue.enqueueDestroy(id)
}

// BitFor returns the query bit assigned to a component type.
func (s *Storage) BitFor(c Component) (uint, bool) {
	return s.index.bitFor(c.Type())
}

// MaskOf returns a copy of the entity's component mask.
func (s *Storage) MaskOf(id EntityID) *bitset.BitSet {
	return s.index.maskOf(id)
}

// Filter returns every entity in a group matched by node.
func (s *Storage) Filter(node QueryNode) []EntityID {
	var ids []EntityID
	for _, g := range s.matchingGroups(node) {
		ids = append(ids, g.entities...)
	}
	return ids
}

// Groups lists every group, including ones that emptied out.
func (s *Storage) Groups() []Group {
	groups := make([]Group, len(s.index.groups))
	for i, g := range s.index.groups {
		groups[i] = g
	}
	return groups
}

// Stats summarizes the storage at this moment.
func (s *Storage) Stats() Stats {
	stats := Stats{
		Entities:       s.entities.count(),
		ComponentTypes: len(s.registry.pools),
		Groups:         len(s.index.groups),
		PendingOps:     s.opQueue.len(),
	}
	if s.index.cache != nil {
		stats.CachedQueries = s.index.cache.len()
	}
	return stats
}

// Locked reports whether a cursor or caller holds the storage lock.
func (s *Storage) Locked() bool {
	return s.locks > 0
}

// Lock defers structural changes made through the Enqueue functions and makes direct
// ones panic. Locks nest.
func (s *Storage) Lock() {
	s.locks++
}

// Unlock releases one lock; releasing the last one applies deferred operations.
func (s *Storage) Unlock() {
	if s.locks == 0 {
		return
	}
	s.locks--
	if s.locks == 0 {
		s.processOperationQueue()
	}
}

// Logger returns the logger set with WithLogger.
func (s *Storage) Logger() zerolog.Logger {
	return s.logger
}

func (s *Storage) matchingGroups(node QueryNode) []*group {
	var matched []*group
	for _, g := range s.index.groups {
		if node.Evaluate(g, s) {
			matched = append(matched, g)
		}
	}
	return matched
}

func (s *Storage) mustBeUnlocked() {
	if s.Locked() {
		panic(LockedStorageError{})
	}
}

func (s *Storage) mustBeAlive(id EntityID) {
	if !s.entities.has(id) {
		panic(EntityNotAliveError{ID: id})
	}
}

// mustBit returns T's bit, panicking with UnregisteredComponentError when T has no pool.
func (s *Storage) mustBit(t reflect.Type) uint {
	bit, ok := s.index.bitFor(t)
	if !ok || !s.registry.contains(t) {
		panic(UnregisteredComponentError{Type: t})
	}
	return bit
}
