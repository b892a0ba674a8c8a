package stockroom

import (
	"reflect"
	"testing"
)

// populate gives count fresh entities each listed component, in order of the setups.
func populate(sto *Storage, setups []entitySetup) {
	for _, setup := range setups {
		for i := 0; i < setup.count; i++ {
			e := sto.CreateEntity()
			for _, c := range setup.components {
				switch c.Type() {
				case reflect.TypeFor[Position]():
					AddComponent(sto, e, Position{X: float64(e)})
				case reflect.TypeFor[Velocity]():
					AddComponent(sto, e, Velocity{X: 1, Y: 2})
				case reflect.TypeFor[Health]():
					AddComponent(sto, e, Health{Current: 10, Max: 10})
				}
			}
		}
	}
}

type entitySetup struct {
	components []Component
	count      int
}

// TestQueryFiltering tests the basic query filtering capabilities
func TestQueryFiltering(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	healthComp := FactoryNewComponent[Health]()

	mixed := []entitySetup{
		{[]Component{posComp, velComp}, 5},
		{[]Component{posComp}, 10},
		{[]Component{velComp}, 15},
		{[]Component{healthComp}, 20},
	}

	tests := []struct {
		name            string
		build           func(q QueryBuilder) QueryNode
		expectedMatches int
	}{
		{
			name:            "And query matches exact",
			build:           func(q QueryBuilder) QueryNode { return q.And(posComp, velComp) },
			expectedMatches: 5,
		},
		{
			name:            "And query matches supersets",
			build:           func(q QueryBuilder) QueryNode { return q.And(posComp) },
			expectedMatches: 15,
		},
		{
			name:            "Or query matches either",
			build:           func(q QueryBuilder) QueryNode { return q.Or(posComp, velComp) },
			expectedMatches: 30,
		},
		{
			name:            "Not query excludes",
			build:           func(q QueryBuilder) QueryNode { return q.Not(velComp) },
			expectedMatches: 30, // 10 + 20
		},
		{
			name: "And with nested Not",
			build: func(q QueryBuilder) QueryNode {
				return q.And(posComp, q.Not(velComp))
			},
			expectedMatches: 10,
		},
		{
			name: "Or of two Ands",
			build: func(q QueryBuilder) QueryNode {
				return q.Or(q.And(posComp, velComp), q.And(healthComp))
			},
			expectedMatches: 25,
		},
		{
			name:            "Components as slice",
			build:           func(q QueryBuilder) QueryNode { return q.And([]Component{posComp, velComp}) },
			expectedMatches: 5,
		},
		{
			name:            "Components as reflect types",
			build:           func(q QueryBuilder) QueryNode { return q.And(reflect.TypeFor[Health]()) },
			expectedMatches: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sto := Factory.NewStorage()
			RegisterComponent[Position](sto)
			RegisterComponent[Velocity](sto)
			RegisterComponent[Health](sto)
			populate(sto, mixed)

			node := tt.build(Factory.NewQuery())
			if got := len(sto.Filter(node)); got != tt.expectedMatches {
				t.Errorf("Filter matched %d entities, expected %d", got, tt.expectedMatches)
			}

			cursor := Factory.NewCursor(node, sto)
			if got := cursor.TotalMatched(); got != tt.expectedMatches {
				t.Errorf("TotalMatched = %d, expected %d", got, tt.expectedMatches)
			}
		})
	}
}

func TestQueryUnregisteredComponent(t *testing.T) {
	type Missing struct{}
	missing := FactoryNewComponent[Missing]()
	posComp := FactoryNewComponent[Position]()

	sto := Factory.NewStorage()
	RegisterComponent[Position](sto)
	populate(sto, []entitySetup{{[]Component{posComp}, 3}})

	q := Factory.NewQuery()
	if got := len(sto.Filter(q.And(posComp, missing))); got != 0 {
		t.Errorf("And over an unregistered type matched %d entities", got)
	}
	if got := len(sto.Filter(q.Or(posComp, missing))); got != 3 {
		t.Errorf("Or over an unregistered type matched %d entities, expected 3", got)
	}
	if got := len(sto.Filter(q.Not(missing))); got != 3 {
		t.Errorf("Not over an unregistered type matched %d entities, expected 3", got)
	}
}

func TestQueryRootIsFirstNode(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	sto := Factory.NewStorage()
	RegisterComponent[Position](sto)
	RegisterComponent[Velocity](sto)
	populate(sto, []entitySetup{
		{[]Component{posComp}, 2},
		{[]Component{posComp, velComp}, 1},
	})

	q := Factory.NewQuery()
	if got := len(sto.Filter(q)); got != 0 {
		t.Errorf("empty query matched %d entities", got)
	}

	q.And(posComp)
	q.And(velComp)
	if got := len(sto.Filter(q)); got != 3 {
		t.Errorf("query matched %d entities, expected the first node's 3", got)
	}
}

// TestCursorIteration moves every position by its velocity through a cursor
func TestCursorIteration(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()

	sto := Factory.NewStorage()
	posComp.Register(sto)
	velComp.Register(sto)
	populate(sto, []entitySetup{
		{[]Component{posComp, velComp}, 4},
		{[]Component{posComp}, 3},
	})

	cursor := Factory.NewCursor(Factory.NewQuery().And(posComp, velComp), sto)

	visited := 0
	for cursor.Next() {
		if !sto.Locked() {
			t.Fatal("storage should be locked while iterating")
		}
		pos := posComp.GetFromCursor(cursor)
		vel := velComp.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
		visited++
	}

	if visited != 4 {
		t.Errorf("visited %d entities, expected 4", visited)
	}
	if sto.Locked() {
		t.Error("exhausted cursor should release its lock")
	}

	moved := 0
	for _, e := range Resolve[Position](sto).Entities() {
		pos, _ := GetComponent[Position](sto, e)
		if pos.Y == 2 {
			moved++
			if pos.X != float64(e)+1 {
				t.Errorf("entity %d at X=%v, expected %v", e, pos.X, float64(e)+1)
			}
		}
	}
	if moved != 4 {
		t.Errorf("%d entities moved, expected 4", moved)
	}
}

func TestCursorEntitiesIterator(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	healthComp := FactoryNewComponent[Health]()

	sto := Factory.NewStorage()
	posComp.Register(sto)
	healthComp.Register(sto)
	populate(sto, []entitySetup{
		{[]Component{posComp}, 3},
		{[]Component{posComp, healthComp}, 2},
	})

	cursor := Factory.NewCursor(Factory.NewQuery().Or(posComp), sto)

	seen := map[EntityID]bool{}
	for e := range cursor.Entities() {
		if ok, _ := posComp.GetFromCursorSafe(cursor); !ok {
			t.Errorf("entity %d has no position", e)
		}
		seen[e] = true
	}
	if len(seen) != 5 {
		t.Errorf("iterated %d entities, expected 5", len(seen))
	}

	// Breaking out early must release the lock too.
	for range cursor.Entities() {
		break
	}
	if sto.Locked() {
		t.Error("storage still locked after breaking out of the iterator")
	}
}

func TestCursorResetAndRemaining(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	sto := Factory.NewStorage()
	posComp.Register(sto)
	populate(sto, []entitySetup{{[]Component{posComp}, 3}})

	cursor := Factory.NewCursor(Factory.NewQuery().And(posComp), sto)
	if cursor.RemainingInGroup() != 0 {
		t.Error("unstarted cursor has nothing remaining")
	}

	cursor.Next()
	if got := cursor.RemainingInGroup(); got != 2 {
		t.Errorf("RemainingInGroup = %d, expected 2", got)
	}
	first := cursor.Entity()

	cursor.Reset()
	if sto.Locked() {
		t.Error("Reset should release the lock")
	}
	cursor.Reset()

	cursor.Next()
	if cursor.Entity() != first {
		t.Errorf("after Reset the cursor starts at %d, expected %d", cursor.Entity(), first)
	}
	cursor.Reset()
}

func TestNestedCursorsHoldTheLock(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	sto := Factory.NewStorage()
	posComp.Register(sto)
	populate(sto, []entitySetup{{[]Component{posComp}, 2}})

	query := Factory.NewQuery().And(posComp)
	outer := Factory.NewCursor(query, sto)
	pairs := 0
	for outer.Next() {
		inner := Factory.NewCursor(query, sto)
		for inner.Next() {
			pairs++
		}
		if !sto.Locked() {
			t.Fatal("inner cursor released the outer cursor's lock")
		}
	}
	if pairs != 4 {
		t.Errorf("visited %d pairs, expected 4", pairs)
	}
	if sto.Locked() {
		t.Error("storage still locked after both cursors finished")
	}
}

func TestAccessibleComponentHandle(t *testing.T) {
	health := FactoryNewComponent[Health]()
	if health.Type() != reflect.TypeFor[Health]() {
		t.Fatalf("Type() = %v", health.Type())
	}
	if health.Name() != "stockroom.Health" {
		t.Errorf("Name() = %q", health.Name())
	}

	sto := Factory.NewStorage()
	health.Register(sto)
	e := sto.CreateEntity()

	health.Add(sto, e, Health{Current: 4, Max: 8})
	if !health.Has(sto, e) {
		t.Fatal("entity should hold a Health")
	}
	health.GetFromEntity(sto, e).Current = 8

	hp, _ := GetComponent[Health](sto, e)
	if hp.Current != 8 {
		t.Errorf("Current = %d, expected 8", hp.Current)
	}

	health.Remove(sto, e)
	if health.Has(sto, e) || health.GetFromEntity(sto, e) != nil {
		t.Error("entity should no longer hold a Health")
	}
}

func TestGroupsExposeMasks(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	sto := Factory.NewStorage()
	posComp.Register(sto)
	velComp.Register(sto)
	populate(sto, []entitySetup{
		{[]Component{posComp}, 2},
		{[]Component{posComp, velComp}, 3},
	})

	velBit, _ := sto.BitFor(velComp)
	ids := map[uint32]bool{}
	for _, g := range sto.Groups() {
		ids[g.ID()] = true
		switch {
		case g.Mask().Test(velBit) && g.Len() != 3:
			t.Errorf("group %d with velocity holds %d entities", g.ID(), g.Len())
		case !g.Mask().Test(velBit) && g.Len() != 2:
			t.Errorf("group %d without velocity holds %d entities", g.ID(), g.Len())
		}
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 distinct group IDs, got %d", len(ids))
	}
}

func TestCursorCollect(t *testing.T) {
	posComp := FactoryNewComponent[Position]()
	velComp := FactoryNewComponent[Velocity]()
	sto := Factory.NewStorage()
	posComp.Register(sto)
	velComp.Register(sto)
	populate(sto, []entitySetup{
		{[]Component{posComp}, 2},
		{[]Component{posComp, velComp}, 3},
	})

	cursor := Factory.NewCursor(Factory.NewQuery().And(velComp), sto)
	ids := cursor.Collect()
	if len(ids) != 3 {
		t.Fatalf("collected %d entities, expected 3", len(ids))
	}
	for _, e := range ids {
		if !HasComponent[Velocity](sto, e) {
			t.Errorf("collected entity %d has no velocity", e)
		}
	}
	if sto.Locked() {
		t.Error("Collect should leave the storage unlocked")
	}
	if again := cursor.Collect(); len(again) != 3 {
		t.Errorf("a drained cursor starts over, collected %d", len(again))
	}
}
