package stockroom

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAddGet(t *testing.T) {
	pool := newPool[Position](0)

	pool.add(3, Position{X: 1, Y: 2})
	pool.add(0, Position{X: 5, Y: 6})

	assert.True(t, pool.Has(3))
	assert.True(t, pool.Has(0))
	assert.False(t, pool.Has(1))
	assert.False(t, pool.Has(100), "IDs beyond the sparse array are absent")

	got, ok := pool.Get(3)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, got)

	_, ok = pool.Get(1)
	assert.False(t, ok)
	assert.Nil(t, pool.GetMut(1))
	assert.Equal(t, 2, pool.Len())
}

func TestPoolDuplicateAddKeepsFirst(t *testing.T) {
	pool := newPool[Position](0)
	pool.add(1, Position{X: 1})
	pool.add(1, Position{X: 2})

	got, _ := pool.Get(1)
	assert.Equal(t, Position{X: 1}, got)
	assert.Equal(t, 1, pool.Len())
}

func TestPoolGetMutWritesThrough(t *testing.T) {
	pool := newPool[Health](0)
	pool.add(7, Health{Current: 10, Max: 10})

	ptr := pool.GetMut(7)
	require.NotNil(t, ptr)
	ptr.Current = 3

	got, _ := pool.Get(7)
	assert.Equal(t, 3, got.Current)
}

func TestPoolRemove(t *testing.T) {
	tests := []struct {
		name   string
		remove EntityID
	}{
		{"First slot", 10},
		{"Middle slot", 11},
		{"Last slot", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newPool[Position](0)
			pool.add(10, Position{X: 10})
			pool.add(11, Position{X: 11})
			pool.add(12, Position{X: 12})

			pool.remove(tt.remove)

			assert.False(t, pool.Has(tt.remove))
			assert.Equal(t, 2, pool.Len())
			for _, id := range []EntityID{10, 11, 12} {
				if id == tt.remove {
					continue
				}
				got, ok := pool.Get(id)
				require.True(t, ok, "entity %d lost its value", id)
				assert.Equal(t, float64(id), got.X)
			}
		})
	}
}

func TestPoolRemoveOnlyValue(t *testing.T) {
	pool := newPool[Position](0)
	pool.add(4, Position{X: 4})
	pool.remove(4)
	assert.False(t, pool.Has(4))
	assert.Equal(t, 0, pool.Len())

	pool.add(4, Position{X: 8})
	got, _ := pool.Get(4)
	assert.Equal(t, float64(8), got.X, "re-adding after removal stores the new value")
}

func TestPoolRemoveAbsentIsNoop(t *testing.T) {
	pool := newPool[Position](0)
	pool.add(1, Position{X: 1})
	pool.remove(2)
	pool.remove(500)
	assert.Equal(t, 1, pool.Len())
}

func TestPoolSwapRemovePreservesOthers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		pool := newPool[Position](0)
		expected := make(map[EntityID]Position)

		n := 1 + rng.Intn(40)
		for i := 0; i < n; i++ {
			id := EntityID(rng.Intn(200))
			if _, taken := expected[id]; taken {
				continue
			}
			value := Position{X: rng.Float64(), Y: rng.Float64()}
			pool.add(id, value)
			expected[id] = value
		}

		for id := range expected {
			if rng.Intn(2) == 0 {
				pool.remove(id)
				delete(expected, id)
			}
		}

		require.Equal(t, len(expected), pool.Len())
		for id, want := range expected {
			got, ok := pool.Get(id)
			require.True(t, ok, "round %d: entity %d missing", round, id)
			require.Equal(t, want, got, "round %d: entity %d", round, id)
		}
		for i, owner := range pool.Entities() {
			assert.Equal(t, expected[owner], pool.All()[i], "dense arrays must stay parallel")
		}
	}
}

func TestPoolAllAndAllMut(t *testing.T) {
	pool := newPool[Position](0)
	pool.add(0, Position{X: 1})
	pool.add(1, Position{X: 2})

	copied := pool.All()
	copied[0].X = 100
	got, _ := pool.Get(0)
	assert.Equal(t, float64(1), got.X, "All returns a copy")

	for i := range pool.AllMut() {
		pool.AllMut()[i].X *= 10
	}
	got, _ = pool.Get(1)
	assert.Equal(t, float64(20), got.X, "AllMut writes go to storage")
	assert.ElementsMatch(t, []EntityID{0, 1}, pool.Entities())
}

func TestPoolTypeIdentity(t *testing.T) {
	var erased erasedPool = newPool[Velocity](0)
	assert.Equal(t, reflect.TypeFor[Velocity](), erased.typeIdentity())
	erased.remove(0)
	assert.False(t, erased.has(0))
	assert.Equal(t, 0, erased.len())
}
