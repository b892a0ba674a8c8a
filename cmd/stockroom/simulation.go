package main

import (
	"math"
	"math/rand"

	"github.com/TheBitDrifter/stockroom"
	"github.com/TheBitDrifter/stockroom/tick"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

// restingSpeed is the speed below which friction takes an entity's velocity away.
const restingSpeed = 0.05

// populate creates n entities with a position, giving roughly ratio of them a velocity.
// It returns the number that got one.
func populate(sto *stockroom.Storage, rng *rand.Rand, n int, ratio float64) int {
	moving := 0
	for i := 0; i < n; i++ {
		e := sto.CreateEntity()
		stockroom.AddComponent(sto, e, Position{X: rng.Float64() * 100, Y: rng.Float64() * 100})
		if rng.Float64() < ratio {
			stockroom.AddComponent(sto, e, Velocity{X: rng.NormFloat64() * 10, Y: rng.NormFloat64() * 10})
			moving++
		}
	}
	return moving
}

// movement integrates velocity into position for every moving entity.
func movement(dt float64, sto *stockroom.Storage) {
	ids, ok := stockroom.QueryPair[Position, Velocity](sto)
	if !ok {
		return
	}
	for _, id := range ids {
		pos, vel, found := stockroom.GetTwoComponentsMut[Position, Velocity](sto, id)
		if !found {
			continue
		}
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	}
}

// drift nudges every position, moving or not.
func drift(dt float64, sto *stockroom.Storage) {
	positions := stockroom.AllComponentsMut[Position](sto)
	for i := range positions {
		positions[i].Y -= dt
	}
}

// newFriction slows moving entities and takes the velocity away once they come to rest.
// Removal is deferred because the cursor holds the storage lock.
func newFriction(factor float64) tick.SystemFunc {
	velocity := stockroom.FactoryNewComponent[Velocity]()
	query := stockroom.Factory.NewQuery().And(velocity)

	return func(_ float64, sto *stockroom.Storage) {
		cursor := stockroom.Factory.NewCursor(query, sto)
		for cursor.Next() {
			vel := velocity.GetFromCursor(cursor)
			vel.X *= factor
			vel.Y *= factor
			if math.Hypot(vel.X, vel.Y) < restingSpeed {
				stockroom.EnqueueRemoveComponent[Velocity](sto, cursor.Entity())
			}
		}
	}
}
