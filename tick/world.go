// Package tick drives systems over a stockroom.Storage once per tick with a fixed step.
package tick

import (
	"time"

	"github.com/armon/go-metrics"
	"github.com/rs/zerolog"

	"github.com/TheBitDrifter/stockroom"
)

// DefaultStep is the elapsed time handed to systems each tick.
const DefaultStep = 1.0 / 60.0

// System is an update routine. It may call anything on the storage during its turn but
// must not keep the pointer afterwards.
type System interface {
	Update(dt float64, storage *stockroom.Storage)
}

type SystemFunc func(dt float64, storage *stockroom.Storage)

func (f SystemFunc) Update(dt float64, storage *stockroom.Storage) {
	f(dt, storage)
}

type registeredSystem struct {
	name   string
	system System
	logger zerolog.Logger
}

// World owns a storage and the ordered list of systems that run against it.
type World struct {
	storage *stockroom.Storage
	systems []registeredSystem
	step    float64
	tick    uint64
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

type Option func(*World)

func WithStep(step float64) Option {
	return func(w *World) {
		if step > 0 {
			w.step = step
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithMetrics records a "tick" counter and a timer per system under "system.<name>".
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *World) {
		w.metrics = m
	}
}

func NewWorld(storage *stockroom.Storage, opts ...Option) *World {
	w := &World{
		storage: storage,
		step:    DefaultStep,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Storage() *stockroom.Storage {
	return w.storage
}

// RegisterSystem appends a system; systems run in registration order.
func (w *World) RegisterSystem(name string, system System) *World {
	w.systems = append(w.systems, registeredSystem{
		name:   name,
		system: system,
		logger: w.logger.With().Str("system", name).Logger(),
	})
	return w
}

func (w *World) SystemNames() []string {
	names := make([]string, len(w.systems))
	for i, rs := range w.systems {
		names[i] = rs.name
	}
	return names
}

// Tick is the number of completed updates.
func (w *World) Tick() uint64 {
	return w.tick
}

// Update runs every system once, in order, with the fixed step.
func (w *World) Update() {
	for _, rs := range w.systems {
		start := time.Now()
		rs.system.Update(w.step, w.storage)
		if w.metrics != nil {
			w.metrics.MeasureSince([]string{"system", rs.name}, start)
		}
		rs.logger.Trace().Uint64("tick", w.tick).Dur("took", time.Since(start)).Msg("system done")
	}
	w.tick++
	if w.metrics != nil {
		w.metrics.IncrCounter([]string{"tick"}, 1)
	}
}

// Run performs n updates.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Update()
	}
}
