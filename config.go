package stockroom

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const defaultInitialCapacity = 64

type storageConfig struct {
	logger          zerolog.Logger
	queryCache      bool
	componentLimit  int
	initialCapacity int
}

func defaultStorageConfig() storageConfig {
	return storageConfig{
		logger:          zerolog.Nop(),
		initialCapacity: defaultInitialCapacity,
	}
}

// Option configures a Storage at construction.
type Option func(*storageConfig)

// WithLogger sets the logger used for registration, destruction and deferred-op events.
// Storage is silent by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *storageConfig) {
		c.logger = logger
	}
}

// WithQueryCache memoizes query results until the next change to any entity's mask.
func WithQueryCache(enabled bool) Option {
	return func(c *storageConfig) {
		c.queryCache = enabled
	}
}

// WithComponentLimit caps the number of component types registered at once. Zero, the
// default, means no cap.
func WithComponentLimit(limit int) Option {
	return func(c *storageConfig) {
		c.componentLimit = limit
	}
}

// WithInitialCapacity presizes entity records and new pools.
func WithInitialCapacity(capacity int) Option {
	return func(c *storageConfig) {
		if capacity > 0 {
			c.initialCapacity = capacity
		}
	}
}

// Settings mirrors the storage options as environment variables.
//
//	STOCKROOM_QUERY_CACHE=true
//	STOCKROOM_COMPONENT_LIMIT=128
//	STOCKROOM_INITIAL_CAPACITY=4096
//	STOCKROOM_LOG_LEVEL=debug
type Settings struct {
	QueryCache      bool   `config:"STOCKROOM_QUERY_CACHE"`
	ComponentLimit  int    `config:"STOCKROOM_COMPONENT_LIMIT"`
	InitialCapacity int    `config:"STOCKROOM_INITIAL_CAPACITY"`
	LogLevel        string `config:"STOCKROOM_LOG_LEVEL"`
}

// LoadSettings reads Settings from the environment. Unset variables keep their zero value.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := jlconfig.FromEnv().To(&s); err != nil {
		return Settings{}, eris.Wrap(err, "failed to load stockroom settings from environment")
	}
	return s, nil
}

// Level parses LogLevel, falling back to info.
func (s Settings) Level() zerolog.Level {
	if s.LogLevel == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Options converts the settings into storage options. The logger is left to the caller.
func (s Settings) Options() []Option {
	return []Option{
		WithQueryCache(s.QueryCache),
		WithComponentLimit(s.ComponentLimit),
		WithInitialCapacity(s.InitialCapacity),
	}
}
