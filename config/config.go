// Package config loads the small set of runtime knobs a chunked pool needs
// before it can be constructed: the chunk-bit that fixes chunk
// count/capacity, the id-stack's initial sizing multiplier, and the
// minimum log level. None of this is part of the storage core itself —
// spec.md never mandates a config surface — but every one of these knobs
// is a real constructor argument, so giving them a loadable, validated home
// here keeps call sites from hardcoding magic numbers.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables a façade passes into the core at world-creation
// time.
type Config struct {
	// ChunkBit sets the chunk/object split of the packed id; must be in
	// [8, 16] per spec.md §3.
	ChunkBit int `toml:"chunk_bit"`
	// IdStackCapacityMultiplier sizes a fresh tenant's id-stack as
	// multiplier x chunkCapacity.
	IdStackCapacityMultiplier int `toml:"id_stack_capacity_multiplier"`
	// LogLevel is one of "trace", "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
}

// Default returns the configuration the façade uses when none is supplied:
// chunkBit 8 (256-entity chunks, matching spec.md §8's worked examples), an
// 8x id-stack multiplier, and info-level logging.
func Default() Config {
	return Config{
		ChunkBit:                  8,
		IdStackCapacityMultiplier: 8,
		LogLevel:                  "info",
	}
}

// Validate checks the constraints the core relies on its caller to have
// already enforced (spec.md §7's "type mismatch at create" / façade-level
// validation policy applies here too: the core trusts a Config it is
// handed).
func (c Config) Validate() error {
	if c.ChunkBit < 8 || c.ChunkBit > 16 {
		return fmt.Errorf("config: chunk_bit must be in [8,16], got %d", c.ChunkBit)
	}
	if c.IdStackCapacityMultiplier < 1 {
		return fmt.Errorf("config: id_stack_capacity_multiplier must be >= 1, got %d", c.IdStackCapacityMultiplier)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Option mutates a Config in place, applied in order over Default() by
// Create-style constructors in the world façade.
type Option func(*Config)

// WithChunkBit overrides the packed-id chunk/object split.
func WithChunkBit(bit int) Option {
	return func(c *Config) { c.ChunkBit = bit }
}

// WithLogLevel overrides the minimum emitted log level.
func WithLogLevel(level string) Option {
	return func(c *Config) { c.LogLevel = level }
}

// WithStackCapacityMultiplier overrides the id-stack's initial-capacity
// multiplier.
func WithStackCapacityMultiplier(multiplier int) Option {
	return func(c *Config) { c.IdStackCapacityMultiplier = multiplier }
}

// Apply returns Default() with every opt applied in order.
func Apply(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Load reads a Config from a TOML file at path, filling in defaults for any
// field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
