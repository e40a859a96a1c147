package engine

import (
	"io"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config controls the engine dimensions and homeostasis tuning.
type Config struct {
	Width  int
	Height int

	// Tile dimensions for the cooperative dispatch groups. They do not have
	// to divide the grid dimensions; edge tiles are clamped.
	TileWidth  int
	TileHeight int

	// SeedDensity is the initial alive probability per cell.
	SeedDensity float64
	// FloorFraction is the homeostasis population floor as a fraction of
	// total cells. Zero disables reseeding entirely.
	FloorFraction float64
	// ReseedChance is the revival probability per eligible dead cell per
	// generation while the population sits below the floor.
	ReseedChance float64

	// Salt is XORed into every coordinate seed. Salt 0 is the canonical,
	// cross-implementation reproducible stream.
	Salt uint32

	// Workers bounds the number of tile goroutines in flight.
	// Zero means GOMAXPROCS.
	Workers int

	// Logger receives lifecycle events. Nil disables logging.
	Logger *logrus.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:         256,
		Height:        256,
		TileWidth:     16,
		TileHeight:    16,
		SeedDensity:   0.10,
		FloorFraction: 0.10,
		ReseedChance:  0.001,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0:
		return &ConfigError{Field: "width", Reason: "must be positive"}
	case c.Height <= 0:
		return &ConfigError{Field: "height", Reason: "must be positive"}
	case c.Width > 1<<16:
		return &ConfigError{Field: "width", Reason: "exceeds the 16-bit coordinate seed range"}
	case c.Height > 1<<16:
		return &ConfigError{Field: "height", Reason: "exceeds the 16-bit coordinate seed range"}
	case c.TileWidth <= 0:
		return &ConfigError{Field: "tile_w", Reason: "must be positive"}
	case c.TileHeight <= 0:
		return &ConfigError{Field: "tile_h", Reason: "must be positive"}
	case c.SeedDensity < 0 || c.SeedDensity > 1:
		return &ConfigError{Field: "seed_density", Reason: "must be within [0, 1]"}
	case c.FloorFraction < 0 || c.FloorFraction > 1:
		return &ConfigError{Field: "floor_fraction", Reason: "must be within [0, 1]"}
	case c.ReseedChance < 0 || c.ReseedChance > 1:
		return &ConfigError{Field: "reseed_chance", Reason: "must be within [0, 1]"}
	}
	return nil
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["tile_w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TileWidth = parsed
		}
	}
	if v, ok := cfg["tile_h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TileHeight = parsed
		}
	}
	if v, ok := cfg["seed_density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.SeedDensity = parsed
		}
	}
	if v, ok := cfg["floor_fraction"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.FloorFraction = parsed
		}
	}
	if v, ok := cfg["reseed_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.ReseedChance = parsed
		}
	}
	if v, ok := cfg["salt"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.Salt = uint32(parsed)
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	return c
}
