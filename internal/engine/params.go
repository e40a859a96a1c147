package engine

import (
	"strconv"

	"homeolife/internal/core"
)

// Parameters exposes the engine tunables as a snapshot for reporting.
func (e *Engine) Parameters() core.ParameterSnapshot {
	cfg := e.cfg
	groups := []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("w", "Width", cfg.Width),
				intParam("h", "Height", cfg.Height),
				intParam("tile_w", "Tile width", cfg.TileWidth),
				intParam("tile_h", "Tile height", cfg.TileHeight),
				intParam("workers", "Workers", cfg.Workers),
			},
		},
		{
			Name: "Seeding",
			Params: []core.Parameter{
				floatParam("seed_density", "Seed density", cfg.SeedDensity),
				intParam("salt", "Salt", int(cfg.Salt)),
			},
		},
		{
			Name: "Homeostasis",
			Params: []core.Parameter{
				floatParam("floor_fraction", "Population floor fraction", cfg.FloorFraction),
				floatParam("reseed_chance", "Reseed chance", cfg.ReseedChance),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
