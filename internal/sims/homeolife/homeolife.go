package homeolife

import (
	"github.com/sirupsen/logrus"

	"homeolife/internal/core"
	"homeolife/internal/engine"
)

// Sim adapts the homeostatic life engine to the core.Sim contract used by
// the registry and the viewer hosts.
type Sim struct {
	eng *engine.Engine
	log *logrus.Logger
}

// New returns a simulation with the provided dimensions using defaults.
func New(w, h int) (*Sim, error) {
	cfg := engine.DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig wraps an engine built from cfg.
func NewWithConfig(cfg engine.Config) (*Sim, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Sim{eng: eng, log: cfg.Logger}, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "homeolife" }

// Size returns the grid dimensions.
func (s *Sim) Size() core.Size { return s.eng.Size() }

// Cells exposes the current grid values.
func (s *Sim) Cells() []uint8 { return s.eng.Cells() }

// Reset reseeds the board; the seed becomes the engine's coordinate salt, so
// seed 0 reproduces the canonical stream.
func (s *Sim) Reset(seed int64) {
	s.eng.Reset(uint32(seed))
}

// Step advances the engine by one tick. While kernels are still loading this
// is a no-op; a dispatch failure is fatal, matching the engine's no-retry
// contract.
func (s *Sim) Step() {
	if err := s.eng.Tick(); err != nil {
		s.logger().WithError(err).Fatal("simulation tick failed")
	}
}

// Population reports the settled alive-cell count, or -1 before the first
// generation settles.
func (s *Sim) Population() int { return s.eng.Population() }

// Generation reports completed generations.
func (s *Sim) Generation() int { return s.eng.Generation() }

// Parameters exposes the engine tunables.
func (s *Sim) Parameters() core.ParameterSnapshot { return s.eng.Parameters() }

func (s *Sim) logger() *logrus.Logger {
	if s.log != nil {
		return s.log
	}
	return logrus.StandardLogger()
}

func init() {
	core.Register("homeolife", func(cfg map[string]string) core.Sim {
		// FromMap only accepts values that pass validation, so construction
		// cannot fail here.
		s, err := NewWithConfig(engine.FromMap(cfg))
		if err != nil {
			panic(err)
		}
		return s
	})
}
