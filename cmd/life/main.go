package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"homeolife/internal/engine"
	"homeolife/internal/report"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "life",
	Short: "Headless homeostatic Game-of-Life runner",
	Long: `Advances the homeostatic Game-of-Life engine without a window and logs the
population trajectory. Useful for tuning homeostasis parameters and for
regression comparisons via --summary.`,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "optional YAML config file")
	flags.Int("width", 256, "grid width")
	flags.Int("height", 256, "grid height")
	flags.Int("tile-width", 16, "dispatch tile width")
	flags.Int("tile-height", 16, "dispatch tile height")
	flags.Int("workers", 0, "tile goroutines in flight (0 = GOMAXPROCS)")
	flags.Float64("seed-density", 0.10, "initial alive probability")
	flags.Float64("floor-fraction", 0.10, "homeostasis floor as a fraction of total cells")
	flags.Float64("reseed-chance", 0.001, "revival chance per eligible dead cell")
	flags.Uint32("salt", 0, "coordinate seed salt (0 = canonical stream)")
	flags.Int("generations", 1000, "generations to run")
	flags.Int("report-every", 100, "log population every N generations")
	flags.String("summary", "", "write a YAML run summary to this path")
	flags.String("log-level", "info", "debug, info, warn or error")

	for key, name := range map[string]string{
		"grid.width":         "width",
		"grid.height":        "height",
		"grid.tile_width":    "tile-width",
		"grid.tile_height":   "tile-height",
		"grid.workers":       "workers",
		"sim.seed_density":   "seed-density",
		"sim.floor_fraction": "floor-fraction",
		"sim.reseed_chance":  "reseed-chance",
		"sim.salt":           "salt",
		"run.generations":    "generations",
		"run.report_every":   "report-every",
		"run.summary":        "summary",
		"run.log_level":      "log-level",
	} {
		viper.BindPFlag(key, flags.Lookup(name))
	}
	viper.SetEnvPrefix("HOMEOLIFE")
	viper.AutomaticEnv()
}

func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func run(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	log := setupLogger(viper.GetString("run.log_level"))

	cfg := engine.DefaultConfig()
	cfg.Width = viper.GetInt("grid.width")
	cfg.Height = viper.GetInt("grid.height")
	cfg.TileWidth = viper.GetInt("grid.tile_width")
	cfg.TileHeight = viper.GetInt("grid.tile_height")
	cfg.Workers = viper.GetInt("grid.workers")
	cfg.SeedDensity = viper.GetFloat64("sim.seed_density")
	cfg.FloorFraction = viper.GetFloat64("sim.floor_fraction")
	cfg.ReseedChance = viper.GetFloat64("sim.reseed_chance")
	cfg.Salt = viper.GetUint32("sim.salt")
	cfg.Logger = log

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	gens := viper.GetInt("run.generations")
	every := viper.GetInt("run.report_every")
	if every <= 0 {
		every = 1
	}

	start := time.Now()
	var history []report.Sample
	for eng.Generation() < gens {
		if err := eng.Tick(); err != nil {
			return err
		}
		if eng.Phase() != engine.PhaseUpdate {
			time.Sleep(time.Millisecond)
			continue
		}
		g := eng.Generation()
		if g%every == 0 || g == gens {
			pop := eng.Population()
			log.WithFields(logrus.Fields{"generation": g, "population": pop}).Info("advanced")
			history = append(history, report.Sample{Generation: g, Population: pop})
		}
	}
	log.WithFields(logrus.Fields{
		"generations": eng.Generation(),
		"population":  eng.Population(),
		"elapsed":     time.Since(start).Round(time.Millisecond),
	}).Info("run complete")

	if path := viper.GetString("run.summary"); path != "" {
		s := &report.Summary{
			Parameters:  report.Flatten(eng.Parameters()),
			Generations: eng.Generation(),
			Population:  eng.Population(),
			History:     history,
		}
		if err := s.Write(path); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		log.WithField("path", path).Info("wrote run summary")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
