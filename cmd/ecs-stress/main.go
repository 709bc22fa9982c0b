package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/minecs/ecs"
	"github.com/plus3/minecs/game"
	"github.com/plus3/minecs/internal/config"
	"github.com/plus3/minecs/internal/scenario"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to a TOML config file.")
	scenarioPath := flag.String("scenario", "", "Path to a YAML scenario file, overrides the config.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for, overrides the config.")
	entityCount := flag.Int("entities", -1, "The initial number of entities to create, overrides the config.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	debug := flag.Bool("debug", false, "Dump the world at debug level once the run is over.")
	flag.Parse()

	// 1. Config and logger
	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *scenarioPath != "" {
		cfg.Simulation.Scenario = *scenarioPath
	}
	if *duration > 0 {
		cfg.Simulation.Duration = *duration
	}
	if *entityCount >= 0 {
		cfg.Simulation.Entities = *entityCount
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "init logger")
	}
	defer log.Sync()

	sc := scenario.Default()
	if cfg.Simulation.Scenario != "" {
		if sc, err = scenario.Load(cfg.Simulation.Scenario); err != nil {
			return err
		}
	}

	// 2. World and systems
	world := ecs.NewWorld(ecs.WithLogger(log))
	defer world.Close()

	keys := game.NewKeyState()
	handles, err := game.Setup(world, keys, log)
	if err != nil {
		return err
	}

	// 3. Initial population
	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	log.Info("populating world", zap.Int("entities", cfg.Simulation.Entities))
	for i := 0; i < cfg.Simulation.Entities; i++ {
		sc.Pick(rng).Spawn(world, handles)
	}

	// 4. Simulation loop
	report := &Report{
		Duration:       cfg.Simulation.Duration,
		Entities:       cfg.Simulation.Entities,
		SpawnPerTick:   cfg.Simulation.SpawnPerTick,
		Systems:        world.Systems().Len(),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", zap.Duration("duration", cfg.Simulation.Duration))
	startTime := time.Now()
	deadline := startTime.Add(cfg.Simulation.Duration)
	var tick int64

	for time.Now().Before(deadline) {
		sc.Apply(tick, keys)
		for i := 0; i < cfg.Simulation.SpawnPerTick; i++ {
			sc.Pick(rng).Spawn(world, handles)
		}

		updateStart := time.Now()
		if err := world.Run(); err != nil {
			return eris.Wrapf(err, "tick %d", tick)
		}
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		tick++

		if cfg.Simulation.TickInterval > 0 {
			time.Sleep(cfg.Simulation.TickInterval)
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = tick
	report.UpdateTime.Finalize()
	report.World = world.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished",
		zap.Int64("ticks", tick),
		zap.Int("live_entities", report.World.Entities),
		zap.Int64("deleted_entities", report.World.Deleted),
	)

	if *debug {
		world.Debug()
	}

	// 5. Report
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "generate report")
	}
	fmt.Println("--- End of Report ---")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
