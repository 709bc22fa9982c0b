package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	Duration     time.Duration `toml:"duration"`
	TickInterval time.Duration `toml:"tick_interval"` // 0 runs ticks back to back
	Entities     int           `toml:"entities"`      // initial population
	SpawnPerTick int           `toml:"spawn_per_tick"`
	Seed         int64         `toml:"seed"`
	Scenario     string        `toml:"scenario"` // optional YAML scenario path
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML config data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrap(err, "parse config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Duration:     10 * time.Second,
			TickInterval: 0,
			Entities:     10000,
			SpawnPerTick: 10,
			Seed:         1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	if c.Simulation.Duration <= 0 {
		return eris.Errorf("simulation.duration must be positive, got %s", c.Simulation.Duration)
	}
	if c.Simulation.TickInterval < 0 {
		return eris.Errorf("simulation.tick_interval must not be negative, got %s", c.Simulation.TickInterval)
	}
	if c.Simulation.Entities < 0 || c.Simulation.SpawnPerTick < 0 {
		return eris.New("simulation entity counts must not be negative")
	}
	return nil
}
