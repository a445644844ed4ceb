package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/suderio/arena/internal/engine"
)

// Prefix is prepended to every environment variable name.
const Prefix = "ARENA_"

// Config is the application configuration. Every field can be set from an ARENA_ variable;
// the CLI layers its config file and flags on top.
type Config struct {
	DataDir    string `env:"DATA_DIR"`
	BattlesDir string `env:"BATTLES_DIR" envDefault:"./battles"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	Seed          int64 `env:"SEED"`
	Deterministic bool  `env:"DETERMINISTIC"`

	RandomMin      int     `env:"RANDOM_MIN" envDefault:"85"`
	RandomMax      int     `env:"RANDOM_MAX" envDefault:"100"`
	CritMultiplier float64 `env:"CRIT_MULTIPLIER" envDefault:"1.5"`
	STABMultiplier float64 `env:"STAB_MULTIPLIER" envDefault:"1.5"`

	Weather      string `env:"WEATHER"`
	WeatherTurns int    `env:"WEATHER_TURNS" envDefault:"5"`
	FieldTurns   int    `env:"FIELD_TURNS" envDefault:"5"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return Parse(nil)
}

// Parse reads the configuration from the given variables, or from the process environment when vars is nil.
func Parse(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{Prefix: Prefix}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level resolves LogLevel to a zerolog level.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// DamageConfig converts the damage settings. Deterministic mode drops the random roll and critical hits.
func (c *Config) DamageConfig() engine.DamageConfig {
	d := engine.DefaultDamageConfig()
	if c.Deterministic {
		d = engine.DeterministicDamageConfig()
	}
	d.RandomMin = c.RandomMin
	d.RandomMax = c.RandomMax
	d.CritMultiplier = c.CritMultiplier
	d.STABMultiplier = c.STABMultiplier
	return d
}

// EngineConfig converts the configuration into validated battle rules.
func (c *Config) EngineConfig() (engine.Config, error) {
	e := engine.DefaultConfig()
	e.Damage = c.DamageConfig()
	e.WeatherTurns = c.WeatherTurns
	e.FieldTurns = c.FieldTurns
	if c.Weather != "" {
		w := engine.Weather(strings.ToLower(c.Weather))
		switch w {
		case engine.WeatherSun, engine.WeatherRain, engine.WeatherSandstorm, engine.WeatherHail, engine.WeatherFog:
		default:
			return engine.Config{}, fmt.Errorf("unknown weather %q", c.Weather)
		}
		e.StartWeather = w
	}
	if err := e.Validate(); err != nil {
		return engine.Config{}, err
	}
	return e, nil
}
