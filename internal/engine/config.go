package engine

// Config tunes a battle.
type Config struct {
	Damage DamageConfig `json:"damage"`

	// StartWeather is in effect from turn one; StartWeatherTurns of 0 keeps it for the whole battle.
	StartWeather      Weather `json:"start_weather,omitempty"`
	StartWeatherTurns int     `json:"start_weather_turns,omitempty"`

	WeatherTurns        int     `json:"weather_turns"`
	FieldTurns          int     `json:"field_turns"`
	SleepMin            int     `json:"sleep_min"`
	SleepMax            int     `json:"sleep_max"`
	ThawChance          float64 `json:"thaw_chance"`
	FullParalysisChance float64 `json:"full_paralysis_chance"`
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		Damage:              DefaultDamageConfig(),
		WeatherTurns:        5,
		FieldTurns:          5,
		SleepMin:            1,
		SleepMax:            3,
		ThawChance:          0.2,
		FullParalysisChance: 0.25,
	}
}

// Validate checks every tunable.
func (c Config) Validate() error {
	if err := c.Damage.Validate(); err != nil {
		return err
	}
	if c.WeatherTurns <= 0 || c.FieldTurns <= 0 {
		return NewError(CodeValidation, "weather and field durations must be positive")
	}
	if c.SleepMin < 1 || c.SleepMax < c.SleepMin {
		return NewError(CodeValidation, "invalid sleep range")
	}
	if c.ThawChance < 0 || c.ThawChance > 1 || c.FullParalysisChance < 0 || c.FullParalysisChance > 1 {
		return NewError(CodeValidation, "chances must be within [0,1]")
	}
	if c.StartWeatherTurns < 0 {
		return NewError(CodeValidation, "start weather turns cannot be negative")
	}
	return nil
}
