package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DamageConfig tunes the damage formula.
type DamageConfig struct {
	EnableRandom     bool    `json:"enable_random"`
	RandomMin        int     `json:"random_min"`
	RandomMax        int     `json:"random_max"`
	EnableCritical   bool    `json:"enable_critical"`
	CritMultiplier   float64 `json:"crit_multiplier"`
	STABMultiplier   float64 `json:"stab_multiplier"`
	SpreadMultiplier float64 `json:"spread_multiplier"`
}

// DefaultDamageConfig is the standard randomized formula.
func DefaultDamageConfig() DamageConfig {
	return DamageConfig{
		EnableRandom:     true,
		RandomMin:        85,
		RandomMax:        100,
		EnableCritical:   true,
		CritMultiplier:   1.5,
		STABMultiplier:   1.5,
		SpreadMultiplier: 0.75,
	}
}

// DeterministicDamageConfig drops the random factor and critical hits, which makes results cacheable.
func DeterministicDamageConfig() DamageConfig {
	cfg := DefaultDamageConfig()
	cfg.EnableRandom = false
	cfg.EnableCritical = false
	return cfg
}

// Validate checks the ranges of the configuration.
func (c DamageConfig) Validate() error {
	if c.RandomMin <= 0 || c.RandomMax > 100 || c.RandomMin > c.RandomMax {
		return NewError(CodeValidation, fmt.Sprintf("invalid random range %d-%d", c.RandomMin, c.RandomMax))
	}
	if c.CritMultiplier < 1 || c.STABMultiplier < 1 {
		return NewError(CodeValidation, "crit and STAB multipliers must be at least 1")
	}
	if c.SpreadMultiplier <= 0 || c.SpreadMultiplier > 1 {
		return NewError(CodeValidation, "spread multiplier must be in (0,1]")
	}
	return nil
}

func (c DamageConfig) cacheable() bool {
	return !c.EnableRandom && !c.EnableCritical
}

// DamageBreakdown records every stage of one calculation, for logs and UI.
type DamageBreakdown struct {
	Fixed        bool    `json:"fixed"`
	BasePower    int     `json:"base_power"`
	Attack       int     `json:"attack"`
	Defense      int     `json:"defense"`
	AttackStage  int     `json:"attack_stage"`
	DefenseStage int     `json:"defense_stage"`
	LevelFactor  float64 `json:"level_factor"`
	BaseDamage   int     `json:"base_damage"`
	Critical     float64 `json:"critical"`
	Type         float64 `json:"type"`
	STAB         float64 `json:"stab"`
	Weather      float64 `json:"weather"`
	Item         float64 `json:"item"`
	Ability      float64 `json:"ability"`
	Field        float64 `json:"field"`
	Status       float64 `json:"status"`
	Random       float64 `json:"random"`
}

// DamageResult is the outcome of one calculation.
type DamageResult struct {
	Damage        int             `json:"damage"`
	Breakdown     DamageBreakdown `json:"breakdown"`
	Critical      bool            `json:"critical"`
	STAB          bool            `json:"stab"`
	Immune        bool            `json:"immune"`
	Effectiveness float64         `json:"effectiveness"`
	Percent       float64         `json:"percent"`
}

// weatherModifiers is keyed by weather then move type.
var weatherModifiers = map[Weather]map[Type]float64{
	WeatherSun:  {TypeFire: 1.5, TypeWater: 0.5},
	WeatherRain: {TypeWater: 1.5, TypeFire: 0.5},
}

// WeatherModifier returns the weather factor for a move type.
func WeatherModifier(w Weather, t Type) float64 {
	if m, ok := weatherModifiers[w][t]; ok {
		return m
	}
	return 1
}

type cacheKey struct {
	attackerSpecies int
	defenderSpecies int
	moveID          int
	attackerLevel   int
	weather         Weather
	situation       string
}

// DamageCalculator runs the staged damage formula.
// It is not safe for concurrent use; a battle drives it from a single goroutine.
type DamageCalculator struct {
	cfg   DamageConfig
	chart *TypeChart
	mods  *ModifierRegistry
	cache map[cacheKey]DamageResult
}

// NewDamageCalculator wires a calculator. A nil chart or registry gets the standard chart or an empty registry.
func NewDamageCalculator(cfg DamageConfig, chart *TypeChart, mods *ModifierRegistry) *DamageCalculator {
	if chart == nil {
		chart = NewTypeChart()
	}
	if mods == nil {
		mods = NewModifierRegistry()
	}
	return &DamageCalculator{
		cfg:   cfg,
		chart: chart,
		mods:  mods,
		cache: make(map[cacheKey]DamageResult),
	}
}

// Config returns the active configuration.
func (dc *DamageCalculator) Config() DamageConfig { return dc.cfg }

// Chart returns the type chart in use.
func (dc *DamageCalculator) Chart() *TypeChart { return dc.chart }

// Modifiers returns the modifier registry in use.
func (dc *DamageCalculator) Modifiers() *ModifierRegistry { return dc.mods }

// ClearCache drops every memoized result. Call it after static data changes.
func (dc *DamageCalculator) ClearCache() {
	dc.cache = make(map[cacheKey]DamageResult)
}

// CacheSize reports how many results are memoized.
func (dc *DamageCalculator) CacheSize() int {
	return len(dc.cache)
}

// Calculate computes the damage of move against a single target.
func (dc *DamageCalculator) Calculate(attacker, defender *Combatant, move *Move, field *Field, rng RNG) (*DamageResult, error) {
	return dc.calculate(attacker, defender, move, field, rng, false)
}

// CalculateSpread is Calculate for a move that hit more than one target this action.
func (dc *DamageCalculator) CalculateSpread(attacker, defender *Combatant, move *Move, field *Field, rng RNG) (*DamageResult, error) {
	return dc.calculate(attacker, defender, move, field, rng, true)
}

func (dc *DamageCalculator) calculate(attacker, defender *Combatant, move *Move, field *Field, rng RNG, spread bool) (*DamageResult, error) {
	if attacker == nil || defender == nil {
		return nil, missingData("attacker and defender are required")
	}
	if move == nil {
		return nil, missingData("move is required")
	}
	if field == nil {
		field = &Field{}
	}

	effectiveness := dc.chart.Effectiveness(move.Type, defender.Types)

	// 1. fixed damage and non-damaging guard
	if move.Fixed != nil {
		return dc.fixed(attacker, defender, move, effectiveness)
	}
	if move.Category == CategoryStatus && move.Power <= 0 {
		return nil, ErrNotDamaging
	}
	if move.Power <= 0 {
		return nil, missingData("move %d has no base power", move.ID)
	}
	if attacker.Level <= 0 {
		return nil, missingData("%s has no level", attacker.ID)
	}

	var key cacheKey
	if dc.cfg.cacheable() {
		key = dc.keyFor(attacker, defender, move, field, spread)
		if cached, ok := dc.cache[key]; ok {
			res := cached
			return &res, nil
		}
	}

	// 2. stat resolution
	atkStat, defStat := StatAttack, StatDefense
	if move.Category == CategorySpecial {
		atkStat, defStat = StatSpAttack, StatSpDefense
	}
	rawAtk, rawDef := attacker.Stats.Get(atkStat), defender.Stats.Get(defStat)
	if rawAtk <= 0 || rawDef <= 0 {
		return nil, missingData("%s or %s has no %s/%s stat", attacker.ID, defender.ID, atkStat, defStat)
	}
	bd := DamageBreakdown{
		BasePower:    move.Power,
		AttackStage:  attacker.Stage(atkStat),
		DefenseStage: defender.Stage(defStat),
	}
	bd.Attack = max(1, int(float64(rawAtk)*StageMultiplier(bd.AttackStage)))
	bd.Defense = max(1, int(float64(rawDef)*StageMultiplier(bd.DefenseStage)))

	// 3. base formula
	bd.LevelFactor = 2*float64(attacker.Level)/5 + 2
	bd.BaseDamage = int(math.Floor(bd.LevelFactor*float64(move.Power)*float64(bd.Attack)/float64(bd.Defense)/50)) + 2

	ctx := &ModifierContext{
		Attacker:      attacker,
		Defender:      defender,
		Move:          move,
		Field:         field,
		Effectiveness: effectiveness,
	}
	res := &DamageResult{Effectiveness: effectiveness}

	// 4. critical hit
	bd.Critical = 1
	if dc.cfg.EnableCritical && rng != nil {
		stage := move.CritStage + dc.mods.CritBonus(ctx)
		if rng.Chance(CritChance(stage)) {
			res.Critical = true
			bd.Critical = dc.cfg.CritMultiplier
		}
	}

	// 5. type effectiveness
	bd.Type = effectiveness

	// 6. STAB
	bd.STAB = 1
	if attacker.HasType(move.Type) {
		res.STAB = true
		bd.STAB = dc.mods.STAB(ctx, dc.cfg.STABMultiplier)
	}

	// 7. weather
	bd.Weather = WeatherModifier(field.Weather, move.Type)

	// 8. items and abilities
	bd.Item = dc.mods.ItemMultiplier(ctx)
	bd.Ability = dc.mods.AbilityMultiplier(ctx)

	// 9. field effects
	bd.Field = 1
	if move.Category == CategoryPhysical && field.HasEffect(FieldReflect, defender.SideID) {
		bd.Field *= 0.5
	}
	if move.Category == CategorySpecial && field.HasEffect(FieldLightScreen, defender.SideID) {
		bd.Field *= 0.5
	}
	if spread {
		bd.Field *= dc.cfg.SpreadMultiplier
	}

	// 10. status
	bd.Status = 1
	if attacker.Status == StatusBurn && move.Category == CategoryPhysical {
		bd.Status = 0.5
	}

	// 11. random factor
	bd.Random = 1
	if dc.cfg.EnableRandom && rng != nil {
		bd.Random = float64(rng.Range(dc.cfg.RandomMin, dc.cfg.RandomMax)) / 100
	}

	product := float64(bd.BaseDamage) * bd.Critical * bd.Type * bd.STAB * bd.Weather *
		bd.Item * bd.Ability * bd.Field * bd.Status * bd.Random
	res.Breakdown = bd
	if effectiveness == 0 {
		res.Immune = true
		res.Damage = 0
	} else {
		res.Damage = max(1, int(math.Floor(product+1e-9)))
	}
	res.Percent = percentOf(res.Damage, defender.MaxHP)

	if dc.cfg.cacheable() {
		dc.cache[key] = *res
	}
	return res, nil
}

func (dc *DamageCalculator) fixed(attacker, defender *Combatant, move *Move, effectiveness float64) (*DamageResult, error) {
	res := &DamageResult{
		Effectiveness: effectiveness,
		Breakdown:     DamageBreakdown{Fixed: true, Type: effectiveness},
	}
	switch move.Fixed.Kind {
	case "level":
		res.Damage = attacker.Level
	case "constant":
		res.Damage = move.Fixed.Amount
	default:
		return nil, missingData("move %d has unknown fixed damage kind %q", move.ID, move.Fixed.Kind)
	}
	if effectiveness == 0 {
		res.Immune = true
		res.Damage = 0
	}
	res.Percent = percentOf(res.Damage, defender.MaxHP)
	return res, nil
}

func (dc *DamageCalculator) keyFor(attacker, defender *Combatant, move *Move, field *Field, spread bool) cacheKey {
	return cacheKey{
		attackerSpecies: attacker.SpeciesID,
		defenderSpecies: defender.SpeciesID,
		moveID:          move.ID,
		attackerLevel:   attacker.Level,
		weather:         field.Weather,
		situation: strings.Join([]string{
			fingerprint(attacker),
			fingerprint(defender),
			fieldFingerprint(field),
			fmt.Sprintf("s%t", spread),
		}, "|"),
	}
}

// fieldFingerprint lists every active effect with its side, since modifiers may read any of them.
func fieldFingerprint(f *Field) string {
	effects := make([]string, 0, len(f.Effects))
	for _, e := range f.Effects {
		effects = append(effects, string(e.Kind)+"@"+e.SideID)
	}
	sort.Strings(effects)
	return strings.Join(effects, ",")
}

// fingerprint captures every per-combatant input the formula or a modifier can read beyond species and level.
func fingerprint(c *Combatant) string {
	stages := make([]string, 0, len(c.Stages))
	for s, v := range c.Stages {
		if v != 0 {
			stages = append(stages, fmt.Sprintf("%s%+d", s, v))
		}
	}
	sort.Strings(stages)
	return fmt.Sprintf("%s/%s/%s/%v/%v/%d/%d/%s/%d/%d/%s",
		c.ID, c.SideID, c.Name, c.Types, c.Stats, c.HP, c.MaxHP, c.Status, c.ItemID, c.AbilityID, strings.Join(stages, ","))
}

func percentOf(damage, maxHP int) float64 {
	if maxHP <= 0 {
		return 0
	}
	return float64(damage) / float64(maxHP) * 100
}
