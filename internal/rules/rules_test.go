package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/arena/internal/engine"
)

func combatant(id string, types ...engine.Type) *engine.Combatant {
	return &engine.Combatant{
		ID:     id,
		Level:  50,
		Types:  types,
		HP:     100,
		MaxHP:  100,
		Stats:  engine.Stats{HP: 100, Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100},
		Stages: map[engine.Stat]int{},
	}
}

func TestCELRegistry(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	attacker := combatant("a", engine.TypeFire)
	defender := combatant("d", engine.TypeGrass, engine.TypeSteel)
	move := &engine.Move{ID: 1, Name: "Flamethrower", Type: engine.TypeFire, Category: engine.CategorySpecial, Power: 90}
	ctx := BuildEvalContext(&engine.ModifierContext{
		Attacker:      attacker,
		Defender:      defender,
		Move:          move,
		Field:         &engine.Field{Weather: engine.WeatherSun},
		Effectiveness: 4,
	})

	t.Run("Basic Boolean Expression", func(t *testing.T) {
		out, err := registry.Eval("attacker.level > 10", ctx)
		assert.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("Move Fields", func(t *testing.T) {
		out, err := registry.Eval("move.type == 'fire' && move.power >= 90", ctx)
		assert.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("Type Membership", func(t *testing.T) {
		out, err := registry.Eval("'steel' in defender.types", ctx)
		assert.NoError(t, err)
		assert.Equal(t, true, out)

		out, err = registry.Eval("has_type(attacker, 'water')", ctx)
		assert.NoError(t, err)
		assert.Equal(t, false, out)
	})

	t.Run("Field And Effectiveness", func(t *testing.T) {
		out, err := registry.Eval("field.weather == 'sun' && effectiveness > 1.0", ctx)
		assert.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("Compile Error", func(t *testing.T) {
		_, err := registry.Eval("attacker.level >", ctx)
		assert.Error(t, err)
	})

	t.Run("Programs Are Memoized", func(t *testing.T) {
		before := len(registry.programs)
		_, err := registry.Eval("attacker.hp <= 100", ctx)
		require.NoError(t, err)
		_, err = registry.Eval("attacker.hp <= 100", ctx)
		require.NoError(t, err)
		assert.Len(t, registry.programs, before+1)

		_, err = registry.Eval("attacker.level >", ctx)
		assert.Error(t, err)
		assert.Len(t, registry.programs, before+1, "failed compilations are not cached")
	})
}

func TestDeterministicCacheSeesModifierInputs(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	mods := engine.NewModifierRegistry()
	require.NoError(t, registry.Install(mods, []ModifierDef{
		{Source: engine.SourceAbility, ID: 21, Name: "Wind Rider", Role: engine.RoleAttacker, When: "'tailwind' in field.effects", Value: 2},
		{Source: engine.SourceAbility, ID: 22, Name: "Home Ground", Role: engine.RoleAttacker, When: "attacker.side == 'red'", Value: 1.5},
	}))

	tackle := &engine.Move{ID: 1, Name: "Tackle", Type: engine.TypeNormal, Category: engine.CategoryPhysical, Power: 40}
	defender := combatant("d", engine.TypeWater)
	calculate := func(dc *engine.DamageCalculator, attacker *engine.Combatant, field *engine.Field) int {
		res, err := dc.Calculate(attacker, defender, tackle, field, engine.NewScriptedRNG())
		require.NoError(t, err)
		return res.Damage
	}

	t.Run("Field Effects", func(t *testing.T) {
		attacker := combatant("a", engine.TypeFire)
		attacker.AbilityID = 21
		windy := &engine.Field{Effects: []engine.FieldEffect{{Kind: engine.FieldTailwind, SideID: "blue", Turns: 3}}}

		dc := engine.NewDamageCalculator(engine.DeterministicDamageConfig(), nil, mods)
		calm := calculate(dc, attacker, &engine.Field{})
		cached := calculate(dc, attacker, windy)
		fresh := calculate(engine.NewDamageCalculator(engine.DeterministicDamageConfig(), nil, mods), attacker, windy)

		assert.Equal(t, fresh, cached)
		assert.Greater(t, cached, calm)
		assert.Equal(t, 2, dc.CacheSize())
	})

	t.Run("Sides", func(t *testing.T) {
		blue := combatant("a", engine.TypeFire)
		blue.AbilityID = 22
		blue.SideID = "blue"
		red := combatant("a", engine.TypeFire)
		red.AbilityID = 22
		red.SideID = "red"

		dc := engine.NewDamageCalculator(engine.DeterministicDamageConfig(), nil, mods)
		away := calculate(dc, blue, &engine.Field{})
		home := calculate(dc, red, &engine.Field{})

		assert.Equal(t, calculate(engine.NewDamageCalculator(engine.DeterministicDamageConfig(), nil, mods), red, &engine.Field{}), home)
		assert.Greater(t, home, away)
	})
}

func TestInstall(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	mods := engine.NewModifierRegistry()
	err = registry.Install(mods, []ModifierDef{
		{Source: engine.SourceItem, ID: 7, Name: "Miracle Seed", Role: engine.RoleAttacker, When: "move.type == 'grass'", Value: 1.2},
		{Source: engine.SourceAbility, ID: 9, Name: "Heatproof", Role: engine.RoleDefender, When: "move.type == 'fire'", Value: 0.5},
		{Source: engine.SourceAbility, ID: 8, Name: "Solar Power", Role: engine.RoleAttacker, Kind: engine.KindSTAB, When: "field.weather == 'sun'", Value: 2},
		{Source: engine.SourceItem, ID: 11, Name: "Razor Claw", Role: engine.RoleAttacker, Kind: engine.KindCritStage, Value: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, mods.Len())

	attacker := combatant("a", engine.TypeGrass)
	attacker.ItemID = 7
	attacker.AbilityID = 8
	defender := combatant("d", engine.TypeWater)
	defender.AbilityID = 9
	grass := &engine.Move{ID: 1, Type: engine.TypeGrass, Category: engine.CategorySpecial, Power: 90}
	fire := &engine.Move{ID: 2, Type: engine.TypeFire, Category: engine.CategorySpecial, Power: 90}

	t.Run("Conditional Item", func(t *testing.T) {
		ctx := &engine.ModifierContext{Attacker: attacker, Defender: defender, Move: grass, Field: &engine.Field{}}
		assert.InDelta(t, 1.2, mods.ItemMultiplier(ctx), 1e-9)
		ctx.Move = fire
		assert.InDelta(t, 1.0, mods.ItemMultiplier(ctx), 1e-9)
	})

	t.Run("Defender Ability", func(t *testing.T) {
		ctx := &engine.ModifierContext{Attacker: attacker, Defender: defender, Move: fire, Field: &engine.Field{}}
		assert.InDelta(t, 0.5, mods.AbilityMultiplier(ctx), 1e-9)
	})

	t.Run("STAB Override Defers When Off", func(t *testing.T) {
		ctx := &engine.ModifierContext{Attacker: attacker, Defender: defender, Move: grass, Field: &engine.Field{}}
		assert.InDelta(t, 1.5, mods.STAB(ctx, 1.5), 1e-9)
		ctx.Field = &engine.Field{Weather: engine.WeatherSun}
		assert.InDelta(t, 2.0, mods.STAB(ctx, 1.5), 1e-9)
	})

	t.Run("Crit Stage", func(t *testing.T) {
		holder := combatant("h")
		holder.ItemID = 11
		ctx := &engine.ModifierContext{Attacker: holder, Defender: defender, Move: grass, Field: &engine.Field{}}
		assert.Equal(t, 1, mods.CritBonus(ctx))
	})

	t.Run("Rejects Bad Definitions", func(t *testing.T) {
		err := registry.Install(engine.NewModifierRegistry(), []ModifierDef{
			{Source: "weather", ID: 1, Role: engine.RoleAttacker, Value: 1},
		})
		assert.Error(t, err)

		err = registry.Install(engine.NewModifierRegistry(), []ModifierDef{
			{Source: engine.SourceItem, ID: 1, Role: engine.RoleAttacker, When: "move.type ==", Value: 1},
		})
		assert.Error(t, err)
	})
}
