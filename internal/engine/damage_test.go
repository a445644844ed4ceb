package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDamageCalculate(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	vaporeon.SideID = "blue"
	tackle, _ := repo.Move(moveTackle)
	ember, _ := repo.Move(moveEmber)

	tests := []struct {
		name   string
		move   *Move
		field  *Field
		burned bool
		want   int
	}{
		{"physical neutral", tackle, nil, false, 38},
		{"resisted with stab", ember, nil, false, 14},
		{"sun boosts fire", ember, &Field{Weather: WeatherSun}, false, 21},
		{"rain weakens fire", ember, &Field{Weather: WeatherRain}, false, 7},
		{"burn halves physical", tackle, nil, true, 19},
		{"burn ignores special", ember, nil, true, 14},
		{"reflect halves physical", tackle, &Field{Effects: []FieldEffect{{Kind: FieldReflect, SideID: "blue", Turns: 5}}}, false, 19},
		{"reflect on the other side", tackle, &Field{Effects: []FieldEffect{{Kind: FieldReflect, SideID: "red", Turns: 5}}}, false, 38},
		{"burn and reflect", tackle, &Field{Effects: []FieldEffect{{Kind: FieldReflect, SideID: "blue", Turns: 5}}}, true, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry())
			attacker := flareon.Clone()
			if tt.burned {
				attacker.Status = StatusBurn
			}
			res, err := dc.Calculate(attacker, vaporeon, tt.move, tt.field, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Damage)
			assert.False(t, res.Critical)
		})
	}
}

func TestDamageBreakdown(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	ember, _ := repo.Move(moveEmber)

	dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry())
	res, err := dc.Calculate(flareon, vaporeon, ember, nil, nil)
	require.NoError(t, err)

	bd := res.Breakdown
	assert.Equal(t, 40, bd.BasePower)
	assert.Equal(t, 100, bd.Attack)
	assert.Equal(t, 100, bd.Defense)
	assert.Equal(t, 22.0, bd.LevelFactor)
	assert.Equal(t, 19, bd.BaseDamage)
	assert.Equal(t, 0.5, bd.Type)
	assert.Equal(t, 1.5, bd.STAB)
	assert.True(t, res.STAB)
	assert.Equal(t, 0.5, res.Effectiveness)
	assert.InDelta(t, 14.0/190.0*100, res.Percent, 1e-9)
}

func TestDamageRandomAndCritical(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	tackle, _ := repo.Move(moveTackle)
	dc := NewDamageCalculator(DefaultDamageConfig(), NewTypeChart(), NewModifierRegistry())

	res, err := dc.Calculate(flareon, vaporeon, tackle, nil, NewScriptedRNG().QueueChance(false).QueueRange(85))
	require.NoError(t, err)
	assert.Equal(t, 32, res.Damage)
	assert.Equal(t, 0.85, res.Breakdown.Random)

	res, err = dc.Calculate(flareon, vaporeon, tackle, nil, NewScriptedRNG().QueueChance(true))
	require.NoError(t, err)
	assert.True(t, res.Critical)
	assert.Equal(t, 57, res.Damage)

	assert.Zero(t, dc.CacheSize(), "random results are never cached")
}

func TestDamageStagesAndSpread(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	tackle, _ := repo.Move(moveTackle)
	dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry())

	boosted := flareon.Clone()
	boosted.Stages[StatAttack] = 2
	res, err := dc.Calculate(boosted, vaporeon, tackle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 270, res.Breakdown.Attack)
	assert.Equal(t, 2, res.Breakdown.AttackStage)
	assert.Greater(t, res.Damage, 38)

	spread, err := dc.CalculateSpread(flareon, vaporeon, tackle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 28, spread.Damage)
}

func TestDamageImmunityAndFixed(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	gengar := newTestCombatant(t, repo, "gengar", speciesGengar)
	tackle, _ := repo.Move(moveTackle)
	rage, _ := repo.Move(moveDragonRage)
	wisp, _ := repo.Move(moveWillOWisp)
	dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry())

	res, err := dc.Calculate(flareon, gengar, tackle, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Immune)
	assert.Zero(t, res.Damage)

	res, err = dc.Calculate(flareon, vaporeon, rage, &Field{Weather: WeatherSun}, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Damage)
	assert.True(t, res.Breakdown.Fixed)

	_, err = dc.Calculate(flareon, vaporeon, wisp, nil, nil)
	assert.True(t, errors.Is(err, ErrNotDamaging))
	assert.Equal(t, CodeNotDamaging, GetCode(err))

	_, err = dc.Calculate(flareon, nil, tackle, nil, nil)
	assert.True(t, errors.Is(err, ErrMissingData))
}

func TestDamageCache(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	tackle, _ := repo.Move(moveTackle)
	ember, _ := repo.Move(moveEmber)
	dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry())

	first, err := dc.Calculate(flareon, vaporeon, tackle, nil, nil)
	require.NoError(t, err)
	second, err := dc.Calculate(flareon, vaporeon, tackle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, dc.CacheSize())

	_, err = dc.Calculate(flareon, vaporeon, ember, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, dc.CacheSize())

	burned := flareon.Clone()
	burned.Status = StatusBurn
	res, err := dc.Calculate(burned, vaporeon, tackle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 19, res.Damage, "status is part of the cache key")
	assert.Equal(t, 3, dc.CacheSize())

	dc.ClearCache()
	assert.Zero(t, dc.CacheSize())
}

func TestDefaultModifiers(t *testing.T) {
	repo := newTestRepo()
	flareon := newTestCombatant(t, repo, "flareon", speciesFlareon)
	vaporeon := newTestCombatant(t, repo, "vaporeon", speciesVaporeon)
	ember, _ := repo.Move(moveEmber)
	dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), DefaultModifiers())

	tests := []struct {
		name    string
		item    int
		ability int
		defAb   int
		check   func(t *testing.T, bd DamageBreakdown)
	}{
		{"charcoal", ItemCharcoal, 0, 0, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 1.2, bd.Item) }},
		{"mystic water ignores fire", ItemMysticWater, 0, 0, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 1.0, bd.Item) }},
		{"choice specs", ItemChoiceSpecs, 0, 0, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 1.5, bd.Item) }},
		{"technician", 0, AbilityTechnician, 0, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 1.5, bd.Ability) }},
		{"adaptability", 0, AbilityAdaptability, 0, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 2.0, bd.STAB) }},
		{"blaze at full hp", 0, AbilityBlaze, 0, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 1.0, bd.Ability) }},
		{"thick fat", 0, 0, AbilityThickFat, func(t *testing.T, bd DamageBreakdown) { assert.Equal(t, 0.5, bd.Ability) }},
		{"unknown ids are neutral", 999, 999, 999, func(t *testing.T, bd DamageBreakdown) {
			assert.Equal(t, 1.0, bd.Item)
			assert.Equal(t, 1.0, bd.Ability)
			assert.Equal(t, 1.5, bd.STAB)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, def := flareon.Clone(), vaporeon.Clone()
			att.ItemID, att.AbilityID, def.AbilityID = tt.item, tt.ability, tt.defAb
			res, err := dc.Calculate(att, def, ember, nil, nil)
			require.NoError(t, err)
			tt.check(t, res.Breakdown)
		})
	}

	t.Run("blaze in a pinch", func(t *testing.T) {
		att := flareon.Clone()
		att.AbilityID = AbilityBlaze
		att.HP = att.MaxHP / 3
		res, err := dc.Calculate(att, vaporeon, ember, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 1.5, res.Breakdown.Ability)
	})
}

func TestDeterministicDamageIsIdempotent(t *testing.T) {
	attacker := &Combatant{ID: "a", SideID: "red", Level: 50, Types: []Type{TypeFire}, HP: 150, MaxHP: 150,
		Stats: Stats{HP: 150, Attack: 100, Defense: 50, SpAttack: 50, SpDefense: 50, Speed: 50}}
	defender := &Combatant{ID: "d", SideID: "blue", Level: 50, Types: []Type{TypeWater}, HP: 150, MaxHP: 150,
		Stats: Stats{HP: 150, Attack: 50, Defense: 50, SpAttack: 50, SpDefense: 50, Speed: 50}}
	move := &Move{ID: 99, Name: "Headbutt", Type: TypeNormal, Category: CategoryPhysical, Power: 60, Accuracy: 100, PP: 15}

	dc := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry())
	first, err := dc.Calculate(attacker, defender, move, nil, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first.Damage, 1)

	for i := 0; i < 5; i++ {
		again, err := dc.Calculate(attacker, defender, move, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, first.Damage, again.Damage)
	}
	assert.Equal(t, 1, dc.CacheSize())

	fresh, err := NewDamageCalculator(DeterministicDamageConfig(), NewTypeChart(), NewModifierRegistry()).
		Calculate(attacker, defender, move, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Damage, fresh.Damage)
}
