package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	moveTackle      = 1
	moveEmber       = 2
	moveWaterGun    = 3
	moveQuickAttack = 4
	moveWillOWisp   = 5
	moveToxic       = 6
	moveSwordsDance = 7
	moveRainDance   = 8
	moveReflect     = 9
	moveDragonRage  = 10
	moveRecover     = 11
	moveSpikes      = 12
	moveSurf        = 13

	speciesFlareon  = 1
	speciesVaporeon = 2
	speciesJolteon  = 3
	speciesGengar   = 4
	speciesPidgeot  = 5

	itemPotion = 200
)

func newTestRepo() *MemoryRepository {
	r := NewMemoryRepository()
	r.AddMove(&Move{ID: moveTackle, Name: "Tackle", Type: TypeNormal, Category: CategoryPhysical, Power: 40, Accuracy: 100, PP: 35}).
		AddMove(&Move{ID: moveEmber, Name: "Ember", Type: TypeFire, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 25}).
		AddMove(&Move{ID: moveWaterGun, Name: "Water Gun", Type: TypeWater, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 25}).
		AddMove(&Move{ID: moveQuickAttack, Name: "Quick Attack", Type: TypeNormal, Category: CategoryPhysical, Power: 40, Accuracy: 100, PP: 30, Priority: 1}).
		AddMove(&Move{ID: moveWillOWisp, Name: "Will-O-Wisp", Type: TypeFire, Category: CategoryStatus, Accuracy: 85, PP: 15,
			Effects: []Effect{{Kind: EffectStatus, Status: StatusBurn}}}).
		AddMove(&Move{ID: moveToxic, Name: "Toxic", Type: TypePoison, Category: CategoryStatus, Accuracy: 90, PP: 10,
			Effects: []Effect{{Kind: EffectStatus, Status: StatusBadlyPoisoned}}}).
		AddMove(&Move{ID: moveSwordsDance, Name: "Swords Dance", Type: TypeNormal, Category: CategoryStatus, PP: 20, Target: TargetUser,
			Effects: []Effect{{Kind: EffectStatChange, Self: true, Stat: StatAttack, Stages: 2}}}).
		AddMove(&Move{ID: moveRainDance, Name: "Rain Dance", Type: TypeWater, Category: CategoryStatus, PP: 5, Target: TargetUser,
			Effects: []Effect{{Kind: EffectWeather, Weather: WeatherRain}}}).
		AddMove(&Move{ID: moveReflect, Name: "Reflect", Type: TypePsychic, Category: CategoryStatus, PP: 20, Target: TargetUser,
			Effects: []Effect{{Kind: EffectField, Field: FieldReflect}}}).
		AddMove(&Move{ID: moveDragonRage, Name: "Dragon Rage", Type: TypeDragon, Category: CategorySpecial, Accuracy: 100, PP: 10,
			Fixed: &FixedDamage{Kind: "constant", Amount: 40}}).
		AddMove(&Move{ID: moveRecover, Name: "Recover", Type: TypeNormal, Category: CategoryStatus, PP: 10, Target: TargetUser,
			Effects: []Effect{{Kind: EffectHeal, Self: true, Percent: 50}}}).
		AddMove(&Move{ID: moveSpikes, Name: "Spikes", Type: TypeGround, Category: CategoryStatus, PP: 20,
			Effects: []Effect{{Kind: EffectField, Field: FieldSpikes}}}).
		AddMove(&Move{ID: moveSurf, Name: "Surf", Type: TypeWater, Category: CategorySpecial, Power: 90, Accuracy: 100, PP: 15, Target: TargetAllOpponents})

	r.AddSpecies(&Species{ID: speciesFlareon, Name: "Flareon", Types: []Type{TypeFire},
		BaseStats: Stats{HP: 65, Attack: 130, Defense: 60, SpAttack: 95, SpDefense: 110, Speed: 65}}).
		AddSpecies(&Species{ID: speciesVaporeon, Name: "Vaporeon", Types: []Type{TypeWater},
			BaseStats: Stats{HP: 130, Attack: 65, Defense: 60, SpAttack: 110, SpDefense: 95, Speed: 65}}).
		AddSpecies(&Species{ID: speciesJolteon, Name: "Jolteon", Types: []Type{TypeElectric},
			BaseStats: Stats{HP: 65, Attack: 65, Defense: 60, SpAttack: 110, SpDefense: 95, Speed: 130}}).
		AddSpecies(&Species{ID: speciesGengar, Name: "Gengar", Types: []Type{TypeGhost, TypePoison},
			BaseStats: Stats{HP: 60, Attack: 65, Defense: 60, SpAttack: 130, SpDefense: 75, Speed: 110}}).
		AddSpecies(&Species{ID: speciesPidgeot, Name: "Pidgeot", Types: []Type{TypeNormal, TypeFlying},
			BaseStats: Stats{HP: 83, Attack: 80, Defense: 75, SpAttack: 70, SpDefense: 70, Speed: 101}})

	r.AddItem(&Item{ID: itemPotion, Name: "Potion", Heal: 20})
	return r
}

// newTestCombatant builds a level 50 combatant.
func newTestCombatant(t *testing.T, repo Repository, id string, species int, moves ...int) *Combatant {
	t.Helper()
	s, ok := repo.Species(species)
	require.True(t, ok)
	c, err := NewCombatant(id, s, 50, repo, moves...)
	require.NoError(t, err)
	return c
}

func newTestBattle(t *testing.T, repo Repository, rng RNG, cfg Config, sides ...*Side) *Battle {
	t.Helper()
	b, err := NewBattle("test", cfg, repo, rng, sides, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return b
}

// deterministicConfig drops the random roll and critical hits.
func deterministicConfig() Config {
	cfg := DefaultConfig()
	cfg.Damage = DeterministicDamageConfig()
	return cfg
}

// duel is a one-against-one battle: red's Flareon against blue's Vaporeon.
func duel(t *testing.T, rng RNG) (*Battle, *MemoryRepository) {
	t.Helper()
	repo := newTestRepo()
	red := NewSide("red", "Red", newTestCombatant(t, repo, "flareon", speciesFlareon, moveTackle, moveEmber, moveWillOWisp, moveSwordsDance))
	blue := NewSide("blue", "Blue", newTestCombatant(t, repo, "vaporeon", speciesVaporeon, moveWaterGun, moveRecover, moveRainDance, moveReflect))
	return newTestBattle(t, repo, rng, deterministicConfig(), red, blue), repo
}

func countEvents(b *Battle, typ EventType) int {
	n := 0
	for _, r := range b.Events() {
		if r.Event.Type() == typ {
			n++
		}
	}
	return n
}
