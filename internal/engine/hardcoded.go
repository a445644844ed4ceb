package engine

// Held items that exist in every battle regardless of loaded data.
const (
	ItemCharcoal    = 1
	ItemMysticWater = 2
	ItemLifeOrb     = 3
	ItemChoiceSpecs = 4
	ItemScopeLens   = 5
	ItemResistBerry = 100
)

// Abilities that exist in every battle regardless of loaded data.
const (
	AbilityGuts         = 1
	AbilityTechnician   = 2
	AbilityAdaptability = 3
	AbilitySuperLuck    = 4
	AbilityBlaze        = 5
	AbilityTorrent      = 6
	AbilityThickFat     = 10
)

// DefaultModifiers returns a registry holding the built-in item and ability hooks.
func DefaultModifiers() *ModifierRegistry {
	r := NewModifierRegistry()

	r.Register(ModifierKey{Source: SourceItem, ID: ItemCharcoal, Role: RoleAttacker}, "Charcoal",
		boostType(TypeFire, 1.2))
	r.Register(ModifierKey{Source: SourceItem, ID: ItemMysticWater, Role: RoleAttacker}, "Mystic Water",
		boostType(TypeWater, 1.2))
	r.Register(ModifierKey{Source: SourceItem, ID: ItemLifeOrb, Role: RoleAttacker}, "Life Orb",
		func(*ModifierContext) float64 { return 1.3 })
	r.Register(ModifierKey{Source: SourceItem, ID: ItemChoiceSpecs, Role: RoleAttacker}, "Choice Specs",
		func(ctx *ModifierContext) float64 {
			if ctx.Move.Category == CategorySpecial {
				return 1.5
			}
			return 1
		})
	r.Register(ModifierKey{Source: SourceItem, ID: ItemScopeLens, Role: RoleAttacker, Kind: KindCritStage}, "Scope Lens",
		func(*ModifierContext) float64 { return 1 })
	r.Register(ModifierKey{Source: SourceItem, ID: ItemResistBerry, Role: RoleDefender}, "Resist Berry",
		func(ctx *ModifierContext) float64 {
			if ctx.Effectiveness > 1 {
				return 0.5
			}
			return 1
		})

	r.Register(ModifierKey{Source: SourceAbility, ID: AbilityGuts, Role: RoleAttacker}, "Guts",
		func(ctx *ModifierContext) float64 {
			if ctx.Move.Category == CategoryPhysical && ctx.Attacker.Status != StatusNone {
				return 1.5
			}
			return 1
		})
	r.Register(ModifierKey{Source: SourceAbility, ID: AbilityTechnician, Role: RoleAttacker}, "Technician",
		func(ctx *ModifierContext) float64 {
			if ctx.Move.Power > 0 && ctx.Move.Power <= 60 {
				return 1.5
			}
			return 1
		})
	r.Register(ModifierKey{Source: SourceAbility, ID: AbilityAdaptability, Role: RoleAttacker, Kind: KindSTAB}, "Adaptability",
		func(*ModifierContext) float64 { return 2.0 })
	r.Register(ModifierKey{Source: SourceAbility, ID: AbilitySuperLuck, Role: RoleAttacker, Kind: KindCritStage}, "Super Luck",
		func(*ModifierContext) float64 { return 1 })
	r.Register(ModifierKey{Source: SourceAbility, ID: AbilityBlaze, Role: RoleAttacker}, "Blaze",
		pinch(TypeFire))
	r.Register(ModifierKey{Source: SourceAbility, ID: AbilityTorrent, Role: RoleAttacker}, "Torrent",
		pinch(TypeWater))
	r.Register(ModifierKey{Source: SourceAbility, ID: AbilityThickFat, Role: RoleDefender}, "Thick Fat",
		func(ctx *ModifierContext) float64 {
			if ctx.Move.Type == TypeFire || ctx.Move.Type == TypeIce {
				return 0.5
			}
			return 1
		})

	return r
}

func boostType(t Type, mult float64) ModifierFunc {
	return func(ctx *ModifierContext) float64 {
		if ctx.Move.Type == t {
			return mult
		}
		return 1
	}
}

// pinch boosts a type by half once the attacker is at or below a third of its HP.
func pinch(t Type) ModifierFunc {
	return func(ctx *ModifierContext) float64 {
		if ctx.Move.Type == t && ctx.Attacker.HP*3 <= ctx.Attacker.MaxHP {
			return 1.5
		}
		return 1
	}
}
