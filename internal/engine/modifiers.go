package engine

// ModifierSource says where a modifier comes from.
type ModifierSource string

const (
	SourceItem    ModifierSource = "item"
	SourceAbility ModifierSource = "ability"
)

// ModifierRole says whose held item or ability triggers the modifier.
type ModifierRole string

const (
	RoleAttacker ModifierRole = "attacker"
	RoleDefender ModifierRole = "defender"
)

// ModifierKind selects the damage stage a modifier feeds.
type ModifierKind string

const (
	// KindDamage multiplies the item or ability stage.
	KindDamage ModifierKind = "damage"
	// KindSTAB replaces the same-type bonus when the move gets one.
	KindSTAB ModifierKind = "stab"
	// KindCritStage adds to the crit stage (the returned value is truncated to int).
	KindCritStage ModifierKind = "crit_stage"
)

// ModifierKey identifies a group of hooks.
type ModifierKey struct {
	Source ModifierSource
	ID     int
	Role   ModifierRole
	Kind   ModifierKind
}

// ModifierContext is what a hook may read. Hooks must not mutate it.
type ModifierContext struct {
	Attacker      *Combatant
	Defender      *Combatant
	Move          *Move
	Field         *Field
	Effectiveness float64
}

// ModifierFunc is a pure hook returning a multiplier (or a stage bonus for KindCritStage).
type ModifierFunc func(ctx *ModifierContext) float64

// ModifierRegistry maps held-item and ability ids to multiplier hooks.
// Ids nobody registered resolve to a neutral 1.0.
type ModifierRegistry struct {
	hooks map[ModifierKey][]ModifierFunc
	names map[ModifierKey]string
}

// NewModifierRegistry creates an empty registry.
func NewModifierRegistry() *ModifierRegistry {
	return &ModifierRegistry{
		hooks: make(map[ModifierKey][]ModifierFunc),
		names: make(map[ModifierKey]string),
	}
}

// Register adds a hook under key. Several hooks under one key multiply together.
func (r *ModifierRegistry) Register(key ModifierKey, name string, fn ModifierFunc) {
	if key.Kind == "" {
		key.Kind = KindDamage
	}
	r.hooks[key] = append(r.hooks[key], fn)
	if name != "" {
		r.names[key] = name
	}
}

// Name returns the label registered for a key, if any.
func (r *ModifierRegistry) Name(key ModifierKey) string {
	return r.names[key]
}

// Len counts registered keys.
func (r *ModifierRegistry) Len() int {
	return len(r.hooks)
}

func (r *ModifierRegistry) product(key ModifierKey, ctx *ModifierContext) float64 {
	result := 1.0
	for _, fn := range r.hooks[key] {
		result *= fn(ctx)
	}
	return result
}

// ItemMultiplier combines the attacker's and the defender's held-item hooks.
func (r *ModifierRegistry) ItemMultiplier(ctx *ModifierContext) float64 {
	return r.product(ModifierKey{SourceItem, ctx.Attacker.ItemID, RoleAttacker, KindDamage}, ctx) *
		r.product(ModifierKey{SourceItem, ctx.Defender.ItemID, RoleDefender, KindDamage}, ctx)
}

// AbilityMultiplier combines the attacker's and the defender's ability hooks.
func (r *ModifierRegistry) AbilityMultiplier(ctx *ModifierContext) float64 {
	return r.product(ModifierKey{SourceAbility, ctx.Attacker.AbilityID, RoleAttacker, KindDamage}, ctx) *
		r.product(ModifierKey{SourceAbility, ctx.Defender.AbilityID, RoleDefender, KindDamage}, ctx)
}

// STAB returns the same-type bonus, letting an attacker ability replace the default.
// The last hook returning a positive value wins; zero or less defers to fallback.
func (r *ModifierRegistry) STAB(ctx *ModifierContext, fallback float64) float64 {
	result := fallback
	for _, fn := range r.hooks[ModifierKey{SourceAbility, ctx.Attacker.AbilityID, RoleAttacker, KindSTAB}] {
		if v := fn(ctx); v > 0 {
			result = v
		}
	}
	return result
}

// CritBonus sums the crit-stage bonuses from the attacker's item and ability.
func (r *ModifierRegistry) CritBonus(ctx *ModifierContext) int {
	bonus := 0
	for _, key := range []ModifierKey{
		{SourceItem, ctx.Attacker.ItemID, RoleAttacker, KindCritStage},
		{SourceAbility, ctx.Attacker.AbilityID, RoleAttacker, KindCritStage},
	} {
		for _, fn := range r.hooks[key] {
			bonus += int(fn(ctx))
		}
	}
	return bonus
}
