package rules

import (
	"github.com/suderio/arena/internal/engine"
)

// ContextFromCombatant converts a combatant into a map suitable for CEL evaluation.
func ContextFromCombatant(c *engine.Combatant) map[string]any {
	if c == nil {
		return map[string]any{}
	}
	kinds := make([]string, len(c.Types))
	for i, t := range c.Types {
		kinds[i] = string(t)
	}
	stages := make(map[string]any, len(c.Stages))
	for s, v := range c.Stages {
		stages[string(s)] = int64(v) // CEL uses int64 for integers
	}
	return map[string]any{
		"id":       c.ID,
		"name":     c.Name,
		"side":     c.SideID,
		"species":  int64(c.SpeciesID),
		"level":    int64(c.Level),
		"types":    kinds,
		"hp":       int64(c.HP),
		"max_hp":   int64(c.MaxHP),
		"hp_ratio": c.HPRatio(),
		"status":   string(c.Status),
		"item":     int64(c.ItemID),
		"ability":  int64(c.AbilityID),
		"stages":   stages,
		"stats": map[string]any{
			"attack":     int64(c.Stats.Attack),
			"defense":    int64(c.Stats.Defense),
			"sp_attack":  int64(c.Stats.SpAttack),
			"sp_defense": int64(c.Stats.SpDefense),
			"speed":      int64(c.Stats.Speed),
		},
	}
}

// ContextFromMove exposes the static move data.
func ContextFromMove(m *engine.Move) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return map[string]any{
		"id":         int64(m.ID),
		"name":       m.Name,
		"type":       string(m.Type),
		"category":   string(m.Category),
		"power":      int64(m.Power),
		"accuracy":   int64(m.Accuracy),
		"priority":   int64(m.Priority),
		"target":     string(m.TargetShape()),
		"crit_stage": int64(m.CritStage),
	}
}

// ContextFromField exposes the weather and the active field effects.
func ContextFromField(f *engine.Field) map[string]any {
	if f == nil {
		return map[string]any{"weather": "", "effects": []string{}}
	}
	effects := make([]string, 0, len(f.Effects))
	for _, e := range f.Effects {
		effects = append(effects, string(e.Kind))
	}
	return map[string]any{
		"weather": string(f.Weather),
		"effects": effects,
	}
}

// BuildEvalContext creates the variables a modifier expression can read.
func BuildEvalContext(ctx *engine.ModifierContext) map[string]any {
	return map[string]any{
		"attacker":      ContextFromCombatant(ctx.Attacker),
		"defender":      ContextFromCombatant(ctx.Defender),
		"move":          ContextFromMove(ctx.Move),
		"field":         ContextFromField(ctx.Field),
		"effectiveness": ctx.Effectiveness,
	}
}
