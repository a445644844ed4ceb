package engine

// Phase is a state of the turn state machine.
type Phase string

const (
	PhaseActionSelection Phase = "action_selection"
	PhaseExecuteActions  Phase = "execute_actions"
	PhaseEndTurn         Phase = "end_turn"
	PhaseBattleEnd       Phase = "battle_end"
)

// FieldEffect is a duration-limited modifier. An empty SideID covers the whole field.
type FieldEffect struct {
	Kind   FieldEffectKind `json:"kind"`
	SideID string          `json:"side_id,omitempty"`
	Turns  int             `json:"turns"`
	Source string          `json:"source,omitempty"`
}

// Field is the battlefield shared by every side.
type Field struct {
	Weather      Weather       `json:"weather,omitempty"`
	WeatherTurns int           `json:"weather_turns"` // 0 means permanent
	Effects      []FieldEffect `json:"effects"`
}

// HasEffect reports whether the effect covers the given side.
func (f *Field) HasEffect(kind FieldEffectKind, sideID string) bool {
	if f == nil {
		return false
	}
	for _, e := range f.Effects {
		if e.Kind == kind && (e.SideID == "" || e.SideID == sideID) {
			return true
		}
	}
	return false
}

// BattleState is the projection of one battle.
type BattleState struct {
	ID     string  `json:"id"`
	Phase  Phase   `json:"phase"`
	Turn   int     `json:"turn"`
	Active bool    `json:"active"`
	Winner string  `json:"winner,omitempty"`
	Field  Field   `json:"field"`
	Sides  []*Side `json:"sides"`
}

// NewBattleState creates an empty clean slate.
func NewBattleState() *BattleState {
	return &BattleState{
		Phase: PhaseActionSelection,
		Field: Field{Effects: make([]FieldEffect, 0)},
		Sides: make([]*Side, 0),
	}
}

// Side looks a side up by id.
func (s *BattleState) Side(id string) *Side {
	for _, side := range s.Sides {
		if side.ID == id {
			return side
		}
	}
	return nil
}

// Combatant finds a combatant anywhere in the rosters.
func (s *BattleState) Combatant(id string) *Combatant {
	for _, side := range s.Sides {
		for _, c := range side.Roster {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// IsActiveCombatant reports whether the combatant is currently on the field.
func (s *BattleState) IsActiveCombatant(id string) bool {
	for _, side := range s.Sides {
		if a := side.ActiveCombatant(); a != nil && a.ID == id {
			return true
		}
	}
	return false
}

// LivingSides returns the sides that still have an unfainted combatant.
func (s *BattleState) LivingSides() []*Side {
	var out []*Side
	for _, side := range s.Sides {
		if side.HasUnfainted() {
			out = append(out, side)
		}
	}
	return out
}

// Opponents returns the active, unfainted combatants of every other side.
func (s *BattleState) Opponents(sideID string) []*Combatant {
	var out []*Combatant
	for _, side := range s.Sides {
		if side.ID == sideID {
			continue
		}
		if a := side.ActiveCombatant(); a != nil && !a.IsFainted() {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy, safe to hand to callers.
func (s *BattleState) Clone() *BattleState {
	cp := *s
	cp.Field.Effects = append([]FieldEffect{}, s.Field.Effects...)
	cp.Sides = make([]*Side, len(s.Sides))
	for i, side := range s.Sides {
		cp.Sides[i] = side.Clone()
	}
	return &cp
}
