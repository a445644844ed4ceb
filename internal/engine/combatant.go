package engine

import "fmt"

// MinStage and MaxStage bound every stat stage.
const (
	MinStage = -6
	MaxStage = 6
)

// MoveSlot is a known move together with its remaining uses.
type MoveSlot struct {
	MoveID int `json:"move_id"`
	PP     int `json:"pp"`
	MaxPP  int `json:"max_pp"`
}

// Combatant is a creature taking part in a battle.
// It is created from roster data at battle start and dropped when the battle ends.
type Combatant struct {
	ID        string       `json:"id"`
	SideID    string       `json:"side_id"`
	Name      string       `json:"name"`
	SpeciesID int          `json:"species_id"`
	Level     int          `json:"level"`
	Types     []Type       `json:"types"`
	HP        int          `json:"hp"`
	MaxHP     int          `json:"max_hp"`
	Stats     Stats        `json:"stats"`
	Stages    map[Stat]int `json:"stages"`
	Status    Status       `json:"status"`
	Volatiles []string     `json:"volatiles"`
	ItemID    int          `json:"item_id"`
	AbilityID int          `json:"ability_id"`
	Moves     []MoveSlot   `json:"moves"`

	SleepTurns   int `json:"sleep_turns"`
	ToxicCounter int `json:"toxic_counter"`
}

// NewCombatant derives battle stats for a species at a level and fills its move slots from the repository.
func NewCombatant(id string, species *Species, level int, repo Repository, moveIDs ...int) (*Combatant, error) {
	if species == nil {
		return nil, NewError(CodeData, "species is required for "+id)
	}
	if level < 1 || level > 100 {
		return nil, NewError(CodeValidation, fmt.Sprintf("level %d out of range for %s", level, id))
	}

	base := species.BaseStats
	c := &Combatant{
		ID:        id,
		Name:      species.Name,
		SpeciesID: species.ID,
		Level:     level,
		Types:     append([]Type(nil), species.Types...),
		Stats: Stats{
			HP:        deriveHP(base.HP, level),
			Attack:    deriveStat(base.Attack, level),
			Defense:   deriveStat(base.Defense, level),
			SpAttack:  deriveStat(base.SpAttack, level),
			SpDefense: deriveStat(base.SpDefense, level),
			Speed:     deriveStat(base.Speed, level),
		},
		Stages:    make(map[Stat]int),
		Volatiles: make([]string, 0),
		Moves:     make([]MoveSlot, 0, len(moveIDs)),
	}
	c.MaxHP = c.Stats.HP
	c.HP = c.MaxHP

	for _, mid := range moveIDs {
		m, ok := repo.Move(mid)
		if !ok {
			return nil, NewError(CodeData, fmt.Sprintf("move %d not found for %s", mid, id))
		}
		c.Moves = append(c.Moves, MoveSlot{MoveID: m.ID, PP: m.PP, MaxPP: m.PP})
	}
	return c, nil
}

func deriveHP(base, level int) int {
	return (2*base*level)/100 + level + 10
}

func deriveStat(base, level int) int {
	return (2*base*level)/100 + 5
}

// IsFainted reports whether the combatant has no HP left.
func (c *Combatant) IsFainted() bool {
	return c.HP <= 0
}

// HasType reports whether t is one of the combatant's types.
func (c *Combatant) HasType(t Type) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// Stage returns the current stage of a stat (0 when unset).
func (c *Combatant) Stage(s Stat) int {
	if c.Stages == nil {
		return 0
	}
	return c.Stages[s]
}

// HasVolatile reports whether the minor ailment is active.
func (c *Combatant) HasVolatile(name string) bool {
	for _, v := range c.Volatiles {
		if v == name {
			return true
		}
	}
	return false
}

// EffectiveSpeed is the stage-modified speed, halved under paralysis.
func (c *Combatant) EffectiveSpeed() int {
	speed := int(float64(c.Stats.Speed) * StageMultiplier(c.Stage(StatSpeed)))
	if c.Status == StatusParalysis {
		speed /= 2
	}
	return speed
}

// HPRatio is the current share of max HP in [0,1].
func (c *Combatant) HPRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// Clone returns a deep copy.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Types = append([]Type(nil), c.Types...)
	cp.Volatiles = append([]string{}, c.Volatiles...)
	cp.Moves = append([]MoveSlot(nil), c.Moves...)
	cp.Stages = make(map[Stat]int, len(c.Stages))
	for k, v := range c.Stages {
		cp.Stages[k] = v
	}
	return &cp
}

// Side is one participant of the battle: a roster with a single active combatant.
type Side struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Roster  []*Combatant `json:"roster"`
	Active  int          `json:"active"`
	Pending bool         `json:"pending_replacement"`
}

// NewSide builds a side whose first roster member starts active.
func NewSide(id, name string, roster ...*Combatant) *Side {
	for _, c := range roster {
		c.SideID = id
	}
	return &Side{ID: id, Name: name, Roster: roster}
}

// ActiveCombatant returns the combatant currently on the field, or nil.
func (s *Side) ActiveCombatant() *Combatant {
	if s.Active < 0 || s.Active >= len(s.Roster) {
		return nil
	}
	return s.Roster[s.Active]
}

// HasUnfainted reports whether any roster member can still fight.
func (s *Side) HasUnfainted() bool {
	for _, c := range s.Roster {
		if !c.IsFainted() {
			return true
		}
	}
	return false
}

// HasBench reports whether a non-active roster member can still fight.
func (s *Side) HasBench() bool {
	for i, c := range s.Roster {
		if i != s.Active && !c.IsFainted() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s *Side) Clone() *Side {
	cp := *s
	cp.Roster = make([]*Combatant, len(s.Roster))
	for i, c := range s.Roster {
		cp.Roster[i] = c.Clone()
	}
	return &cp
}
