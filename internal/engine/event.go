package engine

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventBattleStarted    EventType = "BattleStarted"
	EventPhaseChanged     EventType = "PhaseChanged"
	EventMoveUsed         EventType = "MoveUsed"
	EventDamageDealt      EventType = "DamageDealt"
	EventHealed           EventType = "Healed"
	EventFainted          EventType = "Fainted"
	EventStatusChanged    EventType = "StatusChanged"
	EventStatStageChanged EventType = "StatStageChanged"
	EventVolatileChanged  EventType = "VolatileChanged"
	EventCountersChanged  EventType = "CountersChanged"
	EventSwitched         EventType = "Switched"
	EventItemUsed         EventType = "ItemUsed"
	EventWeatherChanged   EventType = "WeatherChanged"
	EventFieldEffectAdded EventType = "FieldEffectAdded"
	EventFieldDecayed     EventType = "FieldDecayed"
	EventTurnEnded        EventType = "TurnEnded"
	EventBattleEnded      EventType = "BattleEnded"
	EventNotice           EventType = "Notice"
)

// Event is the building block of the battle journal.
// Apply mutates the state; an invariant breach returns a CodeInvariant error and leaves the state untouched.
type Event interface {
	Type() EventType
	Apply(state *BattleState) error
	Message() string
}

// Record is a journal entry. Seq is monotonic within a battle and replaces wall-clock timestamps.
type Record struct {
	Seq   uint64 `json:"seq"`
	Turn  int    `json:"turn"`
	Event Event  `json:"-"`
}

func invariant(format string, args ...any) error {
	return NewError(CodeInvariant, fmt.Sprintf(format, args...))
}

func lookup(state *BattleState, id string) (*Combatant, error) {
	c := state.Combatant(id)
	if c == nil {
		return nil, invariant("combatant %s not found", id)
	}
	return c, nil
}

// BattleStartedEvent seeds the state with the sides and the starting weather.
type BattleStartedEvent struct {
	BattleID     string  `json:"battle_id"`
	Sides        []*Side `json:"sides"`
	Weather      Weather `json:"weather,omitempty"`
	WeatherTurns int     `json:"weather_turns,omitempty"`
}

func (e *BattleStartedEvent) Type() EventType { return EventBattleStarted }
func (e *BattleStartedEvent) Apply(state *BattleState) error {
	state.ID = e.BattleID
	state.Active = true
	state.Turn = 0
	state.Winner = ""
	state.Phase = PhaseActionSelection
	state.Field = Field{Weather: e.Weather, WeatherTurns: e.WeatherTurns, Effects: make([]FieldEffect, 0)}
	state.Sides = make([]*Side, len(e.Sides))
	for i, s := range e.Sides {
		state.Sides[i] = s.Clone()
	}
	return nil
}
func (e *BattleStartedEvent) Message() string {
	names := make([]string, len(e.Sides))
	for i, s := range e.Sides {
		names[i] = s.Name
	}
	return fmt.Sprintf("Battle started: %s.", strings.Join(names, " vs "))
}

// PhaseChangedEvent mirrors a state machine transition into the state.
type PhaseChangedEvent struct {
	Phase Phase `json:"phase"`
}

func (e *PhaseChangedEvent) Type() EventType { return EventPhaseChanged }
func (e *PhaseChangedEvent) Apply(state *BattleState) error {
	state.Phase = e.Phase
	return nil
}
func (e *PhaseChangedEvent) Message() string { return fmt.Sprintf("Phase: %s", e.Phase) }

// MoveUsedEvent spends one PP from the actor's slot.
type MoveUsedEvent struct {
	ActorID  string `json:"actor_id"`
	Slot     int    `json:"slot"`
	MoveID   int    `json:"move_id"`
	MoveName string `json:"move_name"`
}

func (e *MoveUsedEvent) Type() EventType { return EventMoveUsed }
func (e *MoveUsedEvent) Apply(state *BattleState) error {
	c, err := lookup(state, e.ActorID)
	if err != nil {
		return err
	}
	if e.Slot < 0 || e.Slot >= len(c.Moves) {
		return invariant("%s has no move slot %d", e.ActorID, e.Slot)
	}
	if c.Moves[e.Slot].PP <= 0 {
		return invariant("%s has no PP left in slot %d", e.ActorID, e.Slot)
	}
	c.Moves[e.Slot].PP--
	return nil
}
func (e *MoveUsedEvent) Message() string {
	return fmt.Sprintf("%s used %s!", e.ActorID, e.MoveName)
}

// DamageDealtEvent removes HP. HP never drops below 0.
type DamageDealtEvent struct {
	TargetID string  `json:"target_id"`
	Amount   int     `json:"amount"`
	Source   string  `json:"source"`
	Critical bool    `json:"critical,omitempty"`
	Factor   float64 `json:"effectiveness,omitempty"`
}

func (e *DamageDealtEvent) Type() EventType { return EventDamageDealt }
func (e *DamageDealtEvent) Apply(state *BattleState) error {
	if e.Amount < 0 {
		return invariant("negative damage %d to %s", e.Amount, e.TargetID)
	}
	c, err := lookup(state, e.TargetID)
	if err != nil {
		return err
	}
	c.HP -= e.Amount
	if c.HP < 0 {
		c.HP = 0
	}
	return nil
}
func (e *DamageDealtEvent) Message() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s took %d damage", e.TargetID, e.Amount))
	if e.Source != "" && e.Source != "move" {
		sb.WriteString(fmt.Sprintf(" from %s", e.Source))
	}
	sb.WriteString(".")
	if e.Critical {
		sb.WriteString(" A critical hit!")
	}
	switch {
	case e.Factor > 1:
		sb.WriteString(" It's super effective!")
	case e.Factor > 0 && e.Factor < 1:
		sb.WriteString(" It's not very effective...")
	}
	return sb.String()
}

// HealedEvent restores HP up to the maximum.
type HealedEvent struct {
	TargetID string `json:"target_id"`
	Amount   int    `json:"amount"`
}

func (e *HealedEvent) Type() EventType { return EventHealed }
func (e *HealedEvent) Apply(state *BattleState) error {
	if e.Amount < 0 {
		return invariant("negative heal %d to %s", e.Amount, e.TargetID)
	}
	c, err := lookup(state, e.TargetID)
	if err != nil {
		return err
	}
	if c.IsFainted() {
		return invariant("cannot heal fainted %s", e.TargetID)
	}
	c.HP += e.Amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return nil
}
func (e *HealedEvent) Message() string {
	return fmt.Sprintf("%s healed for %d HP.", e.TargetID, e.Amount)
}

// FaintedEvent marks a knockout and flags a forced replacement when the side has a bench.
type FaintedEvent struct {
	ActorID string `json:"actor_id"`
}

func (e *FaintedEvent) Type() EventType { return EventFainted }
func (e *FaintedEvent) Apply(state *BattleState) error {
	c, err := lookup(state, e.ActorID)
	if err != nil {
		return err
	}
	if !c.IsFainted() {
		return invariant("%s fainted with %d HP", e.ActorID, c.HP)
	}
	c.Status = StatusNone
	c.Volatiles = c.Volatiles[:0]
	side := state.Side(c.SideID)
	if side != nil {
		if a := side.ActiveCombatant(); a != nil && a.ID == c.ID && side.HasBench() {
			side.Pending = true
		}
	}
	return nil
}
func (e *FaintedEvent) Message() string { return fmt.Sprintf("%s fainted!", e.ActorID) }

// StatusChangedEvent sets or cures the major status.
type StatusChangedEvent struct {
	TargetID   string `json:"target_id"`
	Status     Status `json:"status"`
	SleepTurns int    `json:"sleep_turns,omitempty"`
}

func (e *StatusChangedEvent) Type() EventType { return EventStatusChanged }
func (e *StatusChangedEvent) Apply(state *BattleState) error {
	c, err := lookup(state, e.TargetID)
	if err != nil {
		return err
	}
	if e.Status != StatusNone && c.Status != StatusNone {
		return invariant("%s already has %s, cannot add %s", e.TargetID, c.Status, e.Status)
	}
	c.Status = e.Status
	c.SleepTurns = 0
	c.ToxicCounter = 0
	switch e.Status {
	case StatusSleep:
		c.SleepTurns = e.SleepTurns
	case StatusBadlyPoisoned:
		c.ToxicCounter = 1
	}
	return nil
}
func (e *StatusChangedEvent) Message() string {
	if e.Status == StatusNone {
		return fmt.Sprintf("%s was cured.", e.TargetID)
	}
	return fmt.Sprintf("%s is now %s.", e.TargetID, strings.ReplaceAll(string(e.Status), "_", " "))
}

// StatStageChangedEvent moves a stat stage. The result must stay in [-6,6].
type StatStageChangedEvent struct {
	TargetID string `json:"target_id"`
	Stat     Stat   `json:"stat"`
	Delta    int    `json:"delta"`
}

func (e *StatStageChangedEvent) Type() EventType { return EventStatStageChanged }
func (e *StatStageChangedEvent) Apply(state *BattleState) error {
	c, err := lookup(state, e.TargetID)
	if err != nil {
		return err
	}
	next := c.Stage(e.Stat) + e.Delta
	if next < MinStage || next > MaxStage {
		return invariant("%s %s stage %d out of range", e.TargetID, e.Stat, next)
	}
	if c.Stages == nil {
		c.Stages = make(map[Stat]int)
	}
	c.Stages[e.Stat] = next
	return nil
}
func (e *StatStageChangedEvent) Message() string {
	verb := "rose"
	if e.Delta < 0 {
		verb = "fell"
	}
	return fmt.Sprintf("%s's %s %s by %d.", e.TargetID, e.Stat, verb, abs(e.Delta))
}

// VolatileChangedEvent toggles a minor ailment.
type VolatileChangedEvent struct {
	TargetID string `json:"target_id"`
	Volatile string `json:"volatile"`
	Active   bool   `json:"active"`
}

func (e *VolatileChangedEvent) Type() EventType { return EventVolatileChanged }
func (e *VolatileChangedEvent) Apply(state *BattleState) error {
	c, err := lookup(state, e.TargetID)
	if err != nil {
		return err
	}
	if e.Active {
		if !c.HasVolatile(e.Volatile) {
			c.Volatiles = append(c.Volatiles, e.Volatile)
		}
		return nil
	}
	kept := make([]string, 0, len(c.Volatiles))
	for _, v := range c.Volatiles {
		if v != e.Volatile {
			kept = append(kept, v)
		}
	}
	c.Volatiles = kept
	return nil
}
func (e *VolatileChangedEvent) Message() string {
	if e.Active {
		return fmt.Sprintf("%s is now %s.", e.TargetID, e.Volatile)
	}
	return fmt.Sprintf("%s is no longer %s.", e.TargetID, e.Volatile)
}

// CountersChangedEvent stores the sleep and toxic counters after a tick.
type CountersChangedEvent struct {
	TargetID     string `json:"target_id"`
	SleepTurns   int    `json:"sleep_turns"`
	ToxicCounter int    `json:"toxic_counter"`
}

func (e *CountersChangedEvent) Type() EventType { return EventCountersChanged }
func (e *CountersChangedEvent) Apply(state *BattleState) error {
	c, err := lookup(state, e.TargetID)
	if err != nil {
		return err
	}
	c.SleepTurns = e.SleepTurns
	c.ToxicCounter = e.ToxicCounter
	return nil
}
func (e *CountersChangedEvent) Message() string {
	return fmt.Sprintf("%s counters updated.", e.TargetID)
}

// SwitchedEvent swaps the active combatant of a side.
// The outgoing combatant loses its stages and minor ailments.
type SwitchedEvent struct {
	SideID string `json:"side_id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Slot   int    `json:"slot"`
	Forced bool   `json:"forced,omitempty"`
}

func (e *SwitchedEvent) Type() EventType { return EventSwitched }
func (e *SwitchedEvent) Apply(state *BattleState) error {
	side := state.Side(e.SideID)
	if side == nil {
		return invariant("side %s not found", e.SideID)
	}
	if e.Slot < 0 || e.Slot >= len(side.Roster) {
		return invariant("side %s has no slot %d", e.SideID, e.Slot)
	}
	incoming := side.Roster[e.Slot]
	if incoming.IsFainted() {
		return invariant("cannot switch in fainted %s", incoming.ID)
	}
	if out := side.ActiveCombatant(); out != nil {
		out.Stages = make(map[Stat]int)
		out.Volatiles = make([]string, 0)
		if out.Status == StatusBadlyPoisoned {
			out.ToxicCounter = 1
		}
	}
	side.Active = e.Slot
	side.Pending = false
	return nil
}
func (e *SwitchedEvent) Message() string {
	if e.Forced {
		return fmt.Sprintf("%s sent out %s.", e.SideID, e.To)
	}
	return fmt.Sprintf("%s withdrew %s and sent out %s.", e.SideID, e.From, e.To)
}

// ItemUsedEvent records an item use; its effects follow as separate events.
type ItemUsedEvent struct {
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`
}

func (e *ItemUsedEvent) Type() EventType                { return EventItemUsed }
func (e *ItemUsedEvent) Apply(state *BattleState) error { return nil }
func (e *ItemUsedEvent) Message() string {
	return fmt.Sprintf("%s used %s on %s.", e.ActorID, e.ItemName, e.TargetID)
}

// WeatherChangedEvent sets the weather. Turns of 0 keep it until replaced.
type WeatherChangedEvent struct {
	Weather Weather `json:"weather"`
	Turns   int     `json:"turns"`
}

func (e *WeatherChangedEvent) Type() EventType { return EventWeatherChanged }
func (e *WeatherChangedEvent) Apply(state *BattleState) error {
	state.Field.Weather = e.Weather
	state.Field.WeatherTurns = e.Turns
	return nil
}
func (e *WeatherChangedEvent) Message() string {
	if e.Weather == WeatherNone {
		return "The weather cleared."
	}
	return fmt.Sprintf("The weather became %s.", e.Weather)
}

// FieldEffectAddedEvent places a new effect. A duplicate on the same side is an invariant breach.
type FieldEffectAddedEvent struct {
	Effect FieldEffect `json:"effect"`
}

func (e *FieldEffectAddedEvent) Type() EventType { return EventFieldEffectAdded }
func (e *FieldEffectAddedEvent) Apply(state *BattleState) error {
	if e.Effect.Turns <= 0 {
		return invariant("field effect %s needs a positive duration", e.Effect.Kind)
	}
	for _, fe := range state.Field.Effects {
		if fe.Kind == e.Effect.Kind && fe.SideID == e.Effect.SideID {
			return invariant("field effect %s already active for %q", fe.Kind, fe.SideID)
		}
	}
	state.Field.Effects = append(state.Field.Effects, e.Effect)
	return nil
}
func (e *FieldEffectAddedEvent) Message() string {
	if e.Effect.SideID == "" {
		return fmt.Sprintf("%s covers the field.", e.Effect.Kind)
	}
	return fmt.Sprintf("%s protects %s.", e.Effect.Kind, e.Effect.SideID)
}

// FieldDecayedEvent counts every field effect down one turn and removes the expired ones,
// then counts the weather down when it is not permanent.
type FieldDecayedEvent struct{}

func (e *FieldDecayedEvent) Type() EventType { return EventFieldDecayed }
func (e *FieldDecayedEvent) Apply(state *BattleState) error {
	kept := make([]FieldEffect, 0, len(state.Field.Effects))
	for _, fe := range state.Field.Effects {
		fe.Turns--
		if fe.Turns > 0 {
			kept = append(kept, fe)
		}
	}
	state.Field.Effects = kept

	if state.Field.Weather != WeatherNone && state.Field.WeatherTurns > 0 {
		state.Field.WeatherTurns--
		if state.Field.WeatherTurns == 0 {
			state.Field.Weather = WeatherNone
		}
	}
	return nil
}
func (e *FieldDecayedEvent) Message() string { return "Field effects wore on." }

// TurnEndedEvent advances the turn counter.
type TurnEndedEvent struct {
	Turn int `json:"turn"`
}

func (e *TurnEndedEvent) Type() EventType { return EventTurnEnded }
func (e *TurnEndedEvent) Apply(state *BattleState) error {
	if e.Turn != state.Turn+1 {
		return invariant("turn %d does not follow %d", e.Turn, state.Turn)
	}
	state.Turn = e.Turn
	return nil
}
func (e *TurnEndedEvent) Message() string { return fmt.Sprintf("Turn %d ended.", e.Turn) }

// BattleEndedEvent closes the battle. An empty winner means a mutual knockout or a flee.
type BattleEndedEvent struct {
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason"`
}

func (e *BattleEndedEvent) Type() EventType { return EventBattleEnded }
func (e *BattleEndedEvent) Apply(state *BattleState) error {
	state.Active = false
	state.Winner = e.Winner
	state.Phase = PhaseBattleEnd
	return nil
}
func (e *BattleEndedEvent) Message() string {
	if e.Winner == "" {
		return fmt.Sprintf("Battle ended with no winner (%s).", e.Reason)
	}
	return fmt.Sprintf("Battle ended: %s wins (%s).", e.Winner, e.Reason)
}

// NoticeEvent carries a purely informational line (misses, immunities, failed moves).
type NoticeEvent struct {
	ActorID string `json:"actor_id,omitempty"`
	Text    string `json:"text"`
}

func (e *NoticeEvent) Type() EventType                { return EventNotice }
func (e *NoticeEvent) Apply(state *BattleState) error { return nil }
func (e *NoticeEvent) Message() string                { return e.Text }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
