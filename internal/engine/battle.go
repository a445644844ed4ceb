package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// phase machine events
const (
	fsmExecute  = "execute"
	fsmEndTurn  = "end_turn"
	fsmNextTurn = "next_turn"
	fsmFinish   = "finish"
)

// Battle drives one battle through its turns.
// The state is only ever changed by applying events, and every applied event is journaled,
// so folding Events() from a clean slate reproduces State().
// A Battle is not safe for concurrent use.
type Battle struct {
	cfg    Config
	repo   Repository
	rng    RNG
	chart  *TypeChart
	damage *DamageCalculator
	log    zerolog.Logger

	state   *BattleState
	phases  *fsm.FSM
	queue   actionQueue
	journal []Record
	seq     uint64
	results []TurnResult
}

// Option customizes a Battle.
type Option func(*Battle)

// WithModifiers replaces the built-in item and ability hooks.
func WithModifiers(mods *ModifierRegistry) Option {
	return func(b *Battle) {
		b.damage = NewDamageCalculator(b.cfg.Damage, b.chart, mods)
	}
}

// WithLogger sets the logger used for discarded events and turn summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Battle) { b.log = l }
}

// NewBattle validates the sides and starts a battle. An empty id gets a random one.
// The sides are copied, so the caller's values are never mutated.
func NewBattle(id string, cfg Config, repo Repository, rng RNG, sides []*Side, opts ...Option) (*Battle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, NewError(CodeValidation, "a repository is required")
	}
	if rng == nil {
		return nil, NewError(CodeValidation, "a random source is required")
	}
	if err := validateSides(sides, repo); err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	chart := NewTypeChart()
	b := &Battle{
		cfg:    cfg,
		repo:   repo,
		rng:    rng,
		chart:  chart,
		damage: NewDamageCalculator(cfg.Damage, chart, DefaultModifiers()),
		log:    log.With().Str("battle", id).Logger(),
		state:  NewBattleState(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.phases = fsm.NewFSM(
		string(PhaseActionSelection),
		fsm.Events{
			{Name: fsmExecute, Src: []string{string(PhaseActionSelection)}, Dst: string(PhaseExecuteActions)},
			{Name: fsmEndTurn, Src: []string{string(PhaseExecuteActions)}, Dst: string(PhaseEndTurn)},
			{Name: fsmNextTurn, Src: []string{string(PhaseEndTurn)}, Dst: string(PhaseActionSelection)},
			{Name: fsmFinish, Src: []string{
				string(PhaseActionSelection), string(PhaseExecuteActions), string(PhaseEndTurn),
			}, Dst: string(PhaseBattleEnd)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if Phase(e.Dst) != PhaseBattleEnd {
					b.emit(&PhaseChangedEvent{Phase: Phase(e.Dst)})
				}
			},
		},
	)

	copies := make([]*Side, len(sides))
	for i, s := range sides {
		copies[i] = s.Clone()
	}
	weatherTurns := cfg.StartWeatherTurns
	if cfg.StartWeather == WeatherNone {
		weatherTurns = 0
	}
	if err := b.emit(&BattleStartedEvent{
		BattleID:     id,
		Sides:        copies,
		Weather:      cfg.StartWeather,
		WeatherTurns: weatherTurns,
	}); err != nil {
		return nil, err
	}
	b.log.Debug().Int("sides", len(sides)).Msg("battle started")
	return b, nil
}

func validateSides(sides []*Side, repo Repository) error {
	if len(sides) < 2 {
		return NewError(CodeValidation, "a battle needs at least two sides")
	}
	sideIDs := make(map[string]bool)
	ids := make(map[string]bool)
	for _, s := range sides {
		if s == nil || s.ID == "" {
			return NewError(CodeValidation, "every side needs an id")
		}
		if sideIDs[s.ID] {
			return NewError(CodeValidation, "duplicate side "+s.ID)
		}
		sideIDs[s.ID] = true
		if len(s.Roster) == 0 {
			return NewError(CodeValidation, "side "+s.ID+" has an empty roster")
		}
		active := s.ActiveCombatant()
		if active == nil || active.IsFainted() {
			return NewError(CodeValidation, "side "+s.ID+" must start with an unfainted active combatant")
		}
		for _, c := range s.Roster {
			if err := validateCombatant(c, s.ID, repo); err != nil {
				return err
			}
			if ids[c.ID] {
				return NewError(CodeValidation, "duplicate combatant "+c.ID)
			}
			ids[c.ID] = true
		}
	}
	return nil
}

func validateCombatant(c *Combatant, sideID string, repo Repository) error {
	if c == nil || c.ID == "" {
		return NewError(CodeValidation, "side "+sideID+" has a combatant without an id")
	}
	if c.SideID != sideID {
		return NewError(CodeValidation, fmt.Sprintf("%s belongs to side %q, not %s", c.ID, c.SideID, sideID))
	}
	if c.MaxHP <= 0 || c.HP < 0 || c.HP > c.MaxHP {
		return NewError(CodeValidation, fmt.Sprintf("%s has invalid HP %d/%d", c.ID, c.HP, c.MaxHP))
	}
	if c.Level < 1 {
		return NewError(CodeValidation, c.ID+" has no level")
	}
	for stat, v := range c.Stages {
		if v < MinStage || v > MaxStage {
			return NewError(CodeValidation, fmt.Sprintf("%s %s stage %d out of range", c.ID, stat, v))
		}
	}
	for _, slot := range c.Moves {
		if _, ok := repo.Move(slot.MoveID); !ok {
			return missingData("%s knows unknown move %d", c.ID, slot.MoveID)
		}
		if slot.PP < 0 || slot.PP > slot.MaxPP {
			return NewError(CodeValidation, fmt.Sprintf("%s has invalid PP %d/%d for move %d", c.ID, slot.PP, slot.MaxPP, slot.MoveID))
		}
	}
	return nil
}

// emit applies an event to the live state and journals it.
// An invariant breach is logged and the event is dropped, leaving the state untouched.
func (b *Battle) emit(evt Event) error {
	if err := evt.Apply(b.state); err != nil {
		if IsCode(err, CodeInvariant) {
			b.log.Warn().Err(err).Str("event", string(evt.Type())).Msg("event discarded")
		}
		return err
	}
	b.seq++
	b.journal = append(b.journal, Record{Seq: b.seq, Turn: b.state.Turn, Event: evt})
	b.log.Trace().Uint64("seq", b.seq).Str("event", string(evt.Type())).Msg(evt.Message())
	return nil
}

func (b *Battle) transition(name string) {
	if err := b.phases.Event(context.Background(), name); err != nil {
		b.log.Error().Err(err).Str("transition", name).Msg("phase transition rejected")
	}
}

// ID returns the battle id.
func (b *Battle) ID() string { return b.state.ID }

// Phase returns the current phase.
func (b *Battle) Phase() Phase { return Phase(b.phases.Current()) }

// IsActive reports whether the battle is still running.
func (b *Battle) IsActive() bool { return b.state.Active }

// Winner returns the winning side id, empty while running or when nobody won.
func (b *Battle) Winner() string { return b.state.Winner }

// State returns a copy of the current state.
func (b *Battle) State() *BattleState { return b.state.Clone() }

// Config returns the rules in use.
func (b *Battle) Config() Config { return b.cfg }

// Repository returns the reference data in use.
func (b *Battle) Repository() Repository { return b.repo }

// Calculator returns the damage calculator in use.
func (b *Battle) Calculator() *DamageCalculator { return b.damage }

// Events returns the journal in emission order.
func (b *Battle) Events() []Record { return append([]Record(nil), b.journal...) }

// Log returns every completed turn, oldest first.
func (b *Battle) Log() []TurnResult { return append([]TurnResult(nil), b.results...) }

// SetLogger replaces the logger, e.g. to silence batch runs.
func (b *Battle) SetLogger(l zerolog.Logger) { b.log = l.With().Str("battle", b.state.ID).Logger() }

// Pending returns the actions queued so far, in execution order.
func (b *Battle) Pending() []Action { return b.queue.snapshot() }

// QueueAction validates an action for the current turn and inserts it by priority and speed.
func (b *Battle) QueueAction(a Action) error {
	if b.Phase() != PhaseActionSelection || !b.state.Active {
		return NewError(CodeValidation, fmt.Sprintf("actions cannot be queued during %s", b.Phase()))
	}
	actor := b.state.Combatant(a.ActorID)
	if actor == nil {
		return NewError(CodeValidation, "unknown combatant "+a.ActorID)
	}
	if !b.state.IsActiveCombatant(actor.ID) {
		return NewError(CodeValidation, actor.ID+" is not on the field")
	}
	if actor.IsFainted() {
		return NewError(CodeValidation, actor.ID+" has fainted")
	}
	side := b.state.Side(actor.SideID)
	if side.Pending {
		return NewError(CodeValidation, "side "+side.ID+" must send a replacement first")
	}
	if b.queue.has(actor.ID) {
		return NewError(CodeValidation, actor.ID+" already has an action this turn")
	}

	switch a.Kind {
	case ActionMove:
		if a.MoveSlot < 0 || a.MoveSlot >= len(actor.Moves) {
			return NewError(CodeValidation, fmt.Sprintf("%s has no move slot %d", actor.ID, a.MoveSlot))
		}
		slot := actor.Moves[a.MoveSlot]
		if slot.PP <= 0 {
			return NewError(CodeValidation, fmt.Sprintf("%s has no PP left for move slot %d", actor.ID, a.MoveSlot))
		}
		move, ok := b.repo.Move(slot.MoveID)
		if !ok {
			return missingData("move %d not found", slot.MoveID)
		}
		if a.TargetID != "" {
			target := b.state.Combatant(a.TargetID)
			if target == nil {
				return NewError(CodeValidation, "unknown target "+a.TargetID)
			}
			if move.TargetShape() == TargetSingleOpponent && target.SideID == actor.SideID {
				return NewError(CodeValidation, move.Name+" must target an opponent")
			}
		}
		a.Priority = move.Priority
	case ActionSwitch:
		if err := b.checkSwitch(side, a.SwitchSlot); err != nil {
			return err
		}
		a.Priority = PrioritySwitch
	case ActionItem:
		if _, ok := b.repo.Item(a.ItemID); !ok {
			return missingData("item %d not found", a.ItemID)
		}
		if a.TargetID != "" {
			target := b.state.Combatant(a.TargetID)
			if target == nil || target.SideID != actor.SideID {
				return NewError(CodeValidation, "items can only be used on your own side")
			}
			if target.IsFainted() {
				return NewError(CodeValidation, target.ID+" has fainted")
			}
		}
		a.Priority = PriorityItem
	case ActionFlee:
		a.Priority = PriorityFlee
	default:
		return NewError(CodeValidation, fmt.Sprintf("unknown action kind %q", a.Kind))
	}

	a.Speed = actor.EffectiveSpeed()
	if b.state.Field.HasEffect(FieldTailwind, actor.SideID) {
		a.Speed *= 2
	}
	b.queue.insert(a)
	return nil
}

func (b *Battle) checkSwitch(side *Side, slot int) error {
	if slot < 0 || slot >= len(side.Roster) {
		return NewError(CodeValidation, fmt.Sprintf("side %s has no slot %d", side.ID, slot))
	}
	if slot == side.Active {
		return NewError(CodeValidation, side.Roster[slot].ID+" is already on the field")
	}
	if side.Roster[slot].IsFainted() {
		return NewError(CodeValidation, side.Roster[slot].ID+" has fainted")
	}
	return nil
}

// Ready reports whether every side still in the battle has queued an action for its active combatant.
func (b *Battle) Ready() bool {
	if !b.state.Active || b.Phase() != PhaseActionSelection {
		return false
	}
	for _, side := range b.state.LivingSides() {
		if side.Pending {
			return false
		}
		active := side.ActiveCombatant()
		if active == nil || !b.queue.has(active.ID) {
			return false
		}
	}
	return true
}

// NeedsReplacement lists the sides that must send in a new combatant before the next turn.
func (b *Battle) NeedsReplacement() []string {
	var out []string
	for _, side := range b.state.Sides {
		if side.Pending {
			out = append(out, side.ID)
		}
	}
	return out
}

// Replace sends in a new combatant after the active one fainted.
func (b *Battle) Replace(sideID string, slot int) error {
	if !b.state.Active || b.Phase() != PhaseActionSelection {
		return NewError(CodeValidation, "replacements happen between turns")
	}
	side := b.state.Side(sideID)
	if side == nil {
		return NewError(CodeValidation, "unknown side "+sideID)
	}
	if !side.Pending {
		return NewError(CodeValidation, "side "+sideID+" does not need a replacement")
	}
	if err := b.checkSwitch(side, slot); err != nil {
		return err
	}
	from := side.ActiveCombatant()
	if err := b.emit(&SwitchedEvent{
		SideID: side.ID,
		From:   from.ID,
		To:     side.Roster[slot].ID,
		Slot:   slot,
		Forced: true,
	}); err != nil {
		return err
	}
	b.entryHazards(side.Roster[slot])
	b.checkEnd("knockout")
	return nil
}

// ProcessTurn executes the queued actions in order, runs the end of turn and returns its record.
// Only validation problems are returned as errors; a failing action is reported inside the result.
func (b *Battle) ProcessTurn() (*TurnResult, error) {
	if !b.state.Active {
		return nil, NewError(CodeValidation, "the battle is over")
	}
	if !b.Ready() {
		return nil, NewError(CodeValidation, "not every side has chosen an action")
	}

	turn := &TurnResult{Turn: b.state.Turn + 1}
	b.transition(fsmExecute)

	for _, a := range b.queue.drain() {
		if !b.state.Active {
			break
		}
		actor := b.state.Combatant(a.ActorID)
		if actor.IsFainted() || !b.state.IsActiveCombatant(actor.ID) {
			continue
		}
		res := b.execute(a)
		turn.Actions = append(turn.Actions, res)
		if res.Failed {
			b.log.Warn().Str("actor", a.ActorID).Str("kind", string(a.Kind)).Msg(res.Error)
		}
		if b.checkEnd("knockout") {
			break
		}
	}

	if b.state.Active {
		b.transition(fsmEndTurn)
		turn.Residuals = b.endOfTurn()
		b.checkEnd("knockout")
	}

	if b.state.Active {
		b.transition(fsmNextTurn)
	}
	turn.Ended = !b.state.Active
	turn.Winner = b.state.Winner
	b.results = append(b.results, *turn)
	b.log.Debug().Int("turn", turn.Turn).Int("actions", len(turn.Actions)).Bool("ended", turn.Ended).Msg("turn processed")
	return turn, nil
}

// checkEnd closes the battle when fewer than two sides can still fight.
func (b *Battle) checkEnd(reason string) bool {
	if !b.state.Active {
		return true
	}
	living := b.state.LivingSides()
	if len(living) >= 2 {
		return false
	}
	winner := ""
	if len(living) == 1 {
		winner = living[0].ID
	}
	b.finish(winner, reason)
	return true
}

func (b *Battle) finish(winner, reason string) {
	b.emit(&BattleEndedEvent{Winner: winner, Reason: reason})
	b.queue.drain()
	b.transition(fsmFinish)
	b.log.Info().Str("winner", winner).Str("reason", reason).Int("turn", b.state.Turn).Msg("battle ended")
}
