package session

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/suderio/arena/internal/data"
	"github.com/suderio/arena/internal/engine"
	"github.com/suderio/arena/internal/parser"
)

// Store defines the dependency required by Session to persist the journal
type Store interface {
	AppendAll(recs []engine.Record) (int, error)
	Close() error
}

// Session manages the loop of taking commands, driving the battle and persisting its journal
type Session struct {
	repo     *data.Repository
	battle   *engine.Battle
	store    Store
	autoTurn bool
	printed  uint64
}

// Option customizes a Session.
type Option func(*Session)

// WithStore persists every new journal record after each command.
func WithStore(store Store) Option {
	return func(s *Session) { s.store = store }
}

// WithAutoTurn resolves the turn as soon as every side has chosen.
func WithAutoTurn() Option {
	return func(s *Session) { s.autoTurn = true }
}

// NewSession wraps a running battle
func NewSession(repo *data.Repository, battle *engine.Battle, opts ...Option) (*Session, error) {
	s := &Session{repo: repo, battle: battle}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	// the caller shows the opening state, so only later records are drained
	if events := battle.Events(); len(events) > 0 {
		s.printed = events[len(events)-1].Seq
	}
	return s, nil
}

// Battle returns the battle being driven
func (s *Session) Battle() *engine.Battle {
	return s.battle
}

// Execute takes a raw command line, runs it and returns the lines to print
func (s *Session) Execute(input string) ([]string, error) {
	cmd, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}

	switch {
	case cmd.Move != nil:
		err = s.move(cmd.Move)
	case cmd.Switch != nil:
		err = s.switchOut(cmd.Switch)
	case cmd.Item != nil:
		err = s.item(cmd.Item)
	case cmd.Flee != nil:
		err = s.flee(cmd.Flee)
	case cmd.Replace != nil:
		err = s.replace(cmd.Replace)
	case cmd.Turn != nil:
		_, err = s.battle.ProcessTurn()
	case cmd.Status != nil:
		return FormatState(s.battle.State(), s.repo), nil
	case cmd.Help != nil:
		return help(cmd.Help.Command), nil
	default:
		return nil, fmt.Errorf("unsupported command pattern")
	}
	if err != nil {
		return nil, err
	}

	if s.autoTurn && s.battle.Ready() {
		if _, err := s.battle.ProcessTurn(); err != nil {
			return nil, err
		}
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s.drain(), nil
}

// Run executes every line of r, writing output and errors to w, until EOF.
// Blank lines and lines starting with # are skipped.
func (s *Session) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines, err := s.Execute(line)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
	}
	return scanner.Err()
}

// persist appends the records the store has not seen yet
func (s *Session) persist() error {
	if s.store == nil {
		return nil
	}
	if _, err := s.store.AppendAll(s.battle.Events()); err != nil {
		return fmt.Errorf("failed to persist event log: %w", err)
	}
	return nil
}

// drain returns the messages of every record not shown yet
func (s *Session) drain() []string {
	var out []string
	for _, r := range s.battle.Events() {
		if r.Seq <= s.printed {
			continue
		}
		s.printed = r.Seq
		if quiet(r.Event.Type()) {
			continue
		}
		out = append(out, r.Event.Message())
	}
	return out
}

func quiet(t engine.EventType) bool {
	switch t {
	case engine.EventPhaseChanged, engine.EventCountersChanged, engine.EventFieldDecayed:
		return true
	}
	return false
}

// combatant resolves a typed name to a combatant id
func (s *Session) combatant(name string) (*engine.Combatant, error) {
	state := s.battle.State()
	if c := state.Combatant(name); c != nil {
		return c, nil
	}
	if c := state.Combatant(data.Normalize(name)); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("unknown combatant %q", name)
}

func (s *Session) move(cmd *parser.MoveCmd) error {
	actor, err := s.combatant(cmd.Actor.Name)
	if err != nil {
		return err
	}
	slot, ok := cmd.Slot()
	if !ok {
		mv, found := s.repo.MoveByName(cmd.Name())
		if !found {
			return fmt.Errorf("unknown move %q", cmd.Name())
		}
		slot = -1
		for i, m := range actor.Moves {
			if m.MoveID == mv.ID {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%s does not know %s", actor.ID, mv.Name)
		}
	}
	target := ""
	if cmd.Target != nil {
		t, err := s.combatant(cmd.Target.Name)
		if err != nil {
			return err
		}
		target = t.ID
	}
	return s.battle.QueueAction(engine.MoveAction(actor.ID, slot, target))
}

// rosterSlot resolves a 1-based position or a combatant name within a side
func rosterSlot(side *engine.Side, expr *parser.SlotExpr) (int, error) {
	if idx, ok := expr.Index(); ok {
		return idx, nil
	}
	for i, c := range side.Roster {
		if c.ID == expr.Value || c.ID == data.Normalize(expr.Value) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("side %s has no %s", side.ID, expr.Value)
}

func (s *Session) switchOut(cmd *parser.SwitchCmd) error {
	actor, err := s.combatant(cmd.Actor.Name)
	if err != nil {
		return err
	}
	side := s.battle.State().Side(actor.SideID)
	slot, err := rosterSlot(side, cmd.Slot)
	if err != nil {
		return err
	}
	return s.battle.QueueAction(engine.SwitchAction(actor.ID, slot))
}

func (s *Session) item(cmd *parser.ItemCmd) error {
	actor, err := s.combatant(cmd.Actor.Name)
	if err != nil {
		return err
	}
	it, ok := s.repo.ItemByName(cmd.Name())
	if !ok {
		return fmt.Errorf("unknown item %q", cmd.Name())
	}
	target := ""
	if cmd.Target != nil {
		t, err := s.combatant(cmd.Target.Name)
		if err != nil {
			return err
		}
		target = t.ID
	}
	return s.battle.QueueAction(engine.ItemAction(actor.ID, it.ID, target))
}

func (s *Session) flee(cmd *parser.FleeCmd) error {
	actor, err := s.combatant(cmd.Actor.Name)
	if err != nil {
		return err
	}
	return s.battle.QueueAction(engine.FleeAction(actor.ID))
}

func (s *Session) replace(cmd *parser.ReplaceCmd) error {
	state := s.battle.State()
	side := state.Side(cmd.Actor.Name)
	if side == nil {
		c, err := s.combatant(cmd.Actor.Name)
		if err != nil {
			return err
		}
		side = state.Side(c.SideID)
	}
	slot, err := rosterSlot(side, cmd.Slot)
	if err != nil {
		return err
	}
	return s.battle.Replace(side.ID, slot)
}

func keywords() []string {
	keys := make([]string, 0, len(parser.Usage))
	for k := range parser.Usage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func help(topic string) []string {
	if usage, ok := parser.Usage[strings.ToLower(topic)]; ok {
		return []string{usage}
	}
	keys := keywords()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, parser.Usage[k])
	}
	return out
}

// Close releases the store
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		log.Error().Err(err).Msg("closing battle store")
		return err
	}
	return nil
}
