package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/arena/internal/data"
	"github.com/suderio/arena/internal/engine"
)

type memStore struct {
	records []engine.Record
	closed  bool
}

func (m *memStore) AppendAll(recs []engine.Record) (int, error) {
	var last uint64
	if n := len(m.records); n > 0 {
		last = m.records[n-1].Seq
	}
	written := 0
	for _, r := range recs {
		if r.Seq <= last {
			continue
		}
		m.records = append(m.records, r)
		written++
	}
	return written, nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	repo, err := data.Load(data.NewLoader(nil))
	require.NoError(t, err)

	l := data.NewLoader(nil)
	var sides []*engine.Side
	for _, name := range []string{"red", "blue"} {
		team, err := l.LoadTeam(name)
		require.NoError(t, err)
		side, err := repo.BuildSide(name, team)
		require.NoError(t, err)
		sides = append(sides, side)
	}
	mods, err := repo.Modifiers()
	require.NoError(t, err)

	b, err := engine.NewBattle("test", engine.DefaultConfig(), repo, engine.NewScriptedRNG(), sides, engine.WithModifiers(mods))
	require.NoError(t, err)

	s, err := NewSession(repo, b, opts...)
	require.NoError(t, err)
	return s
}

func TestExecuteMoveAndTurn(t *testing.T) {
	s := newTestSession(t)

	out, err := s.Execute("move :by charizard flamethrower")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = s.Execute("move :by Blastoise Surf")
	require.NoError(t, err)
	assert.True(t, s.Battle().Ready())

	out, err = s.Execute("turn")
	require.NoError(t, err)
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "charizard used Flamethrower!")
	assert.Contains(t, joined, "blastoise used Surf!")
	assert.Contains(t, joined, "Turn 1 ended.")
	assert.NotContains(t, joined, "Phase:")
	assert.NotContains(t, joined, "Battle started", "the opening record is not drained again")
	assert.Equal(t, 1, s.Battle().State().Turn)
}

func TestExecuteMoveBySlot(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute("move :by charizard 3")
	require.NoError(t, err)

	pending := s.Battle().Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].MoveSlot)
}

func TestExecuteErrors(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute("move :by charizard surf")
	assert.ErrorContains(t, err, "does not know")

	_, err = s.Execute("move :by nobody tackle")
	assert.ErrorContains(t, err, "unknown combatant")

	_, err = s.Execute("move :by charizard splash")
	assert.ErrorContains(t, err, "unknown move")

	_, err = s.Execute("switch :by charizard")
	assert.ErrorContains(t, err, "The command switch must be")

	_, err = s.Execute("turn")
	assert.Error(t, err)
}

func TestExecuteSwitchByName(t *testing.T) {
	s := newTestSession(t, WithAutoTurn())

	_, err := s.Execute("switch :by charizard :to venusaur")
	require.NoError(t, err)
	out, err := s.Execute("move :by blastoise bite")
	require.NoError(t, err)

	assert.Contains(t, strings.Join(out, "\n"), "red withdrew charizard and sent out venusaur.")
	assert.Equal(t, "venusaur", s.Battle().State().Side("red").ActiveCombatant().ID)
}

func TestExecuteItem(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute("item :by blastoise super potion")
	require.NoError(t, err)
	pending := s.Battle().Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, engine.ActionItem, pending[0].Kind)

	_, err = s.Execute("item :by charizard potion :on blastoise")
	assert.Error(t, err)
}

func TestExecuteFlee(t *testing.T) {
	s := newTestSession(t, WithAutoTurn())

	_, err := s.Execute("flee :by charizard")
	require.NoError(t, err)
	out, err := s.Execute("move :by blastoise bite")
	require.NoError(t, err)

	assert.Contains(t, strings.Join(out, "\n"), "Battle ended with no winner (flee).")
	assert.False(t, s.Battle().IsActive())
}

func TestStatusAndHelp(t *testing.T) {
	s := newTestSession(t)

	out, err := s.Execute("status")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Turn 1 (action_selection)", out[0])
	assert.Contains(t, out[1], "*charizard 138/138")
	assert.Contains(t, out[1], "1:Flamethrower 15/15")

	out, err = s.Execute("help switch")
	require.NoError(t, err)
	assert.Equal(t, []string{"switch :by Actor :to <slot|Combatant>"}, out)

	out, err = s.Execute("help")
	require.NoError(t, err)
	assert.Len(t, out, 8)
}

func TestPersistsJournal(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, WithStore(store), WithAutoTurn())
	require.NotEmpty(t, store.records)

	_, err := s.Execute("move :by charizard slash")
	require.NoError(t, err)
	_, err = s.Execute("move :by blastoise bite")
	require.NoError(t, err)

	assert.Equal(t, s.Battle().Events(), store.records)

	require.NoError(t, s.Close())
	assert.True(t, store.closed)
}

func TestRun(t *testing.T) {
	s := newTestSession(t)

	script := strings.Join([]string{
		"# opening",
		"move :by charizard sunny day",
		"",
		"move :by blastoise rain dance",
		"fly away",
		"turn",
	}, "\n")
	var w bytes.Buffer
	require.NoError(t, s.Run(strings.NewReader(script), &w))

	out := w.String()
	assert.Contains(t, out, "error: I wasn't able to understand your command")
	assert.Contains(t, out, "The weather became")
	assert.Equal(t, 1, s.Battle().State().Turn)
}
