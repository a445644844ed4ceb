package parser

import (
	"strconv"
	"strings"
)

// Command represents a top-level action typed at the battle prompt
type Command struct {
	Move    *MoveCmd    `parser:"( @@"`
	Switch  *SwitchCmd  `parser:"| @@"`
	Item    *ItemCmd    `parser:"| @@"`
	Flee    *FleeCmd    `parser:"| @@"`
	Replace *ReplaceCmd `parser:"| @@"`
	Turn    *TurnCmd    `parser:"| @@"`
	Status  *StatusCmd  `parser:"| @@"`
	Help    *HelpCmd    `parser:"| @@ )"`
}

// ActorExpr maps parsing the mandatory ":by Someone" block
type ActorExpr struct {
	Keyword string `parser:"\":\" \"by\""`
	Name    string `parser:"@Ident"`
}

// TargetExpr maps the optional ":to Someone" or ":on Someone" block
type TargetExpr struct {
	Keyword string `parser:"\":\" (\"to\"|\"on\")"`
	Name    string `parser:"@Ident"`
}

// SlotExpr is a roster reference, either a 1-based position or a combatant id
type SlotExpr struct {
	Keyword string `parser:"\":\" \"to\""`
	Value   string `parser:"@(Int|Ident)"`
}

// Index returns the 0-based position when the slot was given as a number.
func (s *SlotExpr) Index() (int, bool) {
	n, err := strconv.Atoi(s.Value)
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

// MoveCmd uses a move by name or by 1-based slot
type MoveCmd struct {
	Keyword string      `parser:"@\"move\""`
	Actor   *ActorExpr  `parser:"@@"`
	Words   []string    `parser:"@(Ident|Int)+"`
	Target  *TargetExpr `parser:"@@?"`
}

// Name joins the words of the move name ("swords dance").
func (m *MoveCmd) Name() string {
	return strings.Join(m.Words, " ")
}

// Slot returns the 0-based slot when the move was given as a single number.
func (m *MoveCmd) Slot() (int, bool) {
	if len(m.Words) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(m.Words[0])
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

// SwitchCmd withdraws the active combatant
type SwitchCmd struct {
	Keyword string     `parser:"@\"switch\""`
	Actor   *ActorExpr `parser:"@@"`
	Slot    *SlotExpr  `parser:"@@"`
}

// ItemCmd uses a bag item on the actor or on a teammate
type ItemCmd struct {
	Keyword string      `parser:"@\"item\""`
	Actor   *ActorExpr  `parser:"@@"`
	Words   []string    `parser:"@Ident+"`
	Target  *TargetExpr `parser:"@@?"`
}

// Name joins the words of the item name ("super potion").
func (i *ItemCmd) Name() string {
	return strings.Join(i.Words, " ")
}

// FleeCmd ends the battle without a winner
type FleeCmd struct {
	Keyword string     `parser:"@\"flee\""`
	Actor   *ActorExpr `parser:"@@"`
}

// ReplaceCmd sends in a new combatant after a knockout. Actor names the side or its fainted combatant.
type ReplaceCmd struct {
	Keyword string     `parser:"@\"replace\""`
	Actor   *ActorExpr `parser:"@@"`
	Slot    *SlotExpr  `parser:"@@"`
}

// TurnCmd resolves the turn once every side has chosen
type TurnCmd struct {
	Keyword string `parser:"@\"turn\""`
}

// StatusCmd prints the battlefield
type StatusCmd struct {
	Keyword string `parser:"@\"status\""`
}

// HelpCmd provides context-aware guidance
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Command string `parser:"(@Keyword|@Ident)?"`
}
