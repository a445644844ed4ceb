package parser_test

import (
	"testing"

	"github.com/suderio/arena/internal/parser"
)

func TestParseMove(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "move :by charizard Swords Dance")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Move == nil {
		t.Fatalf("Expected MoveCmd, got nil")
	}

	if cmd.Move.Actor.Name != "charizard" {
		t.Errorf("Expected charizard actor, got %s", cmd.Move.Actor.Name)
	}

	if cmd.Move.Name() != "Swords Dance" {
		t.Errorf("Expected Swords Dance, got %q", cmd.Move.Name())
	}

	if cmd.Move.Target != nil {
		t.Errorf("Expected no target, got %s", cmd.Move.Target.Name)
	}
}

func TestParseMoveWithTarget(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "MOVE :by gengar Will-O-Wisp :to snorlax")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Move == nil {
		t.Fatalf("Expected MoveCmd, got nil")
	}

	if cmd.Move.Name() != "Will-O-Wisp" {
		t.Errorf("Expected Will-O-Wisp, got %q", cmd.Move.Name())
	}

	if cmd.Move.Target == nil || cmd.Move.Target.Name != "snorlax" {
		t.Fatalf("Expected target snorlax, got %+v", cmd.Move.Target)
	}

	if _, ok := cmd.Move.Slot(); ok {
		t.Errorf("Expected a named move, not a slot")
	}
}

func TestParseMoveBySlot(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "move :by pikachu 2")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	slot, ok := cmd.Move.Slot()
	if !ok || slot != 1 {
		t.Errorf("Expected slot index 1, got %d (%v)", slot, ok)
	}
}

func TestParseSwitchAndReplace(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "switch :by blastoise :to 3")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if cmd.Switch == nil {
		t.Fatalf("Expected SwitchCmd, got nil")
	}
	if idx, ok := cmd.Switch.Slot.Index(); !ok || idx != 2 {
		t.Errorf("Expected slot index 2, got %d (%v)", idx, ok)
	}

	cmd, err = p.ParseString("", "replace :by p2 :to gengar")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if cmd.Replace == nil {
		t.Fatalf("Expected ReplaceCmd, got nil")
	}
	if cmd.Replace.Actor.Name != "p2" || cmd.Replace.Slot.Value != "gengar" {
		t.Errorf("Unexpected replace %+v %+v", cmd.Replace.Actor, cmd.Replace.Slot)
	}
	if _, ok := cmd.Replace.Slot.Index(); ok {
		t.Errorf("Expected a named slot")
	}
}

func TestParseItem(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "item :by snorlax Super Potion :on gengar")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if cmd.Item == nil {
		t.Fatalf("Expected ItemCmd, got nil")
	}
	if cmd.Item.Name() != "Super Potion" {
		t.Errorf("Expected Super Potion, got %q", cmd.Item.Name())
	}
	if cmd.Item.Target == nil || cmd.Item.Target.Name != "gengar" {
		t.Errorf("Expected target gengar, got %+v", cmd.Item.Target)
	}
}

func TestParseSimpleCommands(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "flee :by pikachu")
	if err != nil || cmd.Flee == nil || cmd.Flee.Actor.Name != "pikachu" {
		t.Errorf("Expected flee by pikachu, got %+v (%v)", cmd, err)
	}

	cmd, err = p.ParseString("", "turn")
	if err != nil || cmd.Turn == nil {
		t.Errorf("Expected TurnCmd, got %+v (%v)", cmd, err)
	}

	cmd, err = p.ParseString("", "status")
	if err != nil || cmd.Status == nil {
		t.Errorf("Expected StatusCmd, got %+v (%v)", cmd, err)
	}

	cmd, err = p.ParseString("", "help move")
	if err != nil || cmd.Help == nil || cmd.Help.Command != "move" {
		t.Errorf("Expected help for move, got %+v (%v)", cmd, err)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := parser.Parse("move charizard flamethrower")
	if err == nil {
		t.Fatalf("Expected an error for a missing actor")
	}
	if err.Error() != "The command move must be: "+parser.Usage["move"] {
		t.Errorf("Unexpected guidance: %v", err)
	}

	_, err = parser.Parse("dance :by pikachu")
	if err == nil || err.Error() != "I wasn't able to understand your command" {
		t.Errorf("Unexpected error: %v", err)
	}

	_, err = parser.Parse("   ")
	if err == nil {
		t.Errorf("Expected an error for empty input")
	}
}
