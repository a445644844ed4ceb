package session

import (
	"strings"
)

// argument markers that take a combatant name, checked right to left
var nameMarkers = []string{" :to ", " :on ", " :by "}

// Complete suggests full command lines for a partially typed one.
// It completes command keywords, combatant names after :by, :to and :on,
// and move names after "move :by <actor>".
func (s *Session) Complete(input string) []string {
	if input == "" {
		return nil
	}
	lower := strings.ToLower(input)

	if !strings.Contains(lower, " ") {
		var out []string
		for _, kw := range keywords() {
			if strings.HasPrefix(kw, lower) && len(lower) < len(kw) {
				out = append(out, kw+" ")
			}
		}
		return out
	}

	at, marker := -1, ""
	for _, m := range nameMarkers {
		if i := strings.LastIndex(lower, m); i > at {
			at, marker = i, m
		}
	}
	if at < 0 {
		return nil
	}
	rest := input[at+len(marker):]
	if !strings.Contains(rest, " ") {
		return s.completeName(input[:at+len(marker)], rest)
	}
	if marker == " :by " && strings.HasPrefix(lower, "move ") {
		actor, partial, _ := strings.Cut(rest, " ")
		return s.completeMove(input[:len(input)-len(partial)], actor, partial)
	}
	return nil
}

func (s *Session) completeName(base, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, side := range s.battle.State().Sides {
		for _, c := range side.Roster {
			if strings.HasPrefix(c.ID, prefix) && c.ID != prefix {
				out = append(out, base+c.ID+" ")
			}
		}
	}
	return out
}

func (s *Session) completeMove(base, actorName, partial string) []string {
	actor, err := s.combatant(actorName)
	if err != nil {
		return nil
	}
	partial = strings.ToLower(partial)
	var out []string
	for _, slot := range actor.Moves {
		m, ok := s.repo.Move(slot.MoveID)
		if !ok {
			continue
		}
		name := strings.ToLower(m.Name)
		if strings.HasPrefix(name, partial) && name != partial {
			out = append(out, base+m.Name+" ")
		}
	}
	return out
}
