package session

import (
	"fmt"
	"strings"

	"github.com/suderio/arena/internal/data"
	"github.com/suderio/arena/internal/engine"
)

// FormatState renders the battlefield, one line per side plus the field.
func FormatState(state *engine.BattleState, repo *data.Repository) []string {
	var out []string
	out = append(out, fmt.Sprintf("Turn %d (%s)", state.Turn+1, state.Phase))
	if !state.Active {
		out[0] = fmt.Sprintf("Battle over after %d turns", state.Turn)
		if state.Winner != "" {
			out = append(out, "Winner: "+state.Winner)
		}
	}
	for _, side := range state.Sides {
		out = append(out, FormatSide(side, repo))
	}
	if state.Field.Weather != engine.WeatherNone {
		w := string(state.Field.Weather)
		if state.Field.WeatherTurns > 0 {
			w = fmt.Sprintf("%s (%d turns)", w, state.Field.WeatherTurns)
		}
		out = append(out, "Weather: "+w)
	}
	for _, fe := range state.Field.Effects {
		owner := fe.SideID
		if owner == "" {
			owner = "field"
		}
		out = append(out, fmt.Sprintf("%s on %s (%d turns)", fe.Kind, owner, fe.Turns))
	}
	return out
}

// FormatSide renders a side with its active combatant first.
func FormatSide(side *engine.Side, repo *data.Repository) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s:", side.ID, side.Name)
	for i, c := range side.Roster {
		marker := " "
		if i == side.Active {
			marker = "*"
		}
		fmt.Fprintf(&sb, " %s%s", marker, FormatCombatant(c, repo))
	}
	if side.Pending {
		sb.WriteString(" (needs replacement)")
	}
	return sb.String()
}

// FormatCombatant renders "id HP/Max status [moves]".
func FormatCombatant(c *engine.Combatant, repo *data.Repository) string {
	parts := []string{fmt.Sprintf("%s %d/%d", c.ID, c.HP, c.MaxHP)}
	if c.IsFainted() {
		parts = append(parts, "fainted")
	} else if c.Status != engine.StatusNone {
		parts = append(parts, string(c.Status))
	}
	if repo != nil && len(c.Moves) > 0 {
		moves := make([]string, 0, len(c.Moves))
		for i, slot := range c.Moves {
			name := fmt.Sprint(slot.MoveID)
			if m, ok := repo.Move(slot.MoveID); ok {
				name = m.Name
			}
			moves = append(moves, fmt.Sprintf("%d:%s %d/%d", i+1, name, slot.PP, slot.MaxPP))
		}
		parts = append(parts, "["+strings.Join(moves, ", ")+"]")
	}
	return strings.Join(parts, " ")
}
