package parser

import (
	"fmt"
	"strings"
)

// Usage lists the syntax of every command, keyed by its keyword.
var Usage = map[string]string{
	"move":    "move :by Actor <move name|slot> [:to Target]",
	"switch":  "switch :by Actor :to <slot|Combatant>",
	"item":    "item :by Actor <item name> [:on Target]",
	"flee":    "flee :by Actor",
	"replace": "replace :by <Side|Fainted> :to <slot|Combatant>",
	"turn":    "turn",
	"status":  "status",
	"help":    "help [command]",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	parts := strings.Fields(strings.ToLower(input))
	if usage, ok := Usage[parts[0]]; ok {
		return fmt.Errorf("The command %s must be: %s", parts[0], usage)
	}

	return fmt.Errorf("I wasn't able to understand your command")
}
