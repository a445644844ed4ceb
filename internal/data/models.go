package data

import (
	"strings"

	"github.com/suderio/arena/internal/engine"
	"github.com/suderio/arena/internal/rules"
)

// Ability names an ability id. Its battle effect lives in the modifier registry.
type Ability struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MovesFile is the layout of moves.yaml.
type MovesFile struct {
	Moves []engine.Move `yaml:"moves"`
}

// SpeciesFile is the layout of species.yaml.
type SpeciesFile struct {
	Species []engine.Species `yaml:"species"`
}

// ItemsFile is the layout of items.yaml.
type ItemsFile struct {
	Items []engine.Item `yaml:"items"`
}

// AbilitiesFile is the layout of abilities.yaml.
type AbilitiesFile struct {
	Abilities []Ability `yaml:"abilities"`
}

// ModifiersFile is the layout of modifiers.yaml.
type ModifiersFile struct {
	Modifiers []rules.ModifierDef `yaml:"modifiers"`
}

// Member is one roster entry of a team. Species, moves, item and ability are referenced by name.
type Member struct {
	ID      string   `yaml:"id"`
	Species string   `yaml:"species"`
	Level   int      `yaml:"level"`
	Item    string   `yaml:"item"`
	Ability string   `yaml:"ability"`
	Moves   []string `yaml:"moves"`
}

// Team is a named roster loaded from teams/<name>.yaml.
type Team struct {
	Index   string   `yaml:"index"`
	Name    string   `yaml:"name"`
	Members []Member `yaml:"members"`
}

// Normalize turns a display name into a lookup key ("Swords Dance" becomes "swords-dance").
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(name)
}
