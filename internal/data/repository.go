package data

import (
	"fmt"

	"github.com/suderio/arena/internal/engine"
	"github.com/suderio/arena/internal/rules"
)

// Repository is the loaded reference data, indexed by id and by normalized name.
type Repository struct {
	moves     map[int]*engine.Move
	species   map[int]*engine.Species
	items     map[int]*engine.Item
	abilities map[int]*Ability
	modifiers []rules.ModifierDef

	moveNames    map[string]int
	speciesNames map[string]int
	itemNames    map[string]int
	abilityNames map[string]int
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		moves:        make(map[int]*engine.Move),
		species:      make(map[int]*engine.Species),
		items:        make(map[int]*engine.Item),
		abilities:    make(map[int]*Ability),
		moveNames:    make(map[string]int),
		speciesNames: make(map[string]int),
		itemNames:    make(map[string]int),
		abilityNames: make(map[string]int),
	}
}

// Load reads every reference file through the loader and indexes it.
func Load(l *Loader) (*Repository, error) {
	r := NewRepository()

	moves, err := l.LoadMoves()
	if err != nil {
		return nil, err
	}
	for i := range moves.Moves {
		if err := r.AddMove(&moves.Moves[i]); err != nil {
			return nil, err
		}
	}

	species, err := l.LoadSpecies()
	if err != nil {
		return nil, err
	}
	for i := range species.Species {
		if err := r.AddSpecies(&species.Species[i]); err != nil {
			return nil, err
		}
	}

	items, err := l.LoadItems()
	if err != nil {
		return nil, err
	}
	for i := range items.Items {
		if err := r.AddItem(&items.Items[i]); err != nil {
			return nil, err
		}
	}

	abilities, err := l.LoadAbilities()
	if err != nil {
		return nil, err
	}
	for i := range abilities.Abilities {
		if err := r.AddAbility(&abilities.Abilities[i]); err != nil {
			return nil, err
		}
	}

	mods, err := l.LoadModifiers()
	if err != nil {
		return nil, err
	}
	r.modifiers = mods.Modifiers
	return r, nil
}

// AddMove validates and indexes a move.
func (r *Repository) AddMove(m *engine.Move) error {
	if m.ID <= 0 || m.Name == "" {
		return fmt.Errorf("move needs an id and a name: %+v", m)
	}
	if _, dup := r.moves[m.ID]; dup {
		return fmt.Errorf("duplicate move id %d", m.ID)
	}
	switch m.Category {
	case engine.CategoryPhysical, engine.CategorySpecial:
		if m.Power <= 0 && m.Fixed == nil {
			return fmt.Errorf("move %s deals damage but has no power", m.Name)
		}
	case engine.CategoryStatus:
	default:
		return fmt.Errorf("move %s has unknown category %q", m.Name, m.Category)
	}
	if !knownType(m.Type) {
		return fmt.Errorf("move %s has unknown type %q", m.Name, m.Type)
	}
	if m.PP <= 0 {
		return fmt.Errorf("move %s needs positive PP", m.Name)
	}
	r.moves[m.ID] = m
	r.moveNames[Normalize(m.Name)] = m.ID
	return nil
}

// AddSpecies validates and indexes a species.
func (r *Repository) AddSpecies(s *engine.Species) error {
	if s.ID <= 0 || s.Name == "" {
		return fmt.Errorf("species needs an id and a name: %+v", s)
	}
	if _, dup := r.species[s.ID]; dup {
		return fmt.Errorf("duplicate species id %d", s.ID)
	}
	if len(s.Types) == 0 || len(s.Types) > 2 {
		return fmt.Errorf("species %s must have one or two types", s.Name)
	}
	for _, t := range s.Types {
		if !knownType(t) {
			return fmt.Errorf("species %s has unknown type %q", s.Name, t)
		}
	}
	r.species[s.ID] = s
	r.speciesNames[Normalize(s.Name)] = s.ID
	return nil
}

// AddItem validates and indexes an item.
func (r *Repository) AddItem(i *engine.Item) error {
	if i.ID <= 0 || i.Name == "" {
		return fmt.Errorf("item needs an id and a name: %+v", i)
	}
	if _, dup := r.items[i.ID]; dup {
		return fmt.Errorf("duplicate item id %d", i.ID)
	}
	r.items[i.ID] = i
	r.itemNames[Normalize(i.Name)] = i.ID
	return nil
}

// AddAbility indexes an ability name.
func (r *Repository) AddAbility(a *Ability) error {
	if a.ID <= 0 || a.Name == "" {
		return fmt.Errorf("ability needs an id and a name: %+v", a)
	}
	if _, dup := r.abilities[a.ID]; dup {
		return fmt.Errorf("duplicate ability id %d", a.ID)
	}
	r.abilities[a.ID] = a
	r.abilityNames[Normalize(a.Name)] = a.ID
	return nil
}

func knownType(t engine.Type) bool {
	for _, k := range engine.AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Move implements engine.Repository.
func (r *Repository) Move(id int) (*engine.Move, bool) {
	m, ok := r.moves[id]
	return m, ok
}

// Species implements engine.Repository.
func (r *Repository) Species(id int) (*engine.Species, bool) {
	s, ok := r.species[id]
	return s, ok
}

// Item implements engine.Repository.
func (r *Repository) Item(id int) (*engine.Item, bool) {
	i, ok := r.items[id]
	return i, ok
}

// MoveByName finds a move by display name or key.
func (r *Repository) MoveByName(name string) (*engine.Move, bool) {
	id, ok := r.moveNames[Normalize(name)]
	if !ok {
		return nil, false
	}
	return r.Move(id)
}

// SpeciesByName finds a species by display name or key.
func (r *Repository) SpeciesByName(name string) (*engine.Species, bool) {
	id, ok := r.speciesNames[Normalize(name)]
	if !ok {
		return nil, false
	}
	return r.Species(id)
}

// ItemByName finds an item by display name or key.
func (r *Repository) ItemByName(name string) (*engine.Item, bool) {
	id, ok := r.itemNames[Normalize(name)]
	if !ok {
		return nil, false
	}
	return r.Item(id)
}

// AbilityByName finds an ability by display name or key.
func (r *Repository) AbilityByName(name string) (*Ability, bool) {
	id, ok := r.abilityNames[Normalize(name)]
	if !ok {
		return nil, false
	}
	a, ok := r.abilities[id]
	return a, ok
}

// Counts reports how many moves, species and items are loaded.
func (r *Repository) Counts() (moves, species, items int) {
	return len(r.moves), len(r.species), len(r.items)
}

// Modifiers builds the battle modifier registry: the built-in hooks plus every data-driven definition.
func (r *Repository) Modifiers() (*engine.ModifierRegistry, error) {
	reg := engine.DefaultModifiers()
	if len(r.modifiers) == 0 {
		return reg, nil
	}
	cel, err := rules.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := cel.Install(reg, r.modifiers); err != nil {
		return nil, err
	}
	return reg, nil
}

// BuildSide turns a team into a battle side. Every combatant id must be unique in the battle.
func (r *Repository) BuildSide(sideID string, t *Team) (*engine.Side, error) {
	if len(t.Members) == 0 {
		return nil, fmt.Errorf("team %s has no members", t.Name)
	}
	roster := make([]*engine.Combatant, 0, len(t.Members))
	for i, m := range t.Members {
		c, err := r.BuildCombatant(m)
		if err != nil {
			return nil, fmt.Errorf("team %s member %d: %w", t.Name, i+1, err)
		}
		roster = append(roster, c)
	}
	name := t.Name
	if name == "" {
		name = sideID
	}
	return engine.NewSide(sideID, name, roster...), nil
}

// BuildCombatant resolves a member's names and derives its battle stats.
func (r *Repository) BuildCombatant(m Member) (*engine.Combatant, error) {
	species, ok := r.SpeciesByName(m.Species)
	if !ok {
		return nil, fmt.Errorf("unknown species %q", m.Species)
	}
	moveIDs := make([]int, 0, len(m.Moves))
	for _, name := range m.Moves {
		mv, ok := r.MoveByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown move %q", name)
		}
		moveIDs = append(moveIDs, mv.ID)
	}
	id := m.ID
	if id == "" {
		id = Normalize(species.Name)
	}
	level := m.Level
	if level == 0 {
		level = 50
	}
	c, err := engine.NewCombatant(id, species, level, r, moveIDs...)
	if err != nil {
		return nil, err
	}
	if m.Item != "" {
		item, ok := r.ItemByName(m.Item)
		if !ok {
			return nil, fmt.Errorf("unknown item %q", m.Item)
		}
		c.ItemID = item.ID
	}
	if m.Ability != "" {
		a, ok := r.AbilityByName(m.Ability)
		if !ok {
			return nil, fmt.Errorf("unknown ability %q", m.Ability)
		}
		c.AbilityID = a.ID
	}
	return c, nil
}
