package engine

// Type is an elemental type shared by creatures and moves.
type Type string

const (
	TypeNormal   Type = "normal"
	TypeFire     Type = "fire"
	TypeWater    Type = "water"
	TypeElectric Type = "electric"
	TypeGrass    Type = "grass"
	TypeIce      Type = "ice"
	TypeFighting Type = "fighting"
	TypePoison   Type = "poison"
	TypeGround   Type = "ground"
	TypeFlying   Type = "flying"
	TypePsychic  Type = "psychic"
	TypeBug      Type = "bug"
	TypeRock     Type = "rock"
	TypeGhost    Type = "ghost"
	TypeDragon   Type = "dragon"
	TypeDark     Type = "dark"
	TypeSteel    Type = "steel"
	TypeFairy    Type = "fairy"
)

// AllTypes lists the chart types in table order.
var AllTypes = []Type{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

// Category decides which attacking and defending stats a move uses.
type Category string

const (
	CategoryPhysical Category = "physical"
	CategorySpecial  Category = "special"
	CategoryStatus   Category = "status"
)

// Stat names a stageable stat.
type Stat string

const (
	StatAttack    Stat = "attack"
	StatDefense   Stat = "defense"
	StatSpAttack  Stat = "sp_attack"
	StatSpDefense Stat = "sp_defense"
	StatSpeed     Stat = "speed"
	StatAccuracy  Stat = "accuracy"
	StatEvasion   Stat = "evasion"
)

// Status is a major ailment. A combatant carries at most one.
type Status string

const (
	StatusNone          Status = ""
	StatusBurn          Status = "burn"
	StatusPoison        Status = "poison"
	StatusBadlyPoisoned Status = "badly_poisoned"
	StatusParalysis     Status = "paralysis"
	StatusSleep         Status = "sleep"
	StatusFreeze        Status = "freeze"
)

// Weather is the battle-wide weather condition.
type Weather string

const (
	WeatherNone      Weather = ""
	WeatherSun       Weather = "sun"
	WeatherRain      Weather = "rain"
	WeatherSandstorm Weather = "sandstorm"
	WeatherHail      Weather = "hail"
	WeatherFog       Weather = "fog"
)

// FieldEffectKind names a duration-limited battlefield modifier.
type FieldEffectKind string

const (
	FieldReflect     FieldEffectKind = "reflect"
	FieldLightScreen FieldEffectKind = "light_screen"
	FieldSpikes      FieldEffectKind = "spikes"
	FieldTailwind    FieldEffectKind = "tailwind"
)

// MoveTarget is the shape of targets a move affects.
type MoveTarget string

const (
	TargetSingleOpponent MoveTarget = "single_opponent"
	TargetAllOpponents   MoveTarget = "all_opponents"
	TargetUser           MoveTarget = "user"
)

// Stats holds the six base or derived stats.
type Stats struct {
	HP        int `yaml:"hp" json:"hp"`
	Attack    int `yaml:"attack" json:"attack"`
	Defense   int `yaml:"defense" json:"defense"`
	SpAttack  int `yaml:"sp_attack" json:"sp_attack"`
	SpDefense int `yaml:"sp_defense" json:"sp_defense"`
	Speed     int `yaml:"speed" json:"speed"`
}

// Get returns the value of a stageable stat. Accuracy and evasion have no base value.
func (s Stats) Get(stat Stat) int {
	switch stat {
	case StatAttack:
		return s.Attack
	case StatDefense:
		return s.Defense
	case StatSpAttack:
		return s.SpAttack
	case StatSpDefense:
		return s.SpDefense
	case StatSpeed:
		return s.Speed
	}
	return 0
}

// Species is static reference data for a kind of creature.
type Species struct {
	ID        int    `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Types     []Type `yaml:"types" json:"types"`
	BaseStats Stats  `yaml:"base_stats" json:"base_stats"`
}

// FixedDamage describes a move whose damage ignores the formula.
type FixedDamage struct {
	Kind   string `yaml:"kind" json:"kind"` // "level" or "constant"
	Amount int    `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// EffectKind tags the variant carried by an Effect.
type EffectKind string

const (
	EffectStatus     EffectKind = "status"
	EffectStatChange EffectKind = "stat_change"
	EffectWeather    EffectKind = "weather"
	EffectField      EffectKind = "field"
	EffectHeal       EffectKind = "heal"
	EffectVolatile   EffectKind = "volatile"
)

// Effect is one thing a move does besides damage.
// Only the fields relevant to Kind are read.
type Effect struct {
	Kind     EffectKind      `yaml:"kind" json:"kind"`
	Self     bool            `yaml:"self,omitempty" json:"self,omitempty"`
	Chance   int             `yaml:"chance,omitempty" json:"chance,omitempty"` // percent; 0 means always
	Status   Status          `yaml:"status,omitempty" json:"status,omitempty"`
	Stat     Stat            `yaml:"stat,omitempty" json:"stat,omitempty"`
	Stages   int             `yaml:"stages,omitempty" json:"stages,omitempty"`
	Weather  Weather         `yaml:"weather,omitempty" json:"weather,omitempty"`
	Field    FieldEffectKind `yaml:"field,omitempty" json:"field,omitempty"`
	Turns    int             `yaml:"turns,omitempty" json:"turns,omitempty"`
	Percent  int             `yaml:"percent,omitempty" json:"percent,omitempty"` // heal, share of max HP
	Volatile string          `yaml:"volatile,omitempty" json:"volatile,omitempty"`
}

// Move is immutable reference data read from the repository.
type Move struct {
	ID        int          `yaml:"id" json:"id"`
	Name      string       `yaml:"name" json:"name"`
	Type      Type         `yaml:"type" json:"type"`
	Category  Category     `yaml:"category" json:"category"`
	Power     int          `yaml:"power,omitempty" json:"power,omitempty"`
	Accuracy  int          `yaml:"accuracy,omitempty" json:"accuracy,omitempty"`
	PP        int          `yaml:"pp" json:"pp"`
	Priority  int          `yaml:"priority,omitempty" json:"priority,omitempty"`
	Target    MoveTarget   `yaml:"target,omitempty" json:"target,omitempty"`
	CritStage int          `yaml:"crit_stage,omitempty" json:"crit_stage,omitempty"`
	Fixed     *FixedDamage `yaml:"fixed,omitempty" json:"fixed,omitempty"`
	Effects   []Effect     `yaml:"effects,omitempty" json:"effects,omitempty"`
	Secondary []Effect     `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// TargetShape defaults an empty target to a single opponent.
func (m *Move) TargetShape() MoveTarget {
	if m.Target == "" {
		return TargetSingleOpponent
	}
	return m.Target
}

// Item is a usable or holdable item.
type Item struct {
	ID    int    `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Heal  int    `yaml:"heal,omitempty" json:"heal,omitempty"`
	Cures bool   `yaml:"cures,omitempty" json:"cures,omitempty"`
}

// Repository is the read-only static data source injected into the engine.
type Repository interface {
	Move(id int) (*Move, bool)
	Species(id int) (*Species, bool)
	Item(id int) (*Item, bool)
}

// MemoryRepository is a map-backed Repository, mostly for tests and embedding.
type MemoryRepository struct {
	Moves map[int]*Move
	Kinds map[int]*Species
	Items map[int]*Item
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		Moves: make(map[int]*Move),
		Kinds: make(map[int]*Species),
		Items: make(map[int]*Item),
	}
}

func (r *MemoryRepository) Move(id int) (*Move, bool) {
	m, ok := r.Moves[id]
	return m, ok
}

func (r *MemoryRepository) Species(id int) (*Species, bool) {
	s, ok := r.Kinds[id]
	return s, ok
}

func (r *MemoryRepository) Item(id int) (*Item, bool) {
	i, ok := r.Items[id]
	return i, ok
}

// AddMove registers a move and returns the repository for chaining.
func (r *MemoryRepository) AddMove(m *Move) *MemoryRepository {
	r.Moves[m.ID] = m
	return r
}

// AddSpecies registers a species.
func (r *MemoryRepository) AddSpecies(s *Species) *MemoryRepository {
	r.Kinds[s.ID] = s
	return r
}

// AddItem registers an item.
func (r *MemoryRepository) AddItem(i *Item) *MemoryRepository {
	r.Items[i.ID] = i
	return r
}
