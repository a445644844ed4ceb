package engine

// typeCount is the number of chart types.
const typeCount = 18

// chartExceptions lists every attack/defend pair whose multiplier differs from 1.
var chartExceptions = map[Type]map[Type]float64{
	TypeNormal: {TypeRock: 0.5, TypeGhost: 0, TypeSteel: 0.5},
	TypeFire: {
		TypeFire: 0.5, TypeWater: 0.5, TypeGrass: 2, TypeIce: 2,
		TypeBug: 2, TypeRock: 0.5, TypeDragon: 0.5, TypeSteel: 2,
	},
	TypeWater: {
		TypeFire: 2, TypeWater: 0.5, TypeGrass: 0.5, TypeGround: 2,
		TypeRock: 2, TypeDragon: 0.5,
	},
	TypeElectric: {
		TypeWater: 2, TypeElectric: 0.5, TypeGrass: 0.5, TypeGround: 0,
		TypeFlying: 2, TypeDragon: 0.5,
	},
	TypeGrass: {
		TypeFire: 0.5, TypeWater: 2, TypeGrass: 0.5, TypePoison: 0.5,
		TypeGround: 2, TypeFlying: 0.5, TypeBug: 0.5, TypeRock: 2,
		TypeDragon: 0.5, TypeSteel: 0.5,
	},
	TypeIce: {
		TypeFire: 0.5, TypeWater: 0.5, TypeGrass: 2, TypeIce: 0.5,
		TypeGround: 2, TypeFlying: 2, TypeDragon: 2, TypeSteel: 0.5,
	},
	TypeFighting: {
		TypeNormal: 2, TypeIce: 2, TypePoison: 0.5, TypeFlying: 0.5,
		TypePsychic: 0.5, TypeBug: 0.5, TypeRock: 2, TypeGhost: 0,
		TypeDark: 2, TypeSteel: 2, TypeFairy: 0.5,
	},
	TypePoison: {
		TypeGrass: 2, TypePoison: 0.5, TypeGround: 0.5, TypeRock: 0.5,
		TypeGhost: 0.5, TypeSteel: 0, TypeFairy: 2,
	},
	TypeGround: {
		TypeFire: 2, TypeElectric: 2, TypeGrass: 0.5, TypePoison: 2,
		TypeFlying: 0, TypeBug: 0.5, TypeRock: 2, TypeSteel: 2,
	},
	TypeFlying: {
		TypeElectric: 0.5, TypeGrass: 2, TypeFighting: 2, TypeBug: 2,
		TypeRock: 0.5, TypeSteel: 0.5,
	},
	TypePsychic: {TypeFighting: 2, TypePoison: 2, TypePsychic: 0.5, TypeDark: 0, TypeSteel: 0.5},
	TypeBug: {
		TypeFire: 0.5, TypeGrass: 2, TypeFighting: 0.5, TypePoison: 0.5,
		TypeFlying: 0.5, TypePsychic: 2, TypeGhost: 0.5, TypeDark: 2,
		TypeSteel: 0.5, TypeFairy: 0.5,
	},
	TypeRock: {
		TypeFire: 2, TypeIce: 2, TypeFighting: 0.5, TypeGround: 0.5,
		TypeFlying: 2, TypeBug: 2, TypeSteel: 0.5,
	},
	TypeGhost:  {TypeNormal: 0, TypePsychic: 2, TypeGhost: 2, TypeDark: 0.5},
	TypeDragon: {TypeDragon: 2, TypeSteel: 0.5, TypeFairy: 0},
	TypeDark:   {TypeFighting: 0.5, TypePsychic: 2, TypeGhost: 2, TypeDark: 0.5, TypeFairy: 0.5},
	TypeSteel: {
		TypeFire: 0.5, TypeWater: 0.5, TypeElectric: 0.5, TypeIce: 2,
		TypeRock: 2, TypeSteel: 0.5, TypeFairy: 2,
	},
	TypeFairy: {
		TypeFire: 0.5, TypeFighting: 2, TypePoison: 0.5, TypeDragon: 2,
		TypeDark: 2, TypeSteel: 0.5,
	},
}

// TypeChart is the fixed attack-versus-defense multiplier table.
// It is built once and never mutated.
type TypeChart struct {
	index map[Type]int
	table [typeCount][typeCount]float64
}

// NewTypeChart builds the standard 18x18 chart.
func NewTypeChart() *TypeChart {
	tc := &TypeChart{index: make(map[Type]int, typeCount)}
	for i, t := range AllTypes {
		tc.index[t] = i
	}
	for i := range tc.table {
		for j := range tc.table[i] {
			tc.table[i][j] = 1
		}
	}
	for atk, row := range chartExceptions {
		for def, mult := range row {
			tc.table[tc.index[atk]][tc.index[def]] = mult
		}
	}
	return tc
}

// Multiplier returns the single cell for attack against one defending type.
// Types outside the chart are neutral.
func (tc *TypeChart) Multiplier(attack, defend Type) float64 {
	i, ok := tc.index[attack]
	if !ok {
		return 1
	}
	j, ok := tc.index[defend]
	if !ok {
		return 1
	}
	return tc.table[i][j]
}

// Effectiveness multiplies the cells for every defending type (one or two).
func (tc *TypeChart) Effectiveness(attack Type, defender []Type) float64 {
	result := 1.0
	for _, d := range defender {
		result *= tc.Multiplier(attack, d)
	}
	return result
}

// IsImmune reports a 0x result.
func (tc *TypeChart) IsImmune(attack Type, defender []Type) bool {
	return tc.Effectiveness(attack, defender) == 0
}

// Weaknesses lists attack types that deal more than 1x to the defender.
func (tc *TypeChart) Weaknesses(defender []Type) []Type {
	return tc.filter(defender, func(m float64) bool { return m > 1 })
}

// Resistances lists attack types that deal between 0x and 1x.
func (tc *TypeChart) Resistances(defender []Type) []Type {
	return tc.filter(defender, func(m float64) bool { return m > 0 && m < 1 })
}

// Immunities lists attack types that deal 0x.
func (tc *TypeChart) Immunities(defender []Type) []Type {
	return tc.filter(defender, func(m float64) bool { return m == 0 })
}

func (tc *TypeChart) filter(defender []Type, keep func(float64) bool) []Type {
	var out []Type
	for _, atk := range AllTypes {
		if keep(tc.Effectiveness(atk, defender)) {
			out = append(out, atk)
		}
	}
	return out
}

// statusImmunities maps a major status to the types that cannot receive it.
var statusImmunities = map[Status][]Type{
	StatusBurn:          {TypeFire},
	StatusFreeze:        {TypeIce},
	StatusPoison:        {TypePoison, TypeSteel},
	StatusBadlyPoisoned: {TypePoison, TypeSteel},
	StatusParalysis:     {TypeElectric},
}

// ImmuneToStatus reports whether any of the types blocks the status.
func ImmuneToStatus(status Status, types []Type) bool {
	for _, blocked := range statusImmunities[status] {
		for _, t := range types {
			if t == blocked {
				return true
			}
		}
	}
	return false
}

// weatherImmunities maps a damaging weather to the types it spares.
var weatherImmunities = map[Weather][]Type{
	WeatherSandstorm: {TypeRock, TypeGround, TypeSteel},
	WeatherHail:      {TypeIce},
}

// WeatherDamages reports whether the weather chips a combatant with these types at end of turn.
func WeatherDamages(w Weather, types []Type) bool {
	spared, ok := weatherImmunities[w]
	if !ok {
		return false
	}
	for _, s := range spared {
		for _, t := range types {
			if t == s {
				return false
			}
		}
	}
	return true
}
