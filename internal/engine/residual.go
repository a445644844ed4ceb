package engine

// VolatileFlinch makes the holder lose its next move this turn. It is cleared at the end of every turn.
const VolatileFlinch = "flinch"

// endOfTurn applies residual damage to every active combatant in side order,
// decays the field and advances the turn counter.
func (b *Battle) endOfTurn() []ResidualResult {
	var out []ResidualResult
	hurt := func(c *Combatant, source string, amount int) {
		if amount <= 0 || c.IsFainted() {
			return
		}
		if b.emit(&DamageDealtEvent{TargetID: c.ID, Amount: amount, Source: source}) != nil {
			return
		}
		r := ResidualResult{CombatantID: c.ID, Source: source, Damage: amount}
		if c.IsFainted() {
			b.emit(&FaintedEvent{ActorID: c.ID})
			r.Fainted = true
		}
		out = append(out, r)
	}

	for _, side := range b.state.Sides {
		c := side.ActiveCombatant()
		if c == nil || c.IsFainted() {
			continue
		}

		switch c.Status {
		case StatusBurn:
			hurt(c, string(StatusBurn), fraction(c.MaxHP, 1, 16))
		case StatusPoison:
			hurt(c, string(StatusPoison), fraction(c.MaxHP, 1, 8))
		case StatusBadlyPoisoned:
			n := max(1, c.ToxicCounter)
			hurt(c, string(StatusBadlyPoisoned), fraction(c.MaxHP, n, 16))
			if !c.IsFainted() {
				b.emit(&CountersChangedEvent{TargetID: c.ID, SleepTurns: c.SleepTurns, ToxicCounter: n + 1})
			}
		}

		if WeatherDamages(b.state.Field.Weather, c.Types) {
			hurt(c, string(b.state.Field.Weather), fraction(c.MaxHP, 1, 16))
		}

		if c.HasVolatile(VolatileFlinch) {
			b.emit(&VolatileChangedEvent{TargetID: c.ID, Volatile: VolatileFlinch, Active: false})
		}
	}

	b.emit(&FieldDecayedEvent{})
	b.emit(&TurnEndedEvent{Turn: b.state.Turn + 1})
	return out
}
