package engine

import (
	"fmt"
	"math"
)

// execute runs one action. Errors never escape: they mark the result as failed
// and only this action's remaining effects are skipped.
func (b *Battle) execute(a Action) ActionResult {
	res := ActionResult{Seq: b.seq, ActorID: a.ActorID, Kind: a.Kind}
	var err error
	switch a.Kind {
	case ActionMove:
		err = b.executeMove(a, &res)
	case ActionSwitch:
		err = b.executeSwitch(a, &res)
	case ActionItem:
		err = b.executeItem(a, &res)
	case ActionFlee:
		err = b.executeFlee(a, &res)
	default:
		err = NewError(CodeValidation, fmt.Sprintf("unknown action kind %q", a.Kind))
	}
	if err != nil {
		res.Failed = true
		res.Error = err.Error()
	}
	return res
}

// note emits an informational event and mirrors it into the result.
func (b *Battle) note(res *ActionResult, actorID, text string) {
	b.emit(&NoticeEvent{ActorID: actorID, Text: text})
	res.Messages = append(res.Messages, text)
}

func (b *Battle) executeMove(a Action, res *ActionResult) error {
	actor := b.state.Combatant(a.ActorID)
	if a.MoveSlot < 0 || a.MoveSlot >= len(actor.Moves) {
		return NewError(CodeValidation, fmt.Sprintf("%s has no move slot %d", actor.ID, a.MoveSlot))
	}
	slot := actor.Moves[a.MoveSlot]
	move, ok := b.repo.Move(slot.MoveID)
	if !ok {
		return missingData("move %d not found", slot.MoveID)
	}
	if move.Category != CategoryStatus && move.Fixed == nil && move.Power <= 0 {
		return missingData("move %d has no base power", move.ID)
	}
	res.MoveID = move.ID
	res.MoveName = move.Name

	if reason := b.canAct(actor, res); reason != "" {
		res.Prevented = reason
		return nil
	}
	if slot.PP <= 0 {
		b.note(res, actor.ID, fmt.Sprintf("%s has no PP left for %s.", actor.Name, move.Name))
		res.Prevented = "no_pp"
		return nil
	}
	if err := b.emit(&MoveUsedEvent{ActorID: actor.ID, Slot: a.MoveSlot, MoveID: move.ID, MoveName: move.Name}); err != nil {
		return err
	}

	targets := b.resolveTargets(actor, move, a.TargetID)
	if len(targets) == 0 {
		b.note(res, actor.ID, "But there was no target...")
		return nil
	}

	if move.Category == CategoryStatus && move.Power <= 0 && move.Fixed == nil {
		return b.useStatusMove(actor, move, targets, res)
	}

	spread := len(targets) > 1
	for _, target := range targets {
		out := TargetOutcome{TargetID: target.ID, Effectiveness: 1}
		if !b.hits(actor, target, move) {
			out.Missed = true
			res.Targets = append(res.Targets, out)
			b.note(res, actor.ID, fmt.Sprintf("%s's attack missed %s!", actor.Name, target.Name))
			continue
		}

		var dmg *DamageResult
		var err error
		if spread {
			dmg, err = b.damage.CalculateSpread(actor, target, move, &b.state.Field, b.rng)
		} else {
			dmg, err = b.damage.Calculate(actor, target, move, &b.state.Field, b.rng)
		}
		if err != nil {
			return err
		}
		out.Effectiveness = dmg.Effectiveness
		out.Critical = dmg.Critical
		out.Immune = dmg.Immune
		out.Damage = dmg.Damage
		out.Percent = dmg.Percent
		bd := dmg.Breakdown
		out.Breakdown = &bd

		if dmg.Immune {
			res.Targets = append(res.Targets, out)
			b.note(res, actor.ID, fmt.Sprintf("It doesn't affect %s...", target.Name))
			continue
		}

		if err := b.emit(&DamageDealtEvent{
			TargetID: target.ID,
			Amount:   dmg.Damage,
			Source:   "move",
			Critical: dmg.Critical,
			Factor:   dmg.Effectiveness,
		}); err != nil {
			return err
		}
		if target.IsFainted() {
			out.Fainted = true
			b.emit(&FaintedEvent{ActorID: target.ID})
		}

		for _, eff := range move.Effects {
			b.applyEffect(actor, target, move, eff, res, &out)
		}
		for _, eff := range move.Secondary {
			if eff.Chance > 0 && !b.rng.Chance(float64(eff.Chance)/100) {
				continue
			}
			b.applyEffect(actor, target, move, eff, res, &out)
		}
		res.Targets = append(res.Targets, out)
	}
	return nil
}

// canAct resolves sleep, freeze, paralysis and flinch before a move. A non-empty reason means the turn is lost.
func (b *Battle) canAct(actor *Combatant, res *ActionResult) string {
	switch actor.Status {
	case StatusSleep:
		if actor.SleepTurns <= 1 {
			b.emit(&StatusChangedEvent{TargetID: actor.ID, Status: StatusNone})
			b.note(res, actor.ID, actor.Name+" woke up!")
			break
		}
		b.emit(&CountersChangedEvent{TargetID: actor.ID, SleepTurns: actor.SleepTurns - 1, ToxicCounter: actor.ToxicCounter})
		b.note(res, actor.ID, actor.Name+" is fast asleep.")
		return "asleep"
	case StatusFreeze:
		if b.rng.Chance(b.cfg.ThawChance) {
			b.emit(&StatusChangedEvent{TargetID: actor.ID, Status: StatusNone})
			b.note(res, actor.ID, actor.Name+" thawed out!")
			break
		}
		b.note(res, actor.ID, actor.Name+" is frozen solid!")
		return "frozen"
	case StatusParalysis:
		if b.rng.Chance(b.cfg.FullParalysisChance) {
			b.note(res, actor.ID, actor.Name+" is paralyzed! It can't move!")
			return "paralyzed"
		}
	}
	if actor.HasVolatile(VolatileFlinch) {
		b.note(res, actor.ID, actor.Name+" flinched!")
		return "flinched"
	}
	return ""
}

// resolveTargets picks the combatants a move lands on.
// A single-target move whose chosen target is gone falls back to the first available opponent.
func (b *Battle) resolveTargets(actor *Combatant, move *Move, chosen string) []*Combatant {
	switch move.TargetShape() {
	case TargetUser:
		return []*Combatant{actor}
	case TargetAllOpponents:
		return b.state.Opponents(actor.SideID)
	}
	opponents := b.state.Opponents(actor.SideID)
	for _, o := range opponents {
		if o.ID == chosen {
			return []*Combatant{o}
		}
	}
	if len(opponents) == 0 {
		return nil
	}
	return opponents[:1]
}

// hits rolls accuracy. Self-targeted moves and moves without accuracy never miss.
func (b *Battle) hits(actor, target *Combatant, move *Move) bool {
	if move.Accuracy <= 0 || target.ID == actor.ID {
		return true
	}
	p := float64(move.Accuracy) / 100 * AccuracyStageMultiplier(actor.Stage(StatAccuracy)-target.Stage(StatEvasion))
	if p >= 1 {
		return true
	}
	return b.rng.Chance(p)
}

func (b *Battle) useStatusMove(actor *Combatant, move *Move, targets []*Combatant, res *ActionResult) error {
	for _, target := range targets {
		out := TargetOutcome{TargetID: target.ID, Effectiveness: 1}
		if target.ID != actor.ID {
			if !b.hits(actor, target, move) {
				out.Missed = true
				res.Targets = append(res.Targets, out)
				b.note(res, actor.ID, fmt.Sprintf("%s's move missed %s!", actor.Name, target.Name))
				continue
			}
			if move.Type != TypeNormal && b.chart.IsImmune(move.Type, target.Types) && hasTargetStatus(move) {
				out.Immune = true
				out.Effectiveness = 0
				res.Targets = append(res.Targets, out)
				b.note(res, actor.ID, fmt.Sprintf("It doesn't affect %s...", target.Name))
				continue
			}
		}
		for _, eff := range move.Effects {
			b.applyEffect(actor, target, move, eff, res, &out)
		}
		res.Targets = append(res.Targets, out)
	}
	return nil
}

// hasTargetStatus reports whether the move tries to inflict a major status on its target.
func hasTargetStatus(move *Move) bool {
	for _, e := range move.Effects {
		if e.Kind == EffectStatus && !e.Self {
			return true
		}
	}
	return false
}

// applyEffect resolves one move effect. Impossible effects become notices instead of invariant breaches.
func (b *Battle) applyEffect(actor, target *Combatant, move *Move, eff Effect, res *ActionResult, out *TargetOutcome) {
	recipient := target
	if eff.Self {
		recipient = actor
	}

	switch eff.Kind {
	case EffectStatus:
		if recipient.IsFainted() {
			return
		}
		if recipient.Status != StatusNone {
			if move.Category == CategoryStatus {
				b.note(res, actor.ID, fmt.Sprintf("%s is already %s.", recipient.Name, recipient.Status))
			}
			return
		}
		if ImmuneToStatus(eff.Status, recipient.Types) {
			if move.Category == CategoryStatus {
				b.note(res, actor.ID, fmt.Sprintf("%s cannot be %s.", recipient.Name, eff.Status))
			}
			return
		}
		sleep := 0
		if eff.Status == StatusSleep {
			sleep = b.rng.Range(b.cfg.SleepMin, b.cfg.SleepMax)
		}
		if b.emit(&StatusChangedEvent{TargetID: recipient.ID, Status: eff.Status, SleepTurns: sleep}) == nil && recipient == target {
			out.StatusApplied = eff.Status
		}

	case EffectStatChange:
		if recipient.IsFainted() || eff.Stages == 0 {
			return
		}
		cur := recipient.Stage(eff.Stat)
		delta := ClampStage(cur+eff.Stages) - cur
		if delta == 0 {
			dir := "higher"
			if eff.Stages < 0 {
				dir = "lower"
			}
			b.note(res, actor.ID, fmt.Sprintf("%s's %s won't go any %s!", recipient.Name, eff.Stat, dir))
			return
		}
		b.emit(&StatStageChangedEvent{TargetID: recipient.ID, Stat: eff.Stat, Delta: delta})

	case EffectWeather:
		if b.state.Field.Weather == eff.Weather {
			b.note(res, actor.ID, "But it failed!")
			return
		}
		turns := eff.Turns
		if turns <= 0 {
			turns = b.cfg.WeatherTurns
		}
		b.emit(&WeatherChangedEvent{Weather: eff.Weather, Turns: turns})

	case EffectField:
		sideID := actor.SideID
		if eff.Field == FieldSpikes {
			sideID = target.SideID
		}
		if b.hasOwnEffect(eff.Field, sideID) {
			b.note(res, actor.ID, "But it failed!")
			return
		}
		turns := eff.Turns
		if turns <= 0 {
			turns = b.cfg.FieldTurns
		}
		b.emit(&FieldEffectAddedEvent{Effect: FieldEffect{Kind: eff.Field, SideID: sideID, Turns: turns, Source: actor.ID}})

	case EffectHeal:
		if recipient.IsFainted() {
			return
		}
		amount := min(recipient.MaxHP*eff.Percent/100, recipient.MaxHP-recipient.HP)
		if amount <= 0 {
			b.note(res, actor.ID, recipient.Name+"'s HP is full.")
			return
		}
		if b.emit(&HealedEvent{TargetID: recipient.ID, Amount: amount}) == nil {
			res.Healed += amount
		}

	case EffectVolatile:
		if recipient.IsFainted() || recipient.HasVolatile(eff.Volatile) {
			return
		}
		b.emit(&VolatileChangedEvent{TargetID: recipient.ID, Volatile: eff.Volatile, Active: true})
	}
}

func (b *Battle) hasOwnEffect(kind FieldEffectKind, sideID string) bool {
	for _, fe := range b.state.Field.Effects {
		if fe.Kind == kind && fe.SideID == sideID {
			return true
		}
	}
	return false
}

func (b *Battle) executeSwitch(a Action, res *ActionResult) error {
	actor := b.state.Combatant(a.ActorID)
	side := b.state.Side(actor.SideID)
	if err := b.checkSwitch(side, a.SwitchSlot); err != nil {
		return err
	}
	incoming := side.Roster[a.SwitchSlot]
	if err := b.emit(&SwitchedEvent{SideID: side.ID, From: actor.ID, To: incoming.ID, Slot: a.SwitchSlot}); err != nil {
		return err
	}
	res.Switch = &SwitchRecord{From: actor.ID, To: incoming.ID}
	b.entryHazards(incoming)
	return nil
}

// entryHazards hurts a combatant switching onto spikes. Flying types are spared.
func (b *Battle) entryHazards(c *Combatant) {
	if !b.state.Field.HasEffect(FieldSpikes, c.SideID) || c.HasType(TypeFlying) {
		return
	}
	amount := fraction(c.MaxHP, 1, 8)
	if amount <= 0 {
		return
	}
	b.emit(&DamageDealtEvent{TargetID: c.ID, Amount: amount, Source: string(FieldSpikes)})
	if c.IsFainted() {
		b.emit(&FaintedEvent{ActorID: c.ID})
	}
}

func (b *Battle) executeItem(a Action, res *ActionResult) error {
	actor := b.state.Combatant(a.ActorID)
	item, ok := b.repo.Item(a.ItemID)
	if !ok {
		return missingData("item %d not found", a.ItemID)
	}
	target := actor
	if a.TargetID != "" {
		target = b.state.Combatant(a.TargetID)
		if target == nil || target.SideID != actor.SideID {
			return NewError(CodeValidation, "items can only be used on your own side")
		}
	}
	if target.IsFainted() {
		b.note(res, actor.ID, "But it had no effect.")
		return nil
	}
	res.ItemID = item.ID
	if err := b.emit(&ItemUsedEvent{ActorID: actor.ID, TargetID: target.ID, ItemID: item.ID, ItemName: item.Name}); err != nil {
		return err
	}
	if item.Heal > 0 {
		amount := min(item.Heal, target.MaxHP-target.HP)
		if amount > 0 && b.emit(&HealedEvent{TargetID: target.ID, Amount: amount}) == nil {
			res.Healed = amount
		}
	}
	if item.Cures && target.Status != StatusNone {
		if b.emit(&StatusChangedEvent{TargetID: target.ID, Status: StatusNone}) == nil {
			res.Cured = true
		}
	}
	if res.Healed == 0 && !res.Cured {
		b.note(res, actor.ID, "But it had no effect.")
	}
	return nil
}

func (b *Battle) executeFlee(a Action, res *ActionResult) error {
	actor := b.state.Combatant(a.ActorID)
	b.note(res, actor.ID, actor.Name+" fled from the battle!")
	res.Fled = true
	b.finish("", "flee")
	return nil
}

// fraction is floor(maxHP * num / den).
func fraction(maxHP, num, den int) int {
	return int(math.Floor(float64(maxHP) * float64(num) / float64(den)))
}
