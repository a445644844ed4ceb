package engine

// TargetOutcome is what one action did to one target.
type TargetOutcome struct {
	TargetID      string           `json:"target_id"`
	Damage        int              `json:"damage"`
	Percent       float64          `json:"percent"`
	Critical      bool             `json:"critical,omitempty"`
	Effectiveness float64          `json:"effectiveness"`
	Immune        bool             `json:"immune,omitempty"`
	Missed        bool             `json:"missed,omitempty"`
	Fainted       bool             `json:"fainted,omitempty"`
	StatusApplied Status           `json:"status_applied,omitempty"`
	Breakdown     *DamageBreakdown `json:"breakdown,omitempty"`
}

// SwitchRecord names the combatants of a switch.
type SwitchRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ActionResult is the write-once record of one executed action.
// A miss or an immunity is still a successful result; Failed is reserved for runtime errors.
type ActionResult struct {
	Seq       uint64          `json:"seq"`
	ActorID   string          `json:"actor_id"`
	Kind      ActionKind      `json:"kind"`
	MoveID    int             `json:"move_id,omitempty"`
	MoveName  string          `json:"move_name,omitempty"`
	Targets   []TargetOutcome `json:"targets,omitempty"`
	Switch    *SwitchRecord   `json:"switch,omitempty"`
	ItemID    int             `json:"item_id,omitempty"`
	Healed    int             `json:"healed,omitempty"`
	Cured     bool            `json:"cured,omitempty"`
	Fled      bool            `json:"fled,omitempty"`
	Prevented string          `json:"prevented,omitempty"`
	Failed    bool            `json:"failed,omitempty"`
	Error     string          `json:"error,omitempty"`
	Messages  []string        `json:"messages,omitempty"`
}

// TotalDamage sums the damage over every target.
func (r *ActionResult) TotalDamage() int {
	total := 0
	for _, t := range r.Targets {
		total += t.Damage
	}
	return total
}

// ResidualResult is one end-of-turn HP change.
type ResidualResult struct {
	CombatantID string `json:"combatant_id"`
	Source      string `json:"source"`
	Damage      int    `json:"damage"`
	Fainted     bool   `json:"fainted,omitempty"`
}

// TurnResult groups the action results and residuals of a turn.
type TurnResult struct {
	Turn      int              `json:"turn"`
	Actions   []ActionResult   `json:"actions"`
	Residuals []ResidualResult `json:"residuals,omitempty"`
	Ended     bool             `json:"ended,omitempty"`
	Winner    string           `json:"winner,omitempty"`
}
