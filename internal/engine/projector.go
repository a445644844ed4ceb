package engine

import "fmt"

// Projector computes BattleState from the event journal.
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Build folds the journal from a clean slate. A journal written by a Battle never
// breaks an invariant, so any Apply error means the journal is corrupt.
func (p *Projector) Build(records []Record) (*BattleState, error) {
	state := NewBattleState()

	for _, r := range records {
		if r.Event == nil {
			return nil, fmt.Errorf("record %d has no event", r.Seq)
		}
		if err := r.Event.Apply(state); err != nil {
			return nil, fmt.Errorf("replaying record %d (%s): %w", r.Seq, r.Event.Type(), err)
		}
	}

	return state, nil
}

// BuildUntil folds records up to and including seq.
func (p *Projector) BuildUntil(records []Record, seq uint64) (*BattleState, error) {
	var upto []Record
	for _, r := range records {
		if r.Seq > seq {
			break
		}
		upto = append(upto, r)
	}
	return p.Build(upto)
}
