package engine

// ActionKind is what a combatant does with its turn.
type ActionKind string

const (
	ActionMove   ActionKind = "move"
	ActionSwitch ActionKind = "switch"
	ActionItem   ActionKind = "item"
	ActionFlee   ActionKind = "flee"
)

// Fixed priorities of the non-move actions. Moves use their own priority.
const (
	PrioritySwitch = 6
	PriorityItem   = 6
	PriorityFlee   = -7
)

// Action is one pending command for the current turn.
type Action struct {
	ActorID    string     `json:"actor_id"`
	Kind       ActionKind `json:"kind"`
	MoveSlot   int        `json:"move_slot,omitempty"`
	TargetID   string     `json:"target_id,omitempty"`
	SwitchSlot int        `json:"switch_slot,omitempty"`
	ItemID     int        `json:"item_id,omitempty"`

	// Set when the action is queued.
	Priority int `json:"priority"`
	Speed    int `json:"speed"`
	Seq      int `json:"seq"`
}

// MoveAction selects the move in slot against an optional target.
func MoveAction(actorID string, slot int, targetID string) Action {
	return Action{ActorID: actorID, Kind: ActionMove, MoveSlot: slot, TargetID: targetID}
}

// SwitchAction swaps the actor for the roster member in slot.
func SwitchAction(actorID string, slot int) Action {
	return Action{ActorID: actorID, Kind: ActionSwitch, SwitchSlot: slot}
}

// ItemAction uses an item on targetID, or on the actor when empty.
func ItemAction(actorID string, itemID int, targetID string) Action {
	return Action{ActorID: actorID, Kind: ActionItem, ItemID: itemID, TargetID: targetID}
}

// FleeAction ends the battle without a winner.
func FleeAction(actorID string) Action {
	return Action{ActorID: actorID, Kind: ActionFlee}
}

// before reports whether a runs strictly ahead of b.
func (a Action) before(b Action) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Speed > b.Speed
}

// actionQueue keeps the turn's actions sorted by priority, then speed.
// Full ties keep submission order.
type actionQueue struct {
	items []Action
	seq   int
}

func (q *actionQueue) insert(a Action) {
	q.seq++
	a.Seq = q.seq
	pos := len(q.items)
	for i, cur := range q.items {
		if a.before(cur) {
			pos = i
			break
		}
	}
	q.items = append(q.items, Action{})
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = a
}

func (q *actionQueue) has(actorID string) bool {
	for _, a := range q.items {
		if a.ActorID == actorID {
			return true
		}
	}
	return false
}

func (q *actionQueue) drain() []Action {
	out := q.items
	q.items = nil
	return out
}

func (q *actionQueue) snapshot() []Action {
	return append([]Action(nil), q.items...)
}
