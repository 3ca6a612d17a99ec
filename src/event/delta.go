package event

// DeltaKind names the marking field a Delta changes.
type DeltaKind uint8

const (
	SetIncluded DeltaKind = iota
	SetPending
	SetExecuted
	AddCondition
	AddMilestone
)

// Delta is a single primitive marking change. Flag deltas record the value
// before and after, counter deltas record the increment, so a list of deltas
// can be replayed forward and undone in reverse even if unrelated counter
// changes happened in between.
type Delta struct {
	Target *LocalEvent
	Kind   DeltaKind
	From   bool
	To     bool
	By     int
}

// Apply performs the change on m.
func (d Delta) Apply(m *Marking) {
	switch d.Kind {
	case SetIncluded:
		m.Included = d.To
	case SetPending:
		m.Pending = d.To
	case SetExecuted:
		m.Executed = d.To
	case AddCondition:
		m.Condition += d.By
	case AddMilestone:
		m.Milestone += d.By
	}
}

// Undo reverses the change on m.
func (d Delta) Undo(m *Marking) {
	switch d.Kind {
	case SetIncluded:
		m.Included = d.From
	case SetPending:
		m.Pending = d.From
	case SetExecuted:
		m.Executed = d.From
	case AddCondition:
		m.Condition -= d.By
	case AddMilestone:
		m.Milestone -= d.By
	}
}
