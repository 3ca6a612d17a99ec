package event

import "fmt"

// Marking is the mutable state of an event.
type Marking struct {
	Included  bool
	Pending   bool
	Executed  bool
	Condition int
	Milestone int
}

// Enabled reports whether an event with this marking may execute: it must be
// included and have no unsatisfied Condition or Milestone relation.
func (m Marking) Enabled() bool {
	return m.Included && m.Condition <= 0 && m.Milestone <= 0
}

func (m Marking) String() string {
	return fmt.Sprintf("included=%t pending=%t executed=%t condition=%d milestone=%d enabled=%t",
		m.Included,
		m.Pending,
		m.Executed,
		m.Condition,
		m.Milestone,
		m.Enabled())
}
