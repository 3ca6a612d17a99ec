package event

import (
	"github.com/algorand/go-deadlock"
)

// LocalEvent is an event owned by this main node.
//
// The lock guards the marking and the reservation marker only. Relations are
// populated while the graph is being built and are read-only afterwards.
type LocalEvent struct {
	name  string
	label string

	mu      deadlock.Mutex
	marking Marking
	block   ExecutionID

	Relations Relations
	External  ExternalRelations
}

// NewLocalEvent ...
func NewLocalEvent(name, label string, initial Marking) *LocalEvent {
	return &LocalEvent{
		name:    name,
		label:   label,
		marking: initial,
	}
}

// Name implements HasRelations.
func (e *LocalEvent) Name() string {
	return e.name
}

// Label ...
func (e *LocalEvent) Label() string {
	return e.label
}

// LocalRelations implements HasRelations.
func (e *LocalEvent) LocalRelations() *Relations {
	return &e.Relations
}

// Marking returns a copy of the current marking.
func (e *LocalEvent) Marking() Marking {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.marking
}

// Enabled ...
func (e *LocalEvent) Enabled() bool {
	return e.Marking().Enabled()
}

// Update mutates the marking under the event lock.
func (e *LocalEvent) Update(f func(m *Marking)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f(&e.marking)
}

// BlockedBy returns the execution currently holding the event, if any.
func (e *LocalEvent) BlockedBy() (ExecutionID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.block, e.block != ""
}

// Reserve marks the event as held by id. It fails if another execution holds
// it. Reserving an event already held by id succeeds without side effects;
// acquired is only true when this call took the reservation.
func (e *LocalEvent) Reserve(id ExecutionID) (acquired bool, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.block {
	case "":
		e.block = id
		return true, true
	case id:
		return false, true
	default:
		return false, false
	}
}

// Release frees the event if id holds it.
func (e *LocalEvent) Release(id ExecutionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.block != id {
		return false
	}
	e.block = ""
	return true
}
