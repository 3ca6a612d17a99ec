package event

import (
	"time"
)

// ForeignState tracks the progress of a ForeignEvent.
type ForeignState uint32

const (
	// Blocked: the local events are reserved, nothing applied yet.
	Blocked ForeignState = iota
	// Executing: an EXECUTE is propagating to further peers.
	Executing
	// Executed: the effects are applied and can still be reverted.
	Executed
	// Finished: reverted or released, the foreign event can be discarded.
	Finished
)

func (s ForeignState) String() string {
	switch s {
	case Blocked:
		return "Blocked"
	case Executing:
		return "Executing"
	case Executed:
		return "Executed"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// ForeignEvent stands in for an execution that started on another main node.
// It is created on BLOCK and discarded once the execution is unblocked or
// reverted.
type ForeignEvent struct {
	ID   ExecutionID
	Time time.Time

	// Relations points at the local events the remote execution touches, by
	// the relation the change comes from.
	Relations Relations

	// Actions lists the effects in the order they were received.
	Actions []Action

	// PeersPropagate maps the peers this node itself blocked on behalf of the
	// execution to their last reply.
	PeersPropagate map[string]string

	// Applied holds the deltas performed by EXECUTE, for REVERT.
	Applied []Delta

	State ForeignState
}

// NewForeignEvent ...
func NewForeignEvent(id ExecutionID, t time.Time) *ForeignEvent {
	return &ForeignEvent{
		ID:             id,
		Time:           t,
		PeersPropagate: make(map[string]string),
	}
}

// Name implements HasRelations.
func (f *ForeignEvent) Name() string {
	return "foreign:" + f.ID.String()
}

// LocalRelations implements HasRelations.
func (f *ForeignEvent) LocalRelations() *Relations {
	return &f.Relations
}

// AddAction records an effect on target and files target under the relation
// the effect comes from.
func (f *ForeignEvent) AddAction(target *LocalEvent, effect Effect) {
	f.Actions = append(f.Actions, Action{Target: target, Effect: effect})
	f.Relations.Add(effect.Relation(), target)
}

// Peers returns the names of the peers in PeersPropagate.
func (f *ForeignEvent) Peers() []string {
	res := make([]string, 0, len(f.PeersPropagate))
	for p := range f.PeersPropagate {
		res = append(res, p)
	}
	return res
}
