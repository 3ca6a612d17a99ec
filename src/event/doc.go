// Package event defines the Dynamic Condition Response (DCR) event model
// shared by every main node.
//
// A LocalEvent is owned by this main node. It carries a Marking (Included,
// Pending, Executed and the Condition/Milestone counters), the relations it
// has towards other local events, the relations it has towards events owned
// by other main nodes (RemoteEventRef), and a reservation marker naming the
// execution that currently holds it.
//
// A ForeignEvent is a transient surrogate for an execution that started on
// another main node. It is built from the lines of a BLOCK message and lists
// the effects that the remote execution will have on local events.
//
// Effects are the unit of change exchanged between main nodes. Their wire
// tokens are exclude, include, response, condition+, condition-, milestone+
// and milestone-.
package event
