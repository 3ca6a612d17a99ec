package event

import (
	"fmt"
	"strings"
)

// RelationKind is one of the five DCR relations.
type RelationKind uint8

const (
	Condition RelationKind = iota
	Response
	Milestone
	Include
	Exclude
)

func (k RelationKind) String() string {
	switch k {
	case Condition:
		return "condition"
	case Response:
		return "response"
	case Milestone:
		return "milestone"
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// ParseRelationKind parses a relation name, case-insensitively.
func ParseRelationKind(s string) (RelationKind, error) {
	switch strings.ToLower(s) {
	case "condition":
		return Condition, nil
	case "response":
		return Response, nil
	case "milestone":
		return Milestone, nil
	case "include":
		return Include, nil
	case "exclude":
		return Exclude, nil
	}
	return 0, fmt.Errorf("unknown relation kind %q", s)
}

// Relations holds the outgoing relations of an event towards local events.
// Each slice behaves as a set and keeps insertion order.
type Relations struct {
	Conditions []*LocalEvent
	Responses  []*LocalEvent
	Milestones []*LocalEvent
	Includes   []*LocalEvent
	Excludes   []*LocalEvent
}

// Add inserts target in the set for kind and reports whether it was new.
func (r *Relations) Add(kind RelationKind, target *LocalEvent) bool {
	set := r.set(kind)
	for _, e := range *set {
		if e == target {
			return false
		}
	}
	*set = append(*set, target)
	return true
}

func (r *Relations) set(kind RelationKind) *[]*LocalEvent {
	switch kind {
	case Condition:
		return &r.Conditions
	case Response:
		return &r.Responses
	case Milestone:
		return &r.Milestones
	case Include:
		return &r.Includes
	default:
		return &r.Excludes
	}
}

// ExternalRelations holds the outgoing relations of a local event towards
// events owned by other main nodes.
type ExternalRelations struct {
	Conditions []RemoteEventRef
	Responses  []RemoteEventRef
	Milestones []RemoteEventRef
	Includes   []RemoteEventRef
	Excludes   []RemoteEventRef
}

// Add inserts target in the set for kind and reports whether it was new.
func (r *ExternalRelations) Add(kind RelationKind, target RemoteEventRef) bool {
	var set *[]RemoteEventRef
	switch kind {
	case Condition:
		set = &r.Conditions
	case Response:
		set = &r.Responses
	case Milestone:
		set = &r.Milestones
	case Include:
		set = &r.Includes
	default:
		set = &r.Excludes
	}
	for _, e := range *set {
		if e == target {
			return false
		}
	}
	*set = append(*set, target)
	return true
}

// HasRelations is implemented by anything whose relations drive marking
// changes on local events: a LocalEvent being executed, or a ForeignEvent
// standing in for a remote execution.
type HasRelations interface {
	Name() string
	LocalRelations() *Relations
}
