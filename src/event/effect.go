package event

import "fmt"

// Effect is a marking change requested on a single event. Effects travel
// between main nodes as the tokens of BLOCK lines.
type Effect uint8

const (
	EffectExclude Effect = iota
	EffectInclude
	EffectResponse
	EffectConditionUp
	EffectConditionDown
	EffectMilestoneUp
	EffectMilestoneDown
)

var effectTokens = [...]string{
	EffectExclude:       "exclude",
	EffectInclude:       "include",
	EffectResponse:      "response",
	EffectConditionUp:   "condition+",
	EffectConditionDown: "condition-",
	EffectMilestoneUp:   "milestone+",
	EffectMilestoneDown: "milestone-",
}

func (e Effect) String() string {
	if int(e) < len(effectTokens) {
		return effectTokens[e]
	}
	return "unknown"
}

// Relation returns the relation kind the effect originates from.
func (e Effect) Relation() RelationKind {
	switch e {
	case EffectExclude:
		return Exclude
	case EffectInclude:
		return Include
	case EffectResponse:
		return Response
	case EffectConditionUp, EffectConditionDown:
		return Condition
	default:
		return Milestone
	}
}

// ParseEffect parses a wire token.
func ParseEffect(tok string) (Effect, error) {
	for i, t := range effectTokens {
		if t == tok {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", tok)
}

// Action is an effect bound to the local event it applies to.
type Action struct {
	Target *LocalEvent
	Effect Effect
}
