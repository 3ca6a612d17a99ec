package event

import (
	"testing"
)

func TestMarkingEnabled(t *testing.T) {
	cases := []struct {
		m       Marking
		enabled bool
	}{
		{Marking{Included: true}, true},
		{Marking{Included: false}, false},
		{Marking{Included: true, Condition: 1}, false},
		{Marking{Included: true, Milestone: 2}, false},
		{Marking{Included: true, Condition: -1, Milestone: 0}, true},
		{Marking{Included: true, Pending: true, Executed: true}, true},
	}

	for i, c := range cases {
		if c.m.Enabled() != c.enabled {
			t.Fatalf("case %d: %+v should have enabled=%t", i, c.m, c.enabled)
		}
	}
}

func TestReserveRelease(t *testing.T) {
	e := NewLocalEvent("a", "A", Marking{Included: true})
	x := NewExecutionID()
	y := NewExecutionID()

	acquired, ok := e.Reserve(x)
	if !acquired || !ok {
		t.Fatalf("first reservation should acquire")
	}

	acquired, ok = e.Reserve(x)
	if acquired || !ok {
		t.Fatalf("re-entry by the same execution should succeed silently")
	}

	if _, ok := e.Reserve(y); ok {
		t.Fatalf("reservation by another execution should fail")
	}

	if e.Release(y) {
		t.Fatalf("only the holder can release")
	}

	if !e.Release(x) {
		t.Fatalf("holder should release")
	}

	if _, blocked := e.BlockedBy(); blocked {
		t.Fatalf("event should be free")
	}

	if _, ok := e.Reserve(y); !ok {
		t.Fatalf("free event should be reservable")
	}
}

func TestEffectTokens(t *testing.T) {
	for _, tok := range []string{"exclude", "include", "response", "condition+", "condition-", "milestone+", "milestone-"} {
		e, err := ParseEffect(tok)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if e.String() != tok {
			t.Fatalf("expected %s, got %s", tok, e)
		}
	}

	if _, err := ParseEffect("condition"); err == nil {
		t.Fatalf("bare relation name is not an effect")
	}
}

func TestDeltaUndo(t *testing.T) {
	m := Marking{Included: true, Condition: 1}
	deltas := []Delta{
		{Kind: SetIncluded, From: true, To: false},
		{Kind: AddCondition, By: -1},
		{Kind: SetPending, From: false, To: true},
		{Kind: AddMilestone, By: 2},
	}

	orig := m
	for _, d := range deltas {
		d.Apply(&m)
	}
	if m != (Marking{Included: false, Pending: true, Condition: 0, Milestone: 2}) {
		t.Fatalf("bad forward result: %+v", m)
	}

	for i := len(deltas) - 1; i >= 0; i-- {
		deltas[i].Undo(&m)
	}
	if m != orig {
		t.Fatalf("undo should restore %+v, got %+v", orig, m)
	}
}

func TestRelationsAreSets(t *testing.T) {
	a := NewLocalEvent("a", "A", Marking{})
	b := NewLocalEvent("b", "B", Marking{})

	var r Relations
	if !r.Add(Condition, b) {
		t.Fatalf("first add should be new")
	}
	if r.Add(Condition, b) {
		t.Fatalf("second add should be a no-op")
	}
	r.Add(Condition, a)

	if len(r.Conditions) != 2 || r.Conditions[0] != b || r.Conditions[1] != a {
		t.Fatalf("insertion order not kept: %v", r.Conditions)
	}
}

func TestParseExecutionID(t *testing.T) {
	id := NewExecutionID()
	parsed, err := ParseExecutionID(id.String())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if parsed != id {
		t.Fatalf("expected %s, got %s", id, parsed)
	}
	if _, err := ParseExecutionID("not-a-uuid"); err == nil {
		t.Fatalf("expected an error")
	}
}
