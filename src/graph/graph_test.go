package graph

import (
	"testing"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRelationCounters(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a", "b")

	_, err := g.AddLocalEvent("p", "pending", event.Marking{Included: true, Pending: true})
	require.NoError(t, err)

	relate(t, g, "a", "b", event.Condition)
	relate(t, g, "p", "b", event.Milestone)
	// Relations are sets.
	relate(t, g, "a", "b", event.Condition)

	m := marking(t, g, "b")
	assert.Equal(t, 1, m.Condition)
	assert.Equal(t, 1, m.Milestone)
	assert.False(t, m.Enabled())

	err = g.AddRelation("a", "nope", event.Condition)
	assert.True(t, common.IsProtocol(err, common.UnknownEvent))
}

func TestRemoteRelationCounters(t *testing.T) {
	g := newTestGraph(t, nil, "other")
	addLocal(t, g, "b")

	ref := event.RemoteEventRef{Name: "r", Label: "remote", Peer: "other"}
	require.NoError(t, g.AddRemoteEvent(ref, event.Marking{Included: true}))

	relate(t, g, "r", "b", event.Condition)
	relate(t, g, "r", "b", event.Condition)

	assert.Equal(t, 1, marking(t, g, "b").Condition)

	_, err := g.Event("r")
	assert.True(t, common.IsProtocol(err, common.RemoteEvent))

	err = g.AddRemoteEvent(event.RemoteEventRef{Name: "s", Peer: "main"}, included())
	assert.Error(t, err)
}

func TestConditionChain(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a", "b", "c")
	relate(t, g, "a", "b", event.Condition)
	relate(t, g, "b", "c", event.Condition)

	err := g.Execute("b")
	assert.True(t, common.IsProtocol(err, common.EventDisabled))

	require.NoError(t, g.Execute("a"))
	assert.True(t, marking(t, g, "b").Enabled())
	assert.False(t, marking(t, g, "c").Enabled())

	require.NoError(t, g.Execute("b"))
	require.NoError(t, g.Execute("c"))

	// Executing again does not decrement twice.
	require.NoError(t, g.Execute("a"))
	assert.Equal(t, 0, marking(t, g, "b").Condition)

	entries := g.Log()
	require.Len(t, entries, 4)
	assert.Equal(t, "a", entries[0].Event)
	assert.Equal(t, "c", entries[2].Event)
}

func TestResponseAndMilestone(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a", "b", "c")
	relate(t, g, "a", "b", event.Response)
	relate(t, g, "b", "c", event.Milestone)

	assert.True(t, g.IsAccepting())

	require.NoError(t, g.Execute("a"))

	b := marking(t, g, "b")
	assert.True(t, b.Pending)
	assert.Equal(t, 1, marking(t, g, "c").Milestone)
	assert.False(t, g.IsAccepting())

	err := g.Execute("c")
	assert.True(t, common.IsProtocol(err, common.EventDisabled))

	require.NoError(t, g.Execute("b"))

	b = marking(t, g, "b")
	assert.False(t, b.Pending)
	assert.True(t, b.Executed)
	assert.Equal(t, 0, marking(t, g, "c").Milestone)
	assert.True(t, g.IsAccepting())
}

func TestExcludeInclude(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a", "b", "c", "d")
	relate(t, g, "a", "b", event.Exclude)
	relate(t, g, "c", "b", event.Include)
	relate(t, g, "b", "d", event.Condition)

	assert.Equal(t, 1, marking(t, g, "d").Condition)

	require.NoError(t, g.Execute("a"))
	assert.False(t, marking(t, g, "b").Included)
	assert.Equal(t, 0, marking(t, g, "d").Condition)
	assert.True(t, marking(t, g, "d").Enabled())

	err := g.Execute("b")
	assert.True(t, common.IsProtocol(err, common.EventDisabled))

	require.NoError(t, g.Execute("c"))
	assert.True(t, marking(t, g, "b").Included)
	assert.Equal(t, 1, marking(t, g, "d").Condition)
}

func TestSelfExclude(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a")
	relate(t, g, "a", "a", event.Exclude)

	require.NoError(t, g.Execute("a"))

	m := marking(t, g, "a")
	assert.True(t, m.Included)
	assert.True(t, m.Executed)

	e, _ := g.Event("a")
	_, blocked := e.BlockedBy()
	assert.False(t, blocked)
}

func TestExecuteUnknownAndBlocked(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a", "b")
	relate(t, g, "a", "b", event.Exclude)

	err := g.Execute("nope")
	assert.True(t, common.IsProtocol(err, common.UnknownEvent))

	other := event.NewExecutionID()
	b, _ := g.Event("b")
	require.NoError(t, g.reserve(b, other))

	err = g.Execute("b")
	assert.True(t, common.IsProtocol(err, common.EventBlocked))

	err = g.Execute("a")
	assert.True(t, common.IsProtocol(err, common.ReservationConflict))

	// a was released, b is still held by the other execution.
	a, _ := g.Event("a")
	_, blocked := a.BlockedBy()
	assert.False(t, blocked)

	owner, blocked := b.BlockedBy()
	assert.True(t, blocked)
	assert.Equal(t, other, owner)

	assert.True(t, marking(t, g, "b").Included)
	assert.False(t, marking(t, g, "a").Executed)

	g.Unblock(other)
	require.NoError(t, g.Execute("a"))
}

func TestTryBlockInternalIdempotent(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "a", "b", "c")
	relate(t, g, "a", "b", event.Exclude)
	relate(t, g, "a", "b", event.Response)
	relate(t, g, "b", "c", event.Milestone)

	id := event.NewExecutionID()
	a, _ := g.Event("a")
	require.NoError(t, g.reserve(a, id))
	require.NoError(t, g.TryBlockInternal(a, id))
	require.NoError(t, g.TryBlockInternal(a, id))

	assert.ElementsMatch(t, []string{"a", "b", "c"}, g.Reserved(id))

	g.Unblock(id)
	assert.Empty(t, g.Reserved(id))
}

func TestPermissionsSorted(t *testing.T) {
	g := newTestGraph(t, nil)
	addLocal(t, g, "c", "a", "b")

	var names []string
	for _, e := range g.Events() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
