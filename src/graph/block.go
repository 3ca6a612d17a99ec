package graph

import (
	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/sirupsen/logrus"
)

// reserve marks e as held by id and files it in the blocked registry. An
// event already held by id is left alone; an event held by another execution
// fails with EventBlocked.
func (g *Graph) reserve(e *event.LocalEvent, id event.ExecutionID) error {
	acquired, ok := e.Reserve(id)
	if !ok {
		return common.NewProtocolErr(common.EventBlocked, e.Name())
	}

	if acquired {
		g.blockedLock.Lock()
		g.blocked[id] = append(g.blocked[id], e)
		g.blockedLock.Unlock()

		g.metrics.reserved.Inc()
	}

	return nil
}

// TryBlockInternal reserves, under id, every local event that executing src
// can read or write:
//
//  - the exclude and include targets, with their condition and milestone
//    targets
//  - the response targets, with their milestone targets
//  - the condition and milestone targets of src itself
//
// The source event, when it is local, must already be reserved. Targets equal
// to the source are skipped. On conflict the reservations taken so far stay
// in the registry under id; the caller releases them with Unblock.
func (g *Graph) TryBlockInternal(src event.HasRelations, id event.ExecutionID) error {
	self, _ := src.(*event.LocalEvent)
	rel := src.LocalRelations()

	reserveAll := func(targets []*event.LocalEvent) error {
		for _, t := range targets {
			if t == self {
				continue
			}
			if err := g.reserve(t, id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, t := range rel.Excludes {
		if err := reserveAll([]*event.LocalEvent{t}); err != nil {
			return err
		}
		if err := reserveAll(t.Relations.Conditions); err != nil {
			return err
		}
		if err := reserveAll(t.Relations.Milestones); err != nil {
			return err
		}
	}

	for _, t := range rel.Responses {
		if err := reserveAll([]*event.LocalEvent{t}); err != nil {
			return err
		}
		if err := reserveAll(t.Relations.Milestones); err != nil {
			return err
		}
	}

	for _, t := range rel.Includes {
		if err := reserveAll(t.Relations.Conditions); err != nil {
			return err
		}
		if err := reserveAll(t.Relations.Milestones); err != nil {
			return err
		}
		if err := reserveAll([]*event.LocalEvent{t}); err != nil {
			return err
		}
	}

	if err := reserveAll(rel.Conditions); err != nil {
		return err
	}

	return reserveAll(rel.Milestones)
}

// Unblock releases every event reserved under id and forgets id.
func (g *Graph) Unblock(id event.ExecutionID) {
	g.blockedLock.Lock()
	events := g.blocked[id]
	delete(g.blocked, id)
	g.blockedLock.Unlock()

	released := 0
	for _, e := range events {
		if e.Release(id) {
			released++
		}
	}

	g.metrics.reserved.Sub(float64(released))

	if released > 0 {
		g.logger.WithFields(logrus.Fields{
			"exec_id":  id,
			"released": released,
		}).Debug("Unblock()")
	}
}

// Reserved returns the names of the events currently reserved under id.
func (g *Graph) Reserved(id event.ExecutionID) []string {
	g.blockedLock.Lock()
	defer g.blockedLock.Unlock()

	res := make([]string, 0, len(g.blocked[id]))
	for _, e := range g.blocked[id] {
		res = append(res, e.Name())
	}
	return res
}
