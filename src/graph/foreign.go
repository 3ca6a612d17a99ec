package graph

import (
	"sort"
	"time"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/sirupsen/logrus"
)

// BlockForeign handles "BLOCK id time" from another main node. Every line
// names a local event and the effects to apply to it. The local events are
// reserved together with everything the effects can touch, and the block is
// propagated to the peers owning remote events touched in turn. On failure
// every reservation taken under id is released.
func (g *Graph) BlockForeign(id event.ExecutionID, t time.Time, lines []net.EffectLine) (err error) {
	defer func() { g.metrics.foreignRequest(net.CmdBlock, err) }()

	f := event.NewForeignEvent(id, t)

	for _, l := range lines {
		target, err := g.Event(l.Event)
		if err != nil {
			return err
		}
		for _, tok := range l.Effects {
			eff, err := event.ParseEffect(tok)
			if err != nil {
				return common.NewProtocolErr(common.MalformedMessage, tok)
			}
			f.AddAction(target, eff)
		}
	}

	logger := g.logger.WithFields(logrus.Fields{
		"exec_id": id,
		"actions": len(f.Actions),
	})

	if err := g.TryBlockInternal(f, id); err != nil {
		logger.WithField("error", err).Debug("TryBlockInternal()")
		g.Unblock(id)
		return err
	}

	accepted, err := g.blockPeers(id, t, g.GetPeerMessages(f))
	if err != nil {
		logger.WithField("error", err).Debug("blockPeers()")
		g.Unblock(id)
		return err
	}

	for _, p := range accepted {
		f.PeersPropagate[p] = net.ReplySuccess
	}

	g.foreignLock.Lock()
	g.eventsForeign[id] = append(g.eventsForeign[id], f)
	g.foreignLock.Unlock()

	logger.WithField("peers", len(accepted)).Debug("Blocked")

	return nil
}

// ExecuteForeign handles "EXECUTE id". The execution is propagated to the
// peers this node blocked, then the foreign effects are applied. A failing
// peer makes the whole step fail: executed peers are reverted, and the local
// reservations and foreign events for id are dropped.
func (g *Graph) ExecuteForeign(id event.ExecutionID) (err error) {
	defer func() { g.metrics.foreignRequest(net.CmdExecute, err) }()

	fs, known := g.claimForeign(id)
	if !known {
		return common.NewProtocolErr(common.UnknownExecution, id.String())
	}
	// Already being executed through another path.
	if len(fs) == 0 {
		return nil
	}

	if err := g.executePeers(id, propagatePeers(fs)); err != nil {
		g.takeForeign(id)
		g.Unblock(id)
		return err
	}

	for _, f := range fs {
		g.ChangeMarkings(f, false)
	}

	g.logger.WithField("exec_id", id).Debug("Executed foreign")

	return nil
}

// RevertForeign handles "REVERT id": the peers are reverted, the applied
// effects undone, and every reservation under id released.
func (g *Graph) RevertForeign(id event.ExecutionID) {
	g.metrics.foreignRequest(net.CmdRevert, nil)

	fs := g.takeForeign(id)

	g.release(propagatePeers(fs), net.CmdRevert, id)

	for i := len(fs) - 1; i >= 0; i-- {
		g.ChangeMarkings(fs[i], true)
	}

	g.Unblock(id)

	if len(fs) > 0 {
		g.logger.WithField("exec_id", id).Debug("Reverted foreign")
	}
}

// UnblockForeign handles "UNBLOCK id": the peers are unblocked and every
// reservation under id released. Applied effects stay.
func (g *Graph) UnblockForeign(id event.ExecutionID) {
	g.metrics.foreignRequest(net.CmdUnblock, nil)

	fs := g.takeForeign(id)

	g.release(propagatePeers(fs), net.CmdUnblock, id)

	for _, f := range fs {
		g.setForeignState(f, event.Finished)
	}

	g.Unblock(id)
}

// ForeignEvents returns the foreign events stored under id.
func (g *Graph) ForeignEvents(id event.ExecutionID) []*event.ForeignEvent {
	g.foreignLock.Lock()
	defer g.foreignLock.Unlock()

	res := make([]*event.ForeignEvent, len(g.eventsForeign[id]))
	copy(res, g.eventsForeign[id])
	return res
}

// claimForeign moves the Blocked foreign events of id to Executing and
// returns them. known is false when nothing is stored under id.
func (g *Graph) claimForeign(id event.ExecutionID) (fs []*event.ForeignEvent, known bool) {
	g.foreignLock.Lock()
	defer g.foreignLock.Unlock()

	stored, known := g.eventsForeign[id]
	for _, f := range stored {
		if f.State == event.Blocked {
			f.State = event.Executing
			fs = append(fs, f)
		}
	}
	return fs, known
}

// takeForeign removes and returns the foreign events of id.
func (g *Graph) takeForeign(id event.ExecutionID) []*event.ForeignEvent {
	g.foreignLock.Lock()
	defer g.foreignLock.Unlock()

	fs := g.eventsForeign[id]
	delete(g.eventsForeign, id)
	return fs
}

func propagatePeers(fs []*event.ForeignEvent) []string {
	set := make(map[string]bool)
	for _, f := range fs {
		for _, p := range f.Peers() {
			set[p] = true
		}
	}

	res := make([]string, 0, len(set))
	for p := range set {
		res = append(res, p)
	}
	sort.Strings(res)
	return res
}
