package graph

import (
	"strings"
	"time"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/sirupsen/logrus"
)

// Execute runs the distributed execution of the local event called name:
// reserve it and every local event it can touch, BLOCK the peers owning the
// remote events it touches, EXECUTE them, apply the local changes and UNBLOCK
// everyone. Any failure before the local commit leaves every marking as it
// was.
func (g *Graph) Execute(name string) error {
	e, err := g.Event(name)
	if err != nil {
		g.metrics.execution(outcomeInvalid)
		return err
	}

	if _, blocked := e.BlockedBy(); blocked {
		g.metrics.execution(outcomeBlocked)
		return common.NewProtocolErr(common.EventBlocked, name)
	}
	if !e.Enabled() {
		g.metrics.execution(outcomeDisabled)
		return common.NewProtocolErr(common.EventDisabled, name)
	}

	id := event.NewExecutionID()
	logger := g.logger.WithFields(logrus.Fields{
		"exec_id": id,
		"event":   name,
	})

	if err := g.reserve(e, id); err != nil {
		g.metrics.execution(outcomeBlocked)
		return err
	}
	defer g.Unblock(id)

	// Counters may have moved between the first check and the reservation.
	if !e.Enabled() {
		g.metrics.execution(outcomeDisabled)
		return common.NewProtocolErr(common.EventDisabled, name)
	}

	if err := g.TryBlockInternal(e, id); err != nil {
		logger.WithField("error", err).Debug("TryBlockInternal()")
		g.metrics.execution(outcomeBlocked)
		return common.NewProtocolErr(common.ReservationConflict, name)
	}

	now := time.Now().UTC()

	accepted, err := g.blockPeers(id, now, g.GetPeerMessages(e))
	if err != nil {
		logger.WithField("error", err).Debug("blockPeers()")
		g.metrics.execution(outcomeRefused)
		return err
	}

	if err := g.executePeers(id, accepted); err != nil {
		logger.WithField("error", err).Debug("executePeers()")
		g.metrics.execution(outcomeFailed)
		return err
	}

	// Nested executions that came back to this node under id may have moved
	// counters, so the plan is computed again on the reserved markings.
	applyDeltas(g.NewMarkingsReversible(e).Deltas)
	g.log.append(now, name)

	g.release(accepted, net.CmdUnblock, id)

	logger.WithField("peers", len(accepted)).Info("Executed")
	g.metrics.execution(outcomeSuccess)

	return nil
}

// blockPeers sends BLOCK to every peer in msgs and returns the peers that
// accepted. If any peer refuses, every peer is unblocked and a PeerRefused
// error is returned. A peer that timed out may still complete its BLOCK, so
// it is unblocked too.
func (g *Graph) blockPeers(id event.ExecutionID, t time.Time, msgs map[string][]net.EffectLine) ([]string, error) {
	if len(msgs) == 0 {
		return nil, nil
	}

	reqs := make(map[string]string, len(msgs))
	for peer, lines := range msgs {
		reqs[peer] = net.NewBlockRequest(id.String(), t, lines).String()
	}

	accepted, refused := split(g.broadcast(reqs))
	if len(refused) > 0 {
		g.release(accepted, net.CmdUnblock, id)
		g.release(refused, net.CmdUnblock, id)
		return nil, common.NewProtocolErr(common.PeerRefused, strings.Join(refused, ","))
	}

	return accepted, nil
}

// executePeers sends EXECUTE to the peers that accepted the BLOCK. If any of
// them fails, the ones that executed are reverted, the others are unblocked
// and a PeerUnavailable error is returned.
func (g *Graph) executePeers(id event.ExecutionID, peers []string) error {
	if len(peers) == 0 {
		return nil
	}

	msg := net.NewIDRequest(net.CmdExecute, id.String()).String()

	executed, failed := split(g.broadcastSame(peers, msg))
	if len(failed) > 0 {
		g.release(executed, net.CmdRevert, id)
		g.release(failed, net.CmdUnblock, id)
		return common.NewProtocolErr(common.PeerUnavailable, strings.Join(failed, ","))
	}

	return nil
}
