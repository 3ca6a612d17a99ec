package graph

import (
	"sort"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
)

// Accepting answers "ACCEPTING id" for the peers not yet in seen. The result
// is true only if this node and every peer reached through it are accepting.
// A query id already answered returns an IgnoredQuery error.
func (g *Graph) Accepting(id event.ExecutionID, seen []string) (bool, error) {
	if found, _ := g.seenAcceptingIds.ContainsOrAdd(id, struct{}{}); found {
		return false, common.NewProtocolErr(common.IgnoredQuery, id.String())
	}

	result := g.IsAccepting()

	targets, visited := g.unseen(seen)
	if len(targets) == 0 {
		return result, nil
	}

	msg := net.NewQueryRequest(net.CmdAccepting, id.String(), visited).String()
	for _, reply := range g.broadcastSame(targets, msg) {
		switch reply {
		case net.ReplyTrue, net.ReplyAcceptingIgnore:
		default:
			result = false
		}
	}

	return result, nil
}

// StartAccepting asks the whole network whether it is accepting.
func (g *Graph) StartAccepting() bool {
	res, _ := g.Accepting(event.NewExecutionID(), nil)
	return res
}

// CollectLog answers "LOG id" for the peers not yet in seen: the local log
// merged with the logs of every peer reached through this node, ordered by
// time. A query id already answered returns an IgnoredQuery error.
func (g *Graph) CollectLog(id event.ExecutionID, seen []string) ([]LogEntry, error) {
	if found, _ := g.seenLogIds.ContainsOrAdd(id, struct{}{}); found {
		return nil, common.NewProtocolErr(common.IgnoredQuery, id.String())
	}

	entries := g.log.snapshot()

	targets, visited := g.unseen(seen)
	if len(targets) > 0 {
		msg := net.NewQueryRequest(net.CmdLog, id.String(), visited).String()
		for peer, reply := range g.broadcastSame(targets, msg) {
			if reply == net.ReplyUnavailable {
				continue
			}
			remote, err := ParseLog(reply)
			if err != nil {
				g.logger.WithField("peer", peer).WithError(err).Warn("Bad LOG reply")
				continue
			}
			entries = append(entries, remote...)
		}
	}

	sortLog(entries)

	return entries, nil
}

// StartLog collects the execution log of the whole network.
func (g *Graph) StartLog() []LogEntry {
	res, _ := g.CollectLog(event.NewExecutionID(), nil)
	return res
}

// Log returns the executions committed by this node.
func (g *Graph) Log() []LogEntry {
	return g.log.snapshot()
}

// unseen returns the peers still to be queried and the visited list to send
// them: seen, this node and the targets themselves.
func (g *Graph) unseen(seen []string) (targets []string, visited []string) {
	set := map[string]bool{g.conf.Name: true}
	for _, s := range seen {
		set[s] = true
	}

	for _, p := range g.peers.Others(g.conf.Name) {
		if !set[p] {
			targets = append(targets, p)
			set[p] = true
		}
	}

	for s := range set {
		visited = append(visited, s)
	}
	sort.Strings(targets)
	sort.Strings(visited)

	return targets, visited
}
