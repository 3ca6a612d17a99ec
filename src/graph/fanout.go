package graph

import (
	"sort"
	"sync"
	"time"

	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// send delivers msg to the named peer over the main-node channel. Missing
// peers, transport errors and timeouts all come back as UNAVAILABLE.
func (g *Graph) send(peer string, msg string) string {
	addr, ok := g.peers.Addr(peer)
	if !ok || g.trans == nil {
		g.logger.WithField("peer", peer).Warn("Unknown peer")
		return net.ReplyUnavailable
	}

	reply, err := g.trans.Send(addr, net.RoleMain, msg, false)
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"peer":  peer,
			"error": err,
		}).Debug("send()")
		return net.ReplyUnavailable
	}

	return reply
}

// broadcast sends every peer its own message concurrently and returns once
// every reply is in.
func (g *Graph) broadcast(msgs map[string]string) map[string]string {
	var (
		eg      errgroup.Group
		mu      sync.Mutex
		replies = make(map[string]string, len(msgs))
	)

	for peer, msg := range msgs {
		peer, msg := peer, msg
		eg.Go(func() error {
			reply := g.send(peer, msg)

			mu.Lock()
			replies[peer] = reply
			mu.Unlock()

			return nil
		})
	}

	eg.Wait()

	return replies
}

// broadcastSame sends the same message to every peer.
func (g *Graph) broadcastSame(peers []string, msg string) map[string]string {
	msgs := make(map[string]string, len(peers))
	for _, p := range peers {
		msgs[p] = msg
	}
	return g.broadcast(msgs)
}

// split sorts peers by whether they answered SUCCESS.
func split(replies map[string]string) (ok []string, failed []string) {
	for peer, reply := range replies {
		if reply == net.ReplySuccess {
			ok = append(ok, peer)
		} else {
			failed = append(failed, peer)
		}
	}
	sort.Strings(ok)
	sort.Strings(failed)
	return ok, failed
}

// release sends "<cmd> <id>" to peers and retries, in the background, the
// ones that did not answer. Used for UNBLOCK and REVERT, which peers always
// accept when they are reachable.
func (g *Graph) release(peers []string, cmd string, id event.ExecutionID) {
	if len(peers) == 0 {
		return
	}

	msg := net.NewIDRequest(cmd, id.String()).String()

	_, failed := split(g.broadcastSame(peers, msg))
	for _, p := range failed {
		g.retryAsync(p, msg)
	}
}

// retryAsync resends msg to peer until it answers SUCCESS, the attempts run
// out or the graph is closed.
func (g *Graph) retryAsync(peer, msg string) {
	logger := g.logger.WithFields(logrus.Fields{
		"peer": peer,
		"msg":  msg,
	})

	g.retries.Add(1)
	go func() {
		defer g.retries.Done()

		for attempt := 1; attempt <= g.conf.MaxConnectionAttempts; attempt++ {
			select {
			case <-g.shutdownCh:
				return
			case <-time.After(g.conf.RetryInterval):
			}

			if g.send(peer, msg) == net.ReplySuccess {
				logger.WithField("attempt", attempt).Debug("Retry succeeded")
				return
			}
		}

		logger.Warn("Giving up on peer")
	}()
}

// WaitRetries blocks until every background retry has finished.
func (g *Graph) WaitRetries() {
	g.retries.Wait()
}

// Close stops the background retries and waits for them.
func (g *Graph) Close() {
	g.shutdownOnce.Do(func() {
		close(g.shutdownCh)
	})
	g.retries.Wait()
}
