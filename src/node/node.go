package node

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/sirupsen/logrus"
)

// Node serves the requests received by a main node.
type Node struct {
	state

	logger *logrus.Entry

	graph *graph.Graph

	trans net.Transport
	netCh <-chan net.RPC

	shutdownCh chan struct{}

	start    time.Time
	requests atomic.Int64
	failures atomic.Int64
}

// NewNode is a factory method that returns a Node instance
func NewNode(g *graph.Graph, trans net.Transport, logger *logrus.Entry) *Node {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}

	node := Node{
		logger:     logger.WithField("node", g.Name()),
		graph:      g,
		trans:      trans,
		netCh:      trans.Consumer(),
		shutdownCh: make(chan struct{}),
		start:      time.Now(),
	}

	return &node
}

// Graph returns the graph served by the node.
func (n *Node) Graph() *graph.Graph {
	return n.graph
}

// RunAsync calls Run as a separate thread
func (n *Node) RunAsync() {
	go n.Run()
}

// Run dispatches requests until the node is shut down.
func (n *Node) Run() {
	n.logger.Debug("Run loop")

	for {
		select {
		case rpc := <-n.netCh:
			n.goFunc(func() {
				n.processRPC(rpc)
			})
		case <-n.shutdownCh:
			return
		}
	}
}

// Shutdown stops the dispatcher, closes the transport, waits for the
// handlers in flight and stops the background retries.
func (n *Node) Shutdown() {
	if n.getState() != Shutdown {
		n.logger.Debug("Shutdown")

		n.setState(Shutdown)

		close(n.shutdownCh)

		if err := n.trans.Close(); err != nil {
			n.logger.WithError(err).Warn("Closing transport")
		}

		n.waitRoutines()

		n.graph.Close()
	}
}

// GetState returns the state of the node.
func (n *Node) GetState() State {
	return n.getState()
}

// GetStats returns stats
func (n *Node) GetStats() map[string]string {
	uptime := time.Since(n.start)

	s := map[string]string{
		"name":            n.graph.Name(),
		"state":           n.getState().String(),
		"local_events":    strconv.Itoa(len(n.graph.Events())),
		"num_peers":       strconv.Itoa(n.graph.Peers().Len()),
		"log_entries":     strconv.Itoa(len(n.graph.Log())),
		"active_handlers": strconv.Itoa(int(n.activeRoutines())),
		"requests":        strconv.FormatInt(n.requests.Load(), 10),
		"failed_requests": strconv.FormatInt(n.failures.Load(), 10),
		"uptime":          uptime.Truncate(time.Second).String(),
		"advertise_addr":  n.trans.AdvertiseAddr(),
	}
	return s
}
