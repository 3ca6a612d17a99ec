package graph

import (
	"strings"
	"sync"
	"testing"

	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/peers"
	"github.com/stretchr/testify/require"
)

// stubPeer is a fake main node answering every request with reply and
// recording what it received.
type stubPeer struct {
	name  string
	addr  string
	trans *net.InmemTransport

	mu       sync.Mutex
	received []string
	reply    func(msg string) string
}

func newStubPeer(t *testing.T, name string, reply func(msg string) string) *stubPeer {
	addr, trans := net.NewInmemTransport("")
	s := &stubPeer{
		name:  name,
		addr:  addr,
		trans: trans,
		reply: reply,
	}

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	go func() {
		for {
			select {
			case rpc := <-trans.Consumer():
				s.mu.Lock()
				s.received = append(s.received, rpc.Message)
				s.mu.Unlock()
				rpc.Respond(s.reply(rpc.Message))
			case <-done:
				return
			}
		}
	}()

	return s
}

func alwaysSuccess(string) string {
	return net.ReplySuccess
}

// commands returns the command word of every message received.
func (s *stubPeer) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]string, len(s.received))
	for i, m := range s.received {
		res[i] = strings.Fields(m)[0]
	}
	return res
}

func (s *stubPeer) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]string, len(s.received))
	copy(res, s.received)
	return res
}

// newTestGraph creates a graph named "main" connected to the stubs. Extra
// peer names are listed in the peer set without a route, so they are
// unreachable.
func newTestGraph(t *testing.T, stubs []*stubPeer, unreachable ...string) *Graph {
	addr, trans := net.NewInmemTransport("")

	ps := []*peers.Peer{peers.NewPeer("main", addr)}
	for _, s := range stubs {
		ps = append(ps, peers.NewPeer(s.name, s.addr))
		trans.Connect(s.addr, s.trans)
	}
	for _, name := range unreachable {
		ps = append(ps, peers.NewPeer(name, net.NewInmemAddr()))
	}

	g, err := NewGraph(TestConfig(t, "main"), peers.NewPeerSet(ps), trans)
	require.NoError(t, err)
	t.Cleanup(g.Close)

	return g
}

func included() event.Marking {
	return event.Marking{Included: true}
}

func addLocal(t *testing.T, g *Graph, names ...string) {
	for _, n := range names {
		_, err := g.AddLocalEvent(n, "label_"+n, included())
		require.NoError(t, err)
	}
}

func relate(t *testing.T, g *Graph, from, to string, kind event.RelationKind) {
	require.NoError(t, g.AddRelation(from, to, kind))
}

func marking(t *testing.T, g *Graph, name string) event.Marking {
	e, err := g.Event(name)
	require.NoError(t, err)
	return e.Marking()
}
