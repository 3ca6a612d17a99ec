package node

import (
	"sort"
	"testing"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/definition"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/peers"
	"github.com/stretchr/testify/require"
)

// testNetwork runs one Node per main node over in-memory transports, plus a
// client transport connected to all of them.
type testNetwork struct {
	nodes  map[string]*Node
	trans  map[string]*net.InmemTransport
	addrs  map[string]string
	client *net.InmemTransport
}

func newTestNetwork(t *testing.T, def string, names ...string) *testNetwork {
	d, err := definition.Parse([]byte(def))
	require.NoError(t, err)

	tn := &testNetwork{
		nodes: make(map[string]*Node),
		trans: make(map[string]*net.InmemTransport),
		addrs: make(map[string]string),
	}

	var list []*peers.Peer
	for _, name := range names {
		addr, trans := net.NewInmemTransport("")
		tn.trans[name] = trans
		tn.addrs[name] = addr
		list = append(list, peers.NewPeer(name, addr))
	}
	ps := peers.NewPeerSet(list)
	require.NoError(t, d.CheckPeers(ps))

	for _, a := range names {
		for _, b := range names {
			if a != b {
				tn.trans[a].Connect(tn.addrs[b], tn.trans[b])
			}
		}
	}

	_, tn.client = net.NewInmemTransport("")
	for _, name := range names {
		tn.client.Connect(tn.addrs[name], tn.trans[name])
	}

	for _, name := range names {
		g, err := graph.NewGraph(graph.TestConfig(t, name), ps, tn.trans[name])
		require.NoError(t, err)
		require.NoError(t, d.Apply(g))

		n := NewNode(g, tn.trans[name], common.NewTestEntry(t, common.TestLogLevel))
		n.RunAsync()
		t.Cleanup(n.Shutdown)

		tn.nodes[name] = n
	}

	return tn
}

// request sends msg to the named main node as an end-user node.
func (tn *testNetwork) request(t *testing.T, name, msg string) string {
	reply, err := tn.client.Send(tn.addrs[name], net.RoleNode, msg, true)
	require.NoError(t, err)
	return reply
}

// peerRequest sends msg to the named main node as another main node.
func (tn *testNetwork) peerRequest(t *testing.T, name, msg string) string {
	reply, err := tn.client.Send(tn.addrs[name], net.RoleMain, msg, false)
	require.NoError(t, err)
	return reply
}

func (tn *testNetwork) marking(t *testing.T, name string) event.Marking {
	for _, n := range tn.nodes {
		if e, err := n.Graph().Event(name); err == nil {
			return e.Marking()
		}
	}
	t.Fatalf("no node owns %s", name)
	return event.Marking{}
}

// blocked returns the events still reserved anywhere in the network.
func (tn *testNetwork) blocked() []string {
	var res []string
	for _, n := range tn.nodes {
		for _, e := range n.Graph().Events() {
			if _, ok := e.BlockedBy(); ok {
				res = append(res, e.Name())
			}
		}
	}
	sort.Strings(res)
	return res
}

// waitRetries waits for the background retries of every node.
func (tn *testNetwork) waitRetries() {
	for _, n := range tn.nodes {
		n.Graph().WaitRetries()
	}
}
