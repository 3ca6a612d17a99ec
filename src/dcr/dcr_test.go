package dcr

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/config"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/peers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphYAML = `
events:
  - {name: a, label: Approve, peer: alice}
  - {name: b, label: Book, peer: bob}
relations:
  - {from: a, to: b, kind: condition}
  - {from: a, to: b, kind: response}
`

func writeDataDir(t *testing.T, ps []*peers.Peer) string {
	dir := t.TempDir()

	require.NoError(t, peers.NewJSONPeerSet(dir).Write(ps))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultGraphFile), []byte(graphYAML), 0600))

	return dir
}

func newTestEngine(t *testing.T, dir, name, addr string) *DCR {
	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.DataDir = dir
	conf.Name = name
	conf.BindAddr = addr
	conf.NoService = true
	conf.RetryInterval = 10 * time.Millisecond

	engine := NewDCR(conf)
	require.NoError(t, engine.Init())

	engine.RunAsync()
	t.Cleanup(engine.Shutdown)

	return engine
}

func TestTwoEnginesOverTCP(t *testing.T) {
	ps := []*peers.Peer{
		peers.NewPeer("alice", "127.0.0.1:19731"),
		peers.NewPeer("bob", "127.0.0.1:19732"),
	}
	dir := writeDataDir(t, ps)

	alice := newTestEngine(t, dir, "alice", ps[0].NetAddr)
	bob := newTestEngine(t, dir, "bob", ps[1].NetAddr)

	client := net.NewTCPClient(time.Second, common.NewTestEntry(t, common.TestLogLevel))
	defer client.Close()

	send := func(addr, msg string) string {
		reply, err := client.Send(addr, net.RoleNode, msg, true)
		require.NoError(t, err)
		return reply
	}

	assert.Equal(t, net.ReplyUnavailable, send(ps[1].NetAddr, "EXECUTE b"))
	assert.Equal(t, net.ReplySuccess, send(ps[0].NetAddr, "EXECUTE a"))
	assert.Equal(t, net.ReplyFalse, send(ps[0].NetAddr, "ACCEPTING"))
	assert.Equal(t, net.ReplySuccess, send(ps[1].NetAddr, "EXECUTE b"))
	assert.Equal(t, net.ReplyTrue, send(ps[1].NetAddr, "ACCEPTING"))

	b, err := bob.Graph.Event("b")
	require.NoError(t, err)
	assert.True(t, b.Marking().Executed)
	assert.Len(t, alice.Graph.Log(), 1)
}

func TestInitErrors(t *testing.T) {
	ps := []*peers.Peer{peers.NewPeer("alice", "127.0.0.1:19741")}
	dir := writeDataDir(t, ps)

	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.DataDir = dir
	conf.Name = "carol"
	assert.Error(t, NewDCR(conf).Init())

	// bob owns b but is not in peers.json.
	conf.Name = "alice"
	conf.BindAddr = ps[0].NetAddr
	assert.Error(t, NewDCR(conf).Init())

	conf.DataDir = t.TempDir()
	assert.Error(t, NewDCR(conf).Init())
}
