package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/node"
	"github.com/mosaicnetworks/dcr/src/peers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *graph.Graph) {
	addr, trans := net.NewInmemTransport("")
	ps := peers.NewPeerSet([]*peers.Peer{peers.NewPeer("alice", addr)})

	g, err := graph.NewGraph(graph.TestConfig(t, "alice"), ps, trans)
	require.NoError(t, err)

	_, err = g.AddLocalEvent("a", "Approve", event.Marking{Included: true})
	require.NoError(t, err)
	_, err = g.AddLocalEvent("b", "Book", event.Marking{Included: true})
	require.NoError(t, err)
	require.NoError(t, g.AddRelation("a", "b", event.Condition))

	n := node.NewNode(g, trans, common.NewTestEntry(t, common.TestLogLevel))
	t.Cleanup(n.Shutdown)

	return NewService("", n, common.NewTestEntry(t, common.TestLogLevel)), g
}

func get(t *testing.T, s *Service, path string) (int, string) {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	return rec.Code, string(body)
}

func TestMarkings(t *testing.T) {
	s, _ := newTestService(t)

	code, body := get(t, s, "/markings")
	require.Equal(t, http.StatusOK, code)

	var markings []Marking
	require.NoError(t, json.Unmarshal([]byte(body), &markings))
	require.Len(t, markings, 2)
	assert.Equal(t, "a", markings[0].Name)
	assert.Equal(t, 1, markings[1].Condition)
	assert.False(t, markings[1].Enabled)

	code, body = get(t, s, "/marking/a")
	require.Equal(t, http.StatusOK, code)

	var m Marking
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	assert.Equal(t, "Approve", m.Label)
	assert.True(t, m.Enabled)

	code, _ = get(t, s, "/marking/zz")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLogAndMetrics(t *testing.T) {
	s, g := newTestService(t)

	require.NoError(t, g.Execute("a"))

	code, body := get(t, s, "/log")
	require.Equal(t, http.StatusOK, code)

	var entries []LogEntry
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Event)

	code, body = get(t, s, "/log?scope=network")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	assert.Len(t, entries, 1)

	code, body = get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, `dcr_executions_total{outcome="success"} 1`), body)
	assert.True(t, strings.Contains(body, "dcr_reserved_events 0"), body)
}

func TestStatsAndPeers(t *testing.T) {
	s, _ := newTestService(t)

	code, body := get(t, s, "/stats")
	require.Equal(t, http.StatusOK, code)

	var stats map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, "alice", stats["name"])
	assert.Equal(t, "2", stats["local_events"])

	code, body = get(t, s, "/peers")
	require.Equal(t, http.StatusOK, code)

	var ps []peers.Peer
	require.NoError(t, json.Unmarshal([]byte(body), &ps))
	require.Len(t, ps, 1)
	assert.Equal(t, "alice", ps[0].Name)
}
