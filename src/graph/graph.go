package graph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/algorand/go-deadlock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/peers"
	"github.com/sirupsen/logrus"
)

// Graph owns the events of this main node and runs the distributed
// block/execute/revert protocol against the other main nodes.
//
// The event table is filled before the node starts serving and is read-only
// afterwards. Markings and reservations are guarded by the per-event locks;
// no lock is held across a network call.
type Graph struct {
	conf   *Config
	logger *logrus.Entry

	eventsLock     deadlock.RWMutex
	events         map[string]*event.LocalEvent
	remote         map[string]event.RemoteEventRef
	remoteInitial  map[string]event.Marking
	remoteRelation map[string]bool

	foreignLock   deadlock.Mutex
	eventsForeign map[event.ExecutionID][]*event.ForeignEvent

	blockedLock deadlock.Mutex
	blocked     map[event.ExecutionID][]*event.LocalEvent

	seenAcceptingIds *lru.Cache[event.ExecutionID, struct{}]
	seenLogIds       *lru.Cache[event.ExecutionID, struct{}]

	log *executionLog

	peers *peers.PeerSet
	trans net.Transport

	metrics *metrics

	retries      sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewGraph creates an empty graph. Events and relations are added with
// AddLocalEvent, AddRemoteEvent and AddRelation before the node starts
// serving.
func NewGraph(conf *Config, peerSet *peers.PeerSet, trans net.Transport) (*Graph, error) {
	seenAccepting, err := lru.New[event.ExecutionID, struct{}](conf.DedupCacheSize)
	if err != nil {
		return nil, err
	}

	seenLog, err := lru.New[event.ExecutionID, struct{}](conf.DedupCacheSize)
	if err != nil {
		return nil, err
	}

	if peerSet == nil {
		peerSet = peers.NewPeerSet(nil)
	}

	logger := conf.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}

	return &Graph{
		conf:             conf,
		logger:           logger,
		events:           make(map[string]*event.LocalEvent),
		remote:           make(map[string]event.RemoteEventRef),
		remoteInitial:    make(map[string]event.Marking),
		remoteRelation:   make(map[string]bool),
		eventsForeign:    make(map[event.ExecutionID][]*event.ForeignEvent),
		blocked:          make(map[event.ExecutionID][]*event.LocalEvent),
		seenAcceptingIds: seenAccepting,
		seenLogIds:       seenLog,
		log:              newExecutionLog(),
		peers:            peerSet,
		trans:            trans,
		metrics:          newMetrics(),
		shutdownCh:       make(chan struct{}),
	}, nil
}

// Name returns the name of this main node.
func (g *Graph) Name() string {
	return g.conf.Name
}

// Peers returns the peer set.
func (g *Graph) Peers() *peers.PeerSet {
	return g.peers
}

/*******************************************************************************
Construction
*******************************************************************************/

// AddLocalEvent registers an event owned by this main node.
func (g *Graph) AddLocalEvent(name, label string, initial event.Marking) (*event.LocalEvent, error) {
	g.eventsLock.Lock()
	defer g.eventsLock.Unlock()

	if g.exists(name) {
		return nil, fmt.Errorf("event %q already defined", name)
	}

	e := event.NewLocalEvent(name, label, initial)
	g.events[name] = e

	return e, nil
}

// AddRemoteEvent registers an event owned by another main node. The initial
// marking is only used to count relations from the remote event towards
// local events.
func (g *Graph) AddRemoteEvent(ref event.RemoteEventRef, initial event.Marking) error {
	g.eventsLock.Lock()
	defer g.eventsLock.Unlock()

	if g.exists(ref.Name) {
		return fmt.Errorf("event %q already defined", ref.Name)
	}
	if ref.Peer == g.conf.Name {
		return fmt.Errorf("remote event %q belongs to this node", ref.Name)
	}

	g.remote[ref.Name] = ref
	g.remoteInitial[ref.Name] = initial

	return nil
}

func (g *Graph) exists(name string) bool {
	_, local := g.events[name]
	_, remote := g.remote[name]
	return local || remote
}

// AddRelation creates the relation from -> to. Relations between local events
// are recorded on the source and update the target's counters. Relations
// towards remote events become external relations of the source. Relations
// from a remote event only matter here when they point at a local event and
// are a Condition or a Milestone, in which case the target's counter accounts
// for the remote source's initial marking.
func (g *Graph) AddRelation(from, to string, kind event.RelationKind) error {
	g.eventsLock.Lock()
	defer g.eventsLock.Unlock()

	src, srcLocal := g.events[from]
	dst, dstLocal := g.events[to]
	srcRef, srcRemote := g.remote[from]
	dstRef, dstRemote := g.remote[to]

	switch {
	case !srcLocal && !srcRemote:
		return common.NewProtocolErr(common.UnknownEvent, from)
	case !dstLocal && !dstRemote:
		return common.NewProtocolErr(common.UnknownEvent, to)
	case srcLocal && dstLocal:
		if src.Relations.Add(kind, dst) {
			countRelation(src.Marking(), dst, kind)
		}
	case srcLocal && dstRemote:
		src.External.Add(kind, dstRef)
	case srcRemote && dstLocal:
		key := fmt.Sprintf("%s|%s|%s", from, to, kind)
		if !g.remoteRelation[key] {
			g.remoteRelation[key] = true
			countRelation(g.remoteInitial[srcRef.Name], dst, kind)
		}
	default:
		return fmt.Errorf("relation %s -> %s involves no local event", from, to)
	}

	return nil
}

// countRelation applies the creation-time rule of Condition and Milestone
// relations.
func countRelation(src event.Marking, dst *event.LocalEvent, kind event.RelationKind) {
	switch kind {
	case event.Condition:
		if src.Included && !src.Executed {
			dst.Update(func(m *event.Marking) { m.Condition++ })
		}
	case event.Milestone:
		if src.Included && src.Pending {
			dst.Update(func(m *event.Marking) { m.Milestone++ })
		}
	}
}

/*******************************************************************************
Lookups
*******************************************************************************/

// Event returns the local event called name. Names of remote events yield a
// RemoteEvent error, unknown names an UnknownEvent error.
func (g *Graph) Event(name string) (*event.LocalEvent, error) {
	g.eventsLock.RLock()
	defer g.eventsLock.RUnlock()

	if e, ok := g.events[name]; ok {
		return e, nil
	}
	if _, ok := g.remote[name]; ok {
		return nil, common.NewProtocolErr(common.RemoteEvent, name)
	}
	return nil, common.NewProtocolErr(common.UnknownEvent, name)
}

// Events returns the local events sorted by name.
func (g *Graph) Events() []*event.LocalEvent {
	g.eventsLock.RLock()
	defer g.eventsLock.RUnlock()

	res := make([]*event.LocalEvent, 0, len(g.events))
	for _, e := range g.events {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})
	return res
}

// Markings returns the current marking of every local event.
func (g *Graph) Markings() map[string]event.Marking {
	res := make(map[string]event.Marking)
	for _, e := range g.Events() {
		res[e.Name()] = e.Marking()
	}
	return res
}

// IsAccepting reports whether no included local event is pending.
func (g *Graph) IsAccepting() bool {
	for _, e := range g.Events() {
		m := e.Marking()
		if m.Included && m.Pending {
			return false
		}
	}
	return true
}
