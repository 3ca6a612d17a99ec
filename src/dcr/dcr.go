// Package dcr wires the components of a main node together: peers, graph
// definition, transport, graph, dispatcher and HTTP service.
package dcr

import (
	"fmt"

	"github.com/mosaicnetworks/dcr/src/config"
	"github.com/mosaicnetworks/dcr/src/definition"
	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/node"
	"github.com/mosaicnetworks/dcr/src/peers"
	"github.com/mosaicnetworks/dcr/src/service"
	"github.com/sirupsen/logrus"
)

// DCR is a main node and everything it needs to run.
type DCR struct {
	Config     *config.Config
	Peers      *peers.PeerSet
	Definition *definition.Definition
	Transport  net.Transport
	Graph      *graph.Graph
	Node       *node.Node
	Service    *service.Service

	logger *logrus.Entry
}

// NewDCR ...
func NewDCR(c *config.Config) *DCR {
	engine := &DCR{
		Config: c,
		logger: c.Logger(),
	}

	return engine
}

func (d *DCR) initPeers() error {
	if d.Peers != nil {
		return nil
	}

	peerSet, err := peers.NewJSONPeerSet(d.Config.DataDir).PeerSet()
	if err != nil {
		return err
	}

	if peerSet == nil || peerSet.Len() == 0 {
		return fmt.Errorf("peers.json should define at least one peer")
	}

	if _, ok := peerSet.ByName[d.Config.Name]; !ok {
		return fmt.Errorf("cannot find %q in peers.json", d.Config.Name)
	}

	d.Peers = peerSet

	return nil
}

func (d *DCR) initDefinition() error {
	if d.Definition == nil {
		d.logger.WithField("path", d.Config.GraphPath()).Debug("Loading graph definition")

		def, err := definition.Load(d.Config.GraphPath())
		if err != nil {
			return err
		}

		d.Definition = def
	}

	return d.Definition.CheckPeers(d.Peers)
}

func (d *DCR) initTransport() error {
	if d.Transport != nil {
		return nil
	}

	transport, err := net.NewTCPTransport(
		d.Config.BindAddr,
		d.Config.AdvertiseAddr,
		d.Config.MaxPool,
		d.Config.TCPTimeout,
		d.logger,
	)
	if err != nil {
		return err
	}

	d.Transport = transport

	return nil
}

func (d *DCR) initGraph() error {
	conf := graph.NewConfig(
		d.Config.Name,
		d.Config.MaxConnectionAttempts,
		d.Config.RetryInterval,
		d.Config.DedupCacheSize,
		d.logger,
	)

	g, err := graph.NewGraph(conf, d.Peers, d.Transport)
	if err != nil {
		return err
	}

	if err := d.Definition.Apply(g); err != nil {
		return fmt.Errorf("applying graph definition: %v", err)
	}

	d.logger.WithFields(logrus.Fields{
		"name":         d.Config.Name,
		"local_events": len(g.Events()),
		"peers":        d.Peers.Names(),
	}).Debug("GRAPH")

	d.Graph = g

	return nil
}

func (d *DCR) initNode() error {
	d.Node = node.NewNode(d.Graph, d.Transport, d.logger)
	return nil
}

func (d *DCR) initService() error {
	if !d.Config.NoService {
		d.Service = service.NewService(d.Config.ServiceAddr, d.Node, d.logger)
	}
	return nil
}

// Init loads the peers and the graph definition, opens the transport and
// builds the node.
func (d *DCR) Init() error {
	if err := d.initPeers(); err != nil {
		return err
	}

	if err := d.initDefinition(); err != nil {
		return err
	}

	if err := d.initTransport(); err != nil {
		return err
	}

	if err := d.initGraph(); err != nil {
		return err
	}

	if err := d.initNode(); err != nil {
		return err
	}

	if err := d.initService(); err != nil {
		return err
	}

	return nil
}

// Run starts serving. This is a blocking call.
func (d *DCR) Run() {
	if d.Service != nil {
		go d.Service.Serve()
	}

	go d.Transport.Listen()

	d.Node.Run()
}

// RunAsync calls Run in a separate goroutine.
func (d *DCR) RunAsync() {
	go d.Run()
}

// Shutdown stops the node and closes the transport.
func (d *DCR) Shutdown() {
	if d.Node != nil {
		d.Node.Shutdown()
	}
}
