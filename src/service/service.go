package service

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/mosaicnetworks/dcr/src/node"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Service is the read-only HTTP API of a main node.
type Service struct {
	sync.Mutex

	bindAddress string
	node        *node.Node
	graph       *graph.Graph
	mux         *http.ServeMux
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, n *node.Node, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		graph:       n.Graph(),
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering DCR API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/markings", s.makeHandler(s.GetMarkings))
	s.mux.HandleFunc("/marking/", s.makeHandler(s.GetMarking))
	s.mux.HandleFunc("/log", s.makeHandler(s.GetLog))
	s.mux.HandleFunc("/peers", s.makeHandler(s.GetPeers))
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.graph.Registry(), promhttp.HandlerOpts{}))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the HTTP handler serving the API.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving DCR API")

	err := http.ListenAndServe(s.bindAddress, s.mux)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.node.GetStats())
}

// Marking is the JSON view of an event marking.
type Marking struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Included  bool   `json:"included"`
	Pending   bool   `json:"pending"`
	Executed  bool   `json:"executed"`
	Condition int    `json:"condition"`
	Milestone int    `json:"milestone"`
	Enabled   bool   `json:"enabled"`
}

func newMarking(e *event.LocalEvent) Marking {
	m := e.Marking()
	return Marking{
		Name:      e.Name(),
		Label:     e.Label(),
		Included:  m.Included,
		Pending:   m.Pending,
		Executed:  m.Executed,
		Condition: m.Condition,
		Milestone: m.Milestone,
		Enabled:   m.Enabled(),
	}
}

// GetMarkings lists the markings of the local events.
func (s *Service) GetMarkings(w http.ResponseWriter, r *http.Request) {
	events := s.graph.Events()

	res := make([]Marking, len(events))
	for i, e := range events {
		res[i] = newMarking(e)
	}

	writeJSON(w, res)
}

// GetMarking returns the marking of the local event named in the path.
func (s *Service) GetMarking(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path[len("/marking/"):]

	e, err := s.graph.Event(name)
	if err != nil {
		s.logger.WithError(err).Debugf("Retrieving marking %s", name)

		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	writeJSON(w, newMarking(e))
}

// LogEntry is the JSON view of an execution log entry.
type LogEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// GetLog returns the executions committed by this node, or by every
// reachable main node with ?scope=network.
func (s *Service) GetLog(w http.ResponseWriter, r *http.Request) {
	var entries []graph.LogEntry
	if r.URL.Query().Get("scope") == "network" {
		entries = s.graph.StartLog()
	} else {
		entries = s.graph.Log()
	}

	res := make([]LogEntry, len(entries))
	for i, e := range entries {
		res[i] = LogEntry{
			Time:  e.Time.UTC().Format(net.TimeFormat),
			Event: e.Event,
		}
	}

	writeJSON(w, res)
}

// GetPeers ...
func (s *Service) GetPeers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.graph.Peers().Peers)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(v)
}
