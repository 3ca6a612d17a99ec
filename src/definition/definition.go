// Package definition loads the description of a distributed DCR graph from a
// YAML file. The same file is given to every main node; each node keeps the
// events it owns and the relations that involve them.
//
//	events:
//	  - name: approve
//	    label: Approve request
//	    peer: alice
//	    pending: true
//	  - name: pay
//	    label: Pay invoice
//	    peer: bob
//	relations:
//	  - from: approve
//	    to: pay
//	    kind: condition
//
// Events are included unless included is set to false. Event and peer names
// travel as single words on the wire and cannot contain whitespace.
package definition

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/peers"
	"gopkg.in/yaml.v3"
)

// Event describes one event and the main node owning it.
type Event struct {
	Name     string `yaml:"name"`
	Label    string `yaml:"label"`
	Peer     string `yaml:"peer"`
	Included *bool  `yaml:"included,omitempty"`
	Pending  bool   `yaml:"pending,omitempty"`
	Executed bool   `yaml:"executed,omitempty"`
}

// Marking returns the initial marking of the event. Counters are derived
// from the relations when the definition is applied.
func (e Event) Marking() event.Marking {
	included := true
	if e.Included != nil {
		included = *e.Included
	}
	return event.Marking{
		Included: included,
		Pending:  e.Pending,
		Executed: e.Executed,
	}
}

// Relation is a relation between two events.
type Relation struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Kind string `yaml:"kind"`
}

// Definition is the whole distributed graph.
type Definition struct {
	Events    []Event    `yaml:"events"`
	Relations []Relation `yaml:"relations"`
}

// Load reads and validates the definition file at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing graph definition: %v", err)
	}

	if err := def.validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

func (d *Definition) validate() error {
	names := make(map[string]bool, len(d.Events))
	for i, e := range d.Events {
		switch {
		case e.Name == "":
			return fmt.Errorf("event %d has no name", i)
		case strings.ContainsFunc(e.Name, unicode.IsSpace):
			return fmt.Errorf("event %q: name contains whitespace", e.Name)
		case e.Peer == "":
			return fmt.Errorf("event %q has no peer", e.Name)
		case strings.ContainsFunc(e.Peer, unicode.IsSpace):
			return fmt.Errorf("event %q: peer %q contains whitespace", e.Name, e.Peer)
		case names[e.Name]:
			return fmt.Errorf("event %q defined twice", e.Name)
		}
		names[e.Name] = true
	}

	for _, r := range d.Relations {
		if !names[r.From] {
			return fmt.Errorf("relation from unknown event %q", r.From)
		}
		if !names[r.To] {
			return fmt.Errorf("relation to unknown event %q", r.To)
		}
		if _, err := event.ParseRelationKind(r.Kind); err != nil {
			return err
		}
	}

	return nil
}

// CheckPeers verifies that every event is owned by a member of the peer set.
func (d *Definition) CheckPeers(ps *peers.PeerSet) error {
	for _, e := range d.Events {
		if _, ok := ps.ByName[e.Peer]; !ok {
			return fmt.Errorf("event %q owned by unknown peer %q", e.Name, e.Peer)
		}
	}
	return nil
}

// Apply adds to g the events owned by g's main node, every other event as a
// remote event, and the relations with at least one local end.
func (d *Definition) Apply(g *graph.Graph) error {
	owner := make(map[string]string, len(d.Events))

	for _, e := range d.Events {
		owner[e.Name] = e.Peer

		if e.Peer == g.Name() {
			if _, err := g.AddLocalEvent(e.Name, e.Label, e.Marking()); err != nil {
				return err
			}
			continue
		}

		ref := event.RemoteEventRef{Name: e.Name, Label: e.Label, Peer: e.Peer}
		if err := g.AddRemoteEvent(ref, e.Marking()); err != nil {
			return err
		}
	}

	for _, r := range d.Relations {
		if owner[r.From] != g.Name() && owner[r.To] != g.Name() {
			continue
		}

		kind, err := event.ParseRelationKind(r.Kind)
		if err != nil {
			return err
		}

		if err := g.AddRelation(r.From, r.To, kind); err != nil {
			return err
		}
	}

	return nil
}
