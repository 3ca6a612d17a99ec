package peers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	jsonPeerSetPath = "peers.json"
)

// JSONPeerSet is used to provide peer persistence on disk in the form of a JSON
// file.
type JSONPeerSet struct {
	l    sync.Mutex
	path string
}

// NewJSONPeerSet creates a new JSONPeerSet with reference to a base directory
// where the JSON file resides.
func NewJSONPeerSet(base string) *JSONPeerSet {
	store := &JSONPeerSet{
		path: filepath.Join(base, jsonPeerSetPath),
	}
	return store
}

// PeerSet parses the underlying JSON file and returns the corresponding
// PeerSet.
func (j *JSONPeerSet) PeerSet() (*PeerSet, error) {
	j.l.Lock()
	defer j.l.Unlock()

	// Read the file
	buf, err := os.ReadFile(j.path)
	if err != nil {
		return nil, err
	}

	// Check for no peers
	if len(buf) == 0 {
		return nil, nil
	}

	// Decode the peers
	var peers []*Peer
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&peers); err != nil {
		return nil, err
	}

	if err := cleansePeerSet(peers); err != nil {
		return nil, err
	}

	return NewPeerSet(peers), nil
}

// cleansePeerSet trims names and addresses and rejects unnamed or duplicate
// peers, since names are how remote events find their owner.
func cleansePeerSet(peers []*Peer) error {
	seen := make(map[string]bool)
	for _, peer := range peers {
		peer.Name = strings.TrimSpace(peer.Name)
		peer.NetAddr = strings.TrimSpace(peer.NetAddr)
		if peer.Name == "" {
			return fmt.Errorf("peer with address %q has no name", peer.NetAddr)
		}
		if seen[peer.Name] {
			return fmt.Errorf("duplicate peer name %q", peer.Name)
		}
		seen[peer.Name] = true
	}
	return nil
}

// Write persists a PeerSet to a JSON file.
func (j *JSONPeerSet) Write(peers []*Peer) error {
	j.l.Lock()
	defer j.l.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(peers); err != nil {
		return err
	}

	// Write out as JSON
	return os.WriteFile(j.path, buf.Bytes(), 0644)
}
