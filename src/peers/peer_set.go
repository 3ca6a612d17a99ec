package peers

import (
	"bytes"
	"encoding/json"
	"sort"
)

//PeerSet is the set of main nodes of a deployment
type PeerSet struct {
	Peers  []*Peer          `json:"peers"`
	ByName map[string]*Peer `json:"-"`
}

/* Constructors */

//NewPeerSet creates a new PeerSet from a list of Peers
func NewPeerSet(peers []*Peer) *PeerSet {
	peerSet := &PeerSet{
		ByName: make(map[string]*Peer),
	}

	for _, peer := range peers {
		peerSet.ByName[peer.Name] = peer
	}

	peerSet.Peers = peers

	return peerSet
}

//NewPeerSetFromPeerSliceBytes creates a new PeerSet from a peerSlice in Bytes format
func NewPeerSetFromPeerSliceBytes(peerSliceBytes []byte) (*PeerSet, error) {
	//Decode Peer slice
	peers := []*Peer{}

	b := bytes.NewBuffer(peerSliceBytes)
	dec := json.NewDecoder(b) //will read from b

	err := dec.Decode(&peers)
	if err != nil {
		return nil, err
	}
	//create new PeerSet
	return NewPeerSet(peers), nil
}

/* ToSlice Methods */

//Names returns the sorted names of the peers in the PeerSet
func (peerSet *PeerSet) Names() []string {
	res := make([]string, 0, len(peerSet.Peers))

	for _, peer := range peerSet.Peers {
		res = append(res, peer.Name)
	}

	sort.Strings(res)

	return res
}

//Others returns the sorted names of every peer except self
func (peerSet *PeerSet) Others(self string) []string {
	res := []string{}

	for _, name := range peerSet.Names() {
		if name != self {
			res = append(res, name)
		}
	}

	return res
}

/* Utilities */

//Len returns the number of Peers in the PeerSet
func (peerSet *PeerSet) Len() int {
	return len(peerSet.ByName)
}

//Addr returns the network address of the named peer
func (peerSet *PeerSet) Addr(name string) (string, bool) {
	p, ok := peerSet.ByName[name]
	if !ok {
		return "", false
	}
	return p.NetAddr, true
}

//Marshal marshals the peerset
func (peerSet *PeerSet) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(peerSet.Peers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
