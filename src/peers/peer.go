package peers

// Peer is a main node participating in the distributed graph.
type Peer struct {
	Name    string
	NetAddr string
}

// NewPeer ...
func NewPeer(name, netAddr string) *Peer {
	return &Peer{
		Name:    name,
		NetAddr: netAddr,
	}
}

// ExcludePeer is used to exclude a single peer from a list of peers.
func ExcludePeer(peers []*Peer, name string) (int, []*Peer) {
	index := -1
	otherPeers := make([]*Peer, 0, len(peers))
	for i, p := range peers {
		if p.Name != name {
			otherPeers = append(otherPeers, p)
		} else {
			index = i
		}
	}
	return index, otherPeers
}
