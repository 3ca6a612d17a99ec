package peers

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestJSONPeerSet(t *testing.T) {
	// Create a test dir
	dir := t.TempDir()

	// Create the store
	store := NewJSONPeerSet(dir)

	// Try a read, should get nothing
	peerSet, err := store.PeerSet()
	if err == nil {
		t.Fatalf("store.PeerSet() should generate an error")
	}
	if peerSet != nil {
		t.Fatalf("peerSet: %v", peerSet)
	}

	peers := []*Peer{}
	for i := 0; i < 3; i++ {
		peers = append(peers, NewPeer(fmt.Sprintf("main%d", i), fmt.Sprintf("addr%d", i)))
	}

	if err := store.Write(peers); err != nil {
		t.Fatalf("err: %v", err)
	}

	// Try a read, should find 3 peers
	peerSet, err = store.PeerSet()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if peerSet.Len() != 3 {
		t.Fatalf("peers: %v", peerSet)
	}

	if !reflect.DeepEqual(peerSet.Peers, peers) {
		t.Fatalf("peers should be %v, not %v", peers, peerSet.Peers)
	}

	addr, ok := peerSet.Addr("main1")
	if !ok || addr != "addr1" {
		t.Fatalf("bad address for main1: %q", addr)
	}

	if others := peerSet.Others("main1"); !reflect.DeepEqual(others, []string{"main0", "main2"}) {
		t.Fatalf("bad others: %v", others)
	}
}

func TestJSONPeerSetRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()

	content := `[{"Name":"main1","NetAddr":"a"},{"Name":"main1","NetAddr":"b"}]`
	if err := os.WriteFile(filepath.Join(dir, jsonPeerSetPath), []byte(content), 0644); err != nil {
		t.Fatalf("err: %v", err)
	}

	if _, err := NewJSONPeerSet(dir).PeerSet(); err == nil {
		t.Fatalf("duplicate names should be rejected")
	}
}

func TestExcludePeer(t *testing.T) {
	peers := []*Peer{NewPeer("a", "1"), NewPeer("b", "2"), NewPeer("c", "3")}

	index, others := ExcludePeer(peers, "b")
	if index != 1 || len(others) != 2 {
		t.Fatalf("bad exclusion: %d %v", index, others)
	}
}
