package node

import (
	"sync"
	"sync/atomic"
)

// State captures the state of a main node: Serving or Shutdown.
type State uint32

const (
	// Serving is the state of a node answering requests.
	Serving State = iota
	// Shutdown is shutdown
	Shutdown
)

// String ...
func (s State) String() string {
	switch s {
	case Serving:
		return "Serving"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

type state struct {
	state   State
	wg      sync.WaitGroup
	wgCount int32
}

func (b *state) getState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

func (b *state) setState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}

// Start a goroutine and add it to waitgroup. Handlers are never dropped: a
// request may wait on requests that come back to this node.
func (b *state) goFunc(f func()) {
	b.wg.Add(1)
	atomic.AddInt32(&b.wgCount, 1)
	go func() {
		defer b.wg.Done()
		defer atomic.AddInt32(&b.wgCount, -1)
		f()
	}()
}

func (b *state) activeRoutines() int32 {
	return atomic.LoadInt32(&b.wgCount)
}

func (b *state) waitRoutines() {
	b.wg.Wait()
}
