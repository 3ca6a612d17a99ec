package event

// RemoteEventRef identifies an event owned by another main node. It carries
// no live state.
type RemoteEventRef struct {
	Name  string
	Label string
	Peer  string
}
