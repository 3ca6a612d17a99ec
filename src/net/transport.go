package net

// Transport provides an interface for network transports
// to allow a main node to communicate with other main nodes.
type Transport interface {

	// Starts the transport listening
	Listen()

	// Consumer returns a channel that can be used to
	// consume and respond to RPC requests.
	Consumer() <-chan RPC

	// LocalAddr is used to return our local address
	LocalAddr() string

	// AdvertiseAddr is used to return our advertise address where other peers
	// can reach us
	AdvertiseAddr() string

	// Send delivers msg to target under the given role and waits for the
	// reply. If closeAfter is set, the connection is not reused. Any
	// connection failure or timeout is returned as an error.
	Send(target string, role Role, msg string, closeAfter bool) (string, error)

	// Close permanently closes a transport, stopping
	// any associated goroutines and freeing other resources.
	Close() error
}
