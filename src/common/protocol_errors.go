package common

import "fmt"

// ProtocolErrType identifies the kind of failure reported by the graph or the
// dispatcher. Every kind maps onto a wire reply, so failures never need to
// cross a component boundary as anything other than a value.
type ProtocolErrType uint32

const (
	// UnknownEvent means the named event does not exist on this main node.
	UnknownEvent ProtocolErrType = iota
	// RemoteEvent means the named event exists but is owned by another main
	// node.
	RemoteEvent
	// EventBlocked means the event is reserved by another execution.
	EventBlocked
	// EventDisabled means the event is not enabled.
	EventDisabled
	// ReservationConflict means a related event could not be reserved.
	ReservationConflict
	// PeerRefused means a peer explicitly refused a request.
	PeerRefused
	// PeerUnavailable means a peer could not be reached or timed out.
	PeerUnavailable
	// UnknownExecution means no foreign event is registered for an id.
	UnknownExecution
	// MalformedMessage means a wire message could not be decoded.
	MalformedMessage
	// IgnoredQuery means an ACCEPTING or LOG query id was already answered.
	IgnoredQuery
)

// ProtocolErr ...
type ProtocolErr struct {
	errType ProtocolErrType
	subject string
}

// NewProtocolErr ...
func NewProtocolErr(errType ProtocolErrType, subject string) ProtocolErr {
	return ProtocolErr{
		errType: errType,
		subject: subject,
	}
}

// Type returns the kind of the error.
func (e ProtocolErr) Type() ProtocolErrType {
	return e.errType
}

// Error ...
func (e ProtocolErr) Error() string {
	m := ""
	switch e.errType {
	case UnknownEvent:
		m = "Unknown Event"
	case RemoteEvent:
		m = "Remote Event"
	case EventBlocked:
		m = "Event Blocked"
	case EventDisabled:
		m = "Event Disabled"
	case ReservationConflict:
		m = "Reservation Conflict"
	case PeerRefused:
		m = "Peer Refused"
	case PeerUnavailable:
		m = "Peer Unavailable"
	case UnknownExecution:
		m = "Unknown Execution"
	case MalformedMessage:
		m = "Malformed Message"
	case IgnoredQuery:
		m = "Ignored Query"
	}

	return fmt.Sprintf("%s, %s", e.subject, m)
}

// IsProtocol checks that an error is of type ProtocolErr and that its code
// matches the provided ProtocolErr code.
func IsProtocol(err error, t ProtocolErrType) bool {
	protoErr, ok := err.(ProtocolErr)
	return ok && protoErr.errType == t
}
