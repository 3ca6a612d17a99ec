package net

// Role is the one-byte prefix identifying who sent a request.
type Role byte

const (
	// RoleUnknown marks a request whose role prefix could not be read.
	RoleUnknown Role = 0
	// RoleMain is a main node peer.
	RoleMain Role = 'M'
	// RoleNode is an end-user node client.
	RoleNode Role = 'N'
)

func (r Role) String() string {
	switch r {
	case RoleMain:
		return "M"
	case RoleNode:
		return "N"
	default:
		return "?"
	}
}

// RPC encapsulates an RPC request and provides a response mechanism.
type RPC struct {
	Role     Role
	Message  string
	RespChan chan<- string
}

// Respond is used to respond with a reply body.
func (r *RPC) Respond(reply string) {
	r.RespChan <- reply
}
