// Package node implements the request dispatcher of a main node.
//
// A Node consumes the requests delivered by its transport and runs each one
// in its own goroutine against the local graph. Requests carry a role:
//
//	M  another main node, taking part in the distributed protocol
//	   (BLOCK, EXECUTE, REVERT, UNBLOCK, ACCEPTING, LOG)
//	N  an end-user node, asking to execute an event or reading state
//	   (EXECUTE, ACCEPTING, LOG, PERMISSIONS, MARKING, ALLMARKINGS)
//
// Every request gets exactly one text reply. Failures are turned into
// replies; a malformed request from a main node is answered UNAVAILABLE, one
// from an end-user node UNKNOWN COMMAND.
package node
