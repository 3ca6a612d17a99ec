package node

import (
	"time"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/graph"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/sirupsen/logrus"
)

func (n *Node) processRPC(rpc net.RPC) {
	n.requests.Add(1)

	reply := n.dispatch(rpc.Role, rpc.Message)

	rpc.Respond(reply)
}

// dispatch turns one request into its reply. A panic in a handler is
// answered like a malformed request.
func (n *Node) dispatch(role net.Role, msg string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithFields(logrus.Fields{
				"role":  role,
				"msg":   msg,
				"panic": r,
			}).Error("Handler panicked")
			reply = malformedReply(role)
		}
		if reply == net.ReplyUnavailable || reply == net.ReplyUnknownCommand {
			n.failures.Add(1)
		}
	}()

	req, err := net.ParseRequest(msg)
	if err != nil {
		n.logger.WithField("msg", msg).Debug("Empty request")
		return malformedReply(role)
	}

	n.logger.WithFields(logrus.Fields{
		"role":    role,
		"command": req.Command,
		"args":    req.Args,
	}).Debug("process request")

	switch role {
	case net.RoleMain:
		return n.processPeerRequest(req)
	case net.RoleNode:
		return n.processClientRequest(req)
	default:
		return net.ReplyUnknownCommand
	}
}

func malformedReply(role net.Role) string {
	if role == net.RoleMain {
		return net.ReplyUnavailable
	}
	return net.ReplyUnknownCommand
}

/*******************************************************************************
Main-node requests
*******************************************************************************/

func (n *Node) processPeerRequest(req net.Request) string {
	if len(req.Args) == 0 {
		return net.ReplyUnavailable
	}

	id, err := event.ParseExecutionID(req.Args[0])
	if err != nil {
		n.logger.WithField("id", req.Args[0]).Debug("Bad execution id")
		return net.ReplyUnavailable
	}

	switch req.Command {
	case net.CmdBlock:
		return n.processBlock(id, req)
	case net.CmdExecute:
		return successOrUnavailable(n.graph.ExecuteForeign(id))
	case net.CmdRevert:
		n.graph.RevertForeign(id)
		return net.ReplySuccess
	case net.CmdUnblock:
		n.graph.UnblockForeign(id)
		return net.ReplySuccess
	case net.CmdAccepting:
		return n.processAccepting(id, req.Seen())
	case net.CmdLog:
		return n.processLog(id, req.Seen())
	default:
		return net.ReplyUnavailable
	}
}

func (n *Node) processBlock(id event.ExecutionID, req net.Request) string {
	if len(req.Args) != 2 {
		return net.ReplyUnavailable
	}

	t, err := time.Parse(net.TimeFormat, req.Args[1])
	if err != nil {
		n.logger.WithField("time", req.Args[1]).Debug("Bad BLOCK time")
		return net.ReplyUnavailable
	}

	lines := make([]net.EffectLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		el, err := net.ParseEffectLine(l)
		if err != nil {
			n.logger.WithError(err).Debug("Bad BLOCK line")
			return net.ReplyUnavailable
		}
		lines = append(lines, el)
	}

	return successOrUnavailable(n.graph.BlockForeign(id, t, lines))
}

func (n *Node) processAccepting(id event.ExecutionID, seen []string) string {
	accepting, err := n.graph.Accepting(id, seen)
	switch {
	case common.IsProtocol(err, common.IgnoredQuery):
		return net.ReplyAcceptingIgnore
	case err != nil:
		return net.ReplyUnavailable
	}
	return boolReply(accepting)
}

func (n *Node) processLog(id event.ExecutionID, seen []string) string {
	entries, err := n.graph.CollectLog(id, seen)
	switch {
	case common.IsProtocol(err, common.IgnoredQuery):
		return net.ReplyLogIgnore
	case err != nil:
		return net.ReplyUnavailable
	}
	return graph.FormatLog(entries)
}

/*******************************************************************************
End-user node requests
*******************************************************************************/

func (n *Node) processClientRequest(req net.Request) string {
	switch req.Command {
	case net.CmdExecute:
		if len(req.Args) != 1 {
			return net.ReplyUnknownCommand
		}
		return eventReply(n.graph.Execute(req.Args[0]))
	case net.CmdAccepting:
		return boolReply(n.graph.StartAccepting())
	case net.CmdLog:
		return graph.FormatLog(n.graph.StartLog())
	case net.CmdPermissions:
		return formatPermissions(n.graph.Events())
	case net.CmdMarking:
		if len(req.Args) != 1 {
			return net.ReplyUnknownCommand
		}
		e, err := n.graph.Event(req.Args[0])
		if err != nil {
			return eventReply(err)
		}
		return e.Marking().String()
	case net.CmdAllMarkings:
		return formatMarkings(n.graph.Events())
	default:
		return net.ReplyUnknownCommand
	}
}

// eventReply maps the outcome of an operation on a named event to the reply
// an end-user node expects.
func eventReply(err error) string {
	switch {
	case err == nil:
		return net.ReplySuccess
	case common.IsProtocol(err, common.UnknownEvent):
		return net.ReplyEventInvalid
	case common.IsProtocol(err, common.RemoteEvent):
		return net.ReplyInvalidPermission
	default:
		return net.ReplyUnavailable
	}
}

func successOrUnavailable(err error) string {
	if err != nil {
		return net.ReplyUnavailable
	}
	return net.ReplySuccess
}

func boolReply(b bool) string {
	if b {
		return net.ReplyTrue
	}
	return net.ReplyFalse
}
