package net

import (
	"fmt"
	"strings"
	"time"
)

// Commands understood by main nodes. BLOCK, REVERT and UNBLOCK only come
// from peers; PERMISSIONS, MARKING and ALLMARKINGS only from clients. EXECUTE,
// ACCEPTING and LOG are used by both, with different arguments.
const (
	CmdBlock       = "BLOCK"
	CmdExecute     = "EXECUTE"
	CmdRevert      = "REVERT"
	CmdUnblock     = "UNBLOCK"
	CmdAccepting   = "ACCEPTING"
	CmdLog         = "LOG"
	CmdPermissions = "PERMISSIONS"
	CmdMarking     = "MARKING"
	CmdAllMarkings = "ALLMARKINGS"
)

// Replies.
const (
	ReplySuccess           = "SUCCESS"
	ReplyUnavailable       = "UNAVAILABLE"
	ReplyTrue              = "TRUE"
	ReplyFalse             = "FALSE"
	ReplyAcceptingIgnore   = "ACCEPTING IGNORE"
	ReplyLogIgnore         = "LOG IGNORE"
	ReplyLogEmpty          = "LOG EMPTY"
	ReplyEventInvalid      = "SPECIFIED EVENT INVALID"
	ReplyInvalidPermission = "INVALID PERMISSION"
	ReplyUnknownCommand    = "UNKNOWN COMMAND"
)

// TimeFormat is the layout of the time field in BLOCK messages and log
// lines.
const TimeFormat = time.RFC3339Nano

// Request is a decoded message: the command word, the remaining words of the
// first line, and every following line.
type Request struct {
	Command string
	Args    []string
	Lines   []string
}

// ParseRequest splits a message body into a Request. Blank trailing lines are
// dropped.
func ParseRequest(msg string) (Request, error) {
	msg = strings.TrimRight(strings.ReplaceAll(msg, "\r\n", "\n"), "\n")
	lines := strings.Split(msg, "\n")

	header := strings.Fields(lines[0])
	if len(header) == 0 {
		return Request{}, fmt.Errorf("empty message")
	}

	return Request{
		Command: strings.ToUpper(header[0]),
		Args:    header[1:],
		Lines:   lines[1:],
	}, nil
}

// String encodes the request.
func (r Request) String() string {
	var sb strings.Builder
	sb.WriteString(r.Command)
	for _, a := range r.Args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	for _, l := range r.Lines {
		sb.WriteByte('\n')
		sb.WriteString(l)
	}
	return sb.String()
}

// NewBlockRequest builds "BLOCK <id> <time>" followed by one line per remote
// event.
func NewBlockRequest(id string, t time.Time, lines []EffectLine) Request {
	req := Request{
		Command: CmdBlock,
		Args:    []string{id, t.UTC().Format(TimeFormat)},
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, l.String())
	}
	return req
}

// NewIDRequest builds "<cmd> <id>" for EXECUTE, REVERT and UNBLOCK.
func NewIDRequest(cmd, id string) Request {
	return Request{
		Command: cmd,
		Args:    []string{id},
	}
}

// NewQueryRequest builds "<cmd> <id>" followed by the space-separated names
// of the peers already visited, for ACCEPTING and LOG.
func NewQueryRequest(cmd, id string, seen []string) Request {
	return Request{
		Command: cmd,
		Args:    []string{id},
		Lines:   []string{strings.Join(seen, " ")},
	}
}

// Seen returns the peer names listed on the second line of a query.
func (r Request) Seen() []string {
	if len(r.Lines) == 0 {
		return nil
	}
	return strings.Fields(r.Lines[0])
}

// EffectLine is one line of a BLOCK body: an event name and the effects to
// apply to it, in order.
type EffectLine struct {
	Event   string
	Effects []string
}

// ParseEffectLine ...
func ParseEffectLine(line string) (EffectLine, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return EffectLine{}, fmt.Errorf("malformed effect line %q", line)
	}
	return EffectLine{
		Event:   fields[0],
		Effects: fields[1:],
	}, nil
}

func (l EffectLine) String() string {
	return l.Event + " " + strings.Join(l.Effects, " ")
}
