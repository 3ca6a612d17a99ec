package node

import (
	"errors"
	"testing"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
)

func TestEventReply(t *testing.T) {
	cases := []struct {
		err   error
		reply string
	}{
		{nil, net.ReplySuccess},
		{common.NewProtocolErr(common.UnknownEvent, "x"), net.ReplyEventInvalid},
		{common.NewProtocolErr(common.RemoteEvent, "x"), net.ReplyInvalidPermission},
		{common.NewProtocolErr(common.EventBlocked, "x"), net.ReplyUnavailable},
		{common.NewProtocolErr(common.EventDisabled, "x"), net.ReplyUnavailable},
		{common.NewProtocolErr(common.PeerRefused, "x"), net.ReplyUnavailable},
		{errors.New("boom"), net.ReplyUnavailable},
	}

	for _, c := range cases {
		if r := eventReply(c.err); r != c.reply {
			t.Fatalf("eventReply(%v) should be %s, not %s", c.err, c.reply, r)
		}
	}
}

func TestMalformedReply(t *testing.T) {
	if r := malformedReply(net.RoleMain); r != net.ReplyUnavailable {
		t.Fatalf("main nodes should get UNAVAILABLE, not %s", r)
	}
	if r := malformedReply(net.RoleNode); r != net.ReplyUnknownCommand {
		t.Fatalf("end-user nodes should get UNKNOWN COMMAND, not %s", r)
	}
}

func TestUnknownRole(t *testing.T) {
	tn := newTestNetwork(t, conditionDef, "alice", "bob")

	reply, err := tn.client.Send(tn.addrs["alice"], net.RoleUnknown, "EXECUTE a", false)
	if err != nil {
		t.Fatal(err)
	}
	if reply != net.ReplyUnknownCommand {
		t.Fatalf("reply should be UNKNOWN COMMAND, not %s", reply)
	}
	if tn.marking(t, "a").Executed {
		t.Fatalf("a should not be executed")
	}
}

func TestFormat(t *testing.T) {
	a := event.NewLocalEvent("a", "Approve it", event.Marking{Included: true})
	b := event.NewLocalEvent("b", "Book", event.Marking{Pending: true, Condition: 2})

	perms := formatPermissions([]*event.LocalEvent{a, b})
	if perms != "a Approve it\nb Book" {
		t.Fatalf("bad permissions: %q", perms)
	}

	markings := formatMarkings([]*event.LocalEvent{a, b})
	expected := "a included=true pending=false executed=false condition=0 milestone=0 enabled=true\n" +
		"b included=false pending=true executed=false condition=2 milestone=0 enabled=false"
	if markings != expected {
		t.Fatalf("bad markings: %q", markings)
	}

	if formatPermissions(nil) != "" {
		t.Fatalf("no events should give an empty reply")
	}
}
