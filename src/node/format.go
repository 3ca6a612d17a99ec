package node

import (
	"strings"

	"github.com/mosaicnetworks/dcr/src/event"
)

// formatPermissions lists "<name> <label>" for every event, in the order
// given.
func formatPermissions(events []*event.LocalEvent) string {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.Name() + " " + e.Label()
	}
	return strings.Join(lines, "\n")
}

// formatMarkings lists "<name> <marking>" for every event, in the order
// given.
func formatMarkings(events []*event.LocalEvent) string {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.Name() + " " + e.Marking().String()
	}
	return strings.Join(lines, "\n")
}
