package graph

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/mosaicnetworks/dcr/src/net"
)

// LogEntry records one committed execution of a local event.
type LogEntry struct {
	Time  time.Time
	Event string
}

// String encodes the entry as "<time> <event>".
func (l LogEntry) String() string {
	return l.Time.UTC().Format(net.TimeFormat) + " " + l.Event
}

// ParseLogEntry decodes a line produced by LogEntry.String.
func ParseLogEntry(line string) (LogEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return LogEntry{}, fmt.Errorf("malformed log line %q", line)
	}

	t, err := time.Parse(net.TimeFormat, fields[0])
	if err != nil {
		return LogEntry{}, err
	}

	return LogEntry{Time: t.UTC(), Event: fields[1]}, nil
}

// FormatLog encodes entries one per line. An empty log is LOG EMPTY.
func FormatLog(entries []LogEntry) string {
	if len(entries) == 0 {
		return net.ReplyLogEmpty
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// ParseLog decodes a LOG reply. LOG EMPTY and LOG IGNORE carry no entries.
func ParseLog(reply string) ([]LogEntry, error) {
	switch reply {
	case net.ReplyLogEmpty, net.ReplyLogIgnore, "":
		return nil, nil
	}

	var res []LogEntry
	for _, line := range strings.Split(reply, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := ParseLogEntry(line)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

func sortLog(entries []LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Event < entries[j].Event
		}
		return entries[i].Time.Before(entries[j].Time)
	})
}

// executionLog is the append-only record of the executions this node
// committed. It lives in memory only.
type executionLog struct {
	mu      deadlock.Mutex
	entries []LogEntry
}

func newExecutionLog() *executionLog {
	return &executionLog{}
}

func (l *executionLog) append(t time.Time, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Time: t.UTC(), Event: name})
}

func (l *executionLog) snapshot() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]LogEntry, len(l.entries))
	copy(res, l.entries)
	return res
}
