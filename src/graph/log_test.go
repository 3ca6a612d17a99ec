package graph

import (
	"testing"
	"time"

	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFormat(t *testing.T) {
	assert.Equal(t, net.ReplyLogEmpty, FormatLog(nil))

	t0 := time.Date(2021, 3, 4, 5, 6, 7, 8, time.UTC)
	entries := []LogEntry{
		{Time: t0, Event: "a"},
		{Time: t0.Add(time.Second), Event: "b"},
	}

	text := FormatLog(entries)
	assert.Equal(t, "2021-03-04T05:06:07.000000008Z a\n2021-03-04T05:06:08.000000008Z b", text)

	parsed, err := ParseLog(text)
	require.NoError(t, err)
	assert.Equal(t, entries, parsed)

	for _, r := range []string{net.ReplyLogEmpty, net.ReplyLogIgnore} {
		parsed, err = ParseLog(r)
		require.NoError(t, err)
		assert.Empty(t, parsed)
	}

	_, err = ParseLogEntry("yesterday a")
	assert.Error(t, err)
	_, err = ParseLogEntry("a")
	assert.Error(t, err)
}

func TestSortLog(t *testing.T) {
	t0 := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	entries := []LogEntry{
		{Time: t0.Add(time.Second), Event: "c"},
		{Time: t0, Event: "b"},
		{Time: t0, Event: "a"},
	}

	sortLog(entries)

	assert.Equal(t, []string{"a", "b", "c"}, []string{entries[0].Event, entries[1].Event, entries[2].Event})
}
