package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.Local)

	s := FormatTimestamp(at)
	assert.Equal(t, "2026-03-14 09:26:53", s)

	got, err := ParseTimestamp(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(at.Truncate(time.Second)), "got %v", got)
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, s := range []string{"", "2026-03-14", "2026-03-14T09:26:53Z"} {
		_, err := ParseTimestamp(s)
		assert.Error(t, err, "input %q", s)
	}
}
