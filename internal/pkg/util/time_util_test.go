package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{45 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{90 * time.Minute, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "Yesterday"},
		{48 * time.Hour, "2 days ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{7 * 24 * time.Hour, "1 week ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
		{29 * 24 * time.Hour, "4 weeks ago"},
		{35 * 24 * time.Hour, "1 month ago"},
		{65 * 24 * time.Hour, "2 months ago"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			assert.Equal(t, c.want, FormatRelativeTime(now.Add(-c.ago), now))
		})
	}
}

func TestFormatRelativeTimeFuture(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "Just now", FormatRelativeTime(now.Add(time.Hour), now))
}

func TestDayKeyRoundTrip(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 30, 0, 0, time.FixedZone("X", -3*3600))
	key := DayKey(ts)
	assert.Equal(t, "2024-03-01", key)

	day, err := ParseDayKey(key)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), day)
}
