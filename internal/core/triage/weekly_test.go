package triage

import (
	"testing"
	"time"

	"cockpit/internal/core/opportunity"
)

func TestWeekStartUTC(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		// Monday noon -> same Monday midnight
		{time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		// Sunday -> previous Monday
		{time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		// Wednesday in another zone still resolves in UTC
		{time.Date(2025, 6, 4, 1, 0, 0, 0, time.FixedZone("plus5", 5*3600)), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		// Monday 00:00 exactly is its own week start
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := WeekStartUTC(c.now); !got.Equal(c.want) {
			t.Fatalf("WeekStartUTC(%v) = %v, want %v", c.now, got, c.want)
		}
	}
}

func TestCountWeeklyReplies(t *testing.T) {
	weekStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	states := []opportunity.StateRecord{
		// counts: x source, got reply, inside window
		{DedupeKey: "v1:x:mention:alice:1", GotReply: true, UpdatedAt: weekStart.Add(time.Hour)},
		// boundary: exactly at week start counts
		{DedupeKey: "v1:x:tweet:bob:2", GotReply: true, UpdatedAt: weekStart},
		// too old
		{DedupeKey: "v1:x:tweet:carol:3", GotReply: true, UpdatedAt: weekStart.Add(-time.Minute)},
		// no reply outcome
		{DedupeKey: "v1:x:tweet:dave:4", GotReply: false, UpdatedAt: weekStart.Add(time.Hour)},
		// telegram is excluded from this counter
		{DedupeKey: "v1:telegram:message:erin:5", GotReply: true, UpdatedAt: weekStart.Add(time.Hour)},
		// malformed key
		{DedupeKey: "v2:x:tweet:frank:6", GotReply: true, UpdatedAt: weekStart.Add(time.Hour)},
	}
	if got := CountWeeklyReplies(states, weekStart); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
}
