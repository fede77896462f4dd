package triage

import (
	"time"

	"cockpit/internal/core/opportunity"
)

// WeekStartUTC returns the most recent Monday 00:00:00 UTC on or before now
// (ISO-8601 week convention)
func WeekStartUTC(now time.Time) time.Time {
	d := now.UTC()
	day := int(d.Weekday())
	if day == 0 {
		day = 7 // Sunday counts as day 7 of the running week
	}
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -(day - 1))
}

// CountWeeklyReplies counts X-sourced states updated on or after weekStart
// whose outcome records a landed reply
// Telegram states are excluded: the weekly goal tracks X replies only
func CountWeeklyReplies(states []opportunity.StateRecord, weekStart time.Time) int {
	n := 0
	for _, s := range states {
		src, ok := opportunity.KeySource(s.DedupeKey)
		if !ok || src != opportunity.SourceX {
			continue
		}
		if !s.GotReply || s.UpdatedAt.Before(weekStart) {
			continue
		}
		n++
	}
	return n
}
