package opportunity

import (
	"math"
	"time"
)

// Base weights per kind; mentions outrank everything because the other side
// already opened the conversation
const (
	baseMention    = 90
	baseTGPerson   = 78
	baseTGReply    = 70
	baseTGTopic    = 60
	baseTargetPost = 55
)

// tgLinkBonus rewards telegram messages that carry a link, the closest thing
// telegram offers to an engagement signal
const tgLinkBonus = 10

// farPastMinutes is the sentinel age for unparseable timestamps; recency
// contribution saturates to ~0 long before this
const farPastMinutes = 1e9

// minutesAgo returns the event age in minutes relative to now, clamped at
// zero for future timestamps and pushed to the far past when unparseable
func minutesAgo(now time.Time, iso string) float64 {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return farPastMinutes
	}
	m := now.Sub(t).Minutes()
	if m < 0 {
		return 0
	}
	return m
}

// recencyScore decays logarithmically from 30 at t=0 to ~12 at 1h, ~4 at 6h,
// hitting the floor of 0 just under 20h
func recencyScore(now time.Time, iso string) float64 {
	m := minutesAgo(now, iso)
	s := 30 - math.Log10(1+m)*10
	if s < 0 {
		return 0
	}
	return s
}

// engagementScore weighs X metrics; replies dominate, likes are a weak signal
// Clamped to [0, 30] so a viral post cannot swamp the base weights
func engagementScore(m Metrics) float64 {
	s := m.ReplyCount*5 + m.QuoteCount*4 + m.RepostCount*2 + m.LikeCount*0.5
	if s < 0 {
		return 0
	}
	if s > 30 {
		return 30
	}
	return s
}

// base maps a kind to its base weight
func base(k Kind) int {
	switch k {
	case KindMention:
		return baseMention
	case KindTGPerson:
		return baseTGPerson
	case KindTGReply:
		return baseTGReply
	case KindTGTopic:
		return baseTGTopic
	default:
		return baseTargetPost
	}
}

// Score computes the ranking score of a normalized event at the given
// reference time: base(kind) + recency + engagement-or-bonus, rounded
// Mentions get no engagement bonus; their base already carries the urgency
// Telegram messages get a flat link bonus instead, no metrics exist for them
func Score(e RawEvent, kind Kind, now time.Time) int {
	s := float64(base(kind)) + recencyScore(now, e.OccurredAt)
	switch {
	case kind == KindMention:
		// no engagement term
	case e.isTelegramMessage():
		if e.URL != nil && *e.URL != "" {
			s += tgLinkBonus
		}
	default:
		s += engagementScore(e.metrics())
	}
	return int(math.Round(s))
}
