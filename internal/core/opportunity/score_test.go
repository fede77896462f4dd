package opportunity

import (
	"math"
	"testing"
	"time"
)

var frozen = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func iso(t time.Time) string { return t.Format(time.RFC3339) }

func TestRecencyScore_Decay(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want float64 // approximate
		tol  float64
	}{
		{0, 30, 0.1},
		{time.Hour, 12.1, 0.5},
		{6 * time.Hour, 4.4, 0.5},
		{24 * time.Hour, 0, 0.01},
	}
	for _, c := range cases {
		got := recencyScore(frozen, iso(frozen.Add(-c.age)))
		if math.Abs(got-c.want) > c.tol {
			t.Fatalf("recency(%v ago) = %.2f, want ~%.1f", c.age, got, c.want)
		}
	}
}

func TestRecencyScore_Unparseable(t *testing.T) {
	if got := recencyScore(frozen, "not-a-time"); got != 0 {
		t.Fatalf("unparseable timestamp should contribute 0, got %.2f", got)
	}
}

func TestRecencyScore_FutureClampsToNow(t *testing.T) {
	if got := recencyScore(frozen, iso(frozen.Add(time.Hour))); got != 30 {
		t.Fatalf("future timestamp should score as t=0, got %.2f", got)
	}
}

func TestEngagementScore_WeightsAndClamp(t *testing.T) {
	m := Metrics{ReplyCount: 2, QuoteCount: 1, RepostCount: 3, LikeCount: 4}
	if got := engagementScore(m); got != 2*5+1*4+3*2+4*0.5 {
		t.Fatalf("engagement = %.1f", got)
	}
	if got := engagementScore(Metrics{ReplyCount: 100}); got != 30 {
		t.Fatalf("engagement should clamp at 30, got %.1f", got)
	}
	if got := engagementScore(Metrics{}); got != 0 {
		t.Fatalf("empty metrics should score 0, got %.1f", got)
	}
}

func TestScore_MentionIgnoresEngagement(t *testing.T) {
	e := RawEvent{
		Source:     SourceX,
		Type:       "mention",
		OccurredAt: iso(frozen),
		Payload:    Payload{Metrics: &Metrics{ReplyCount: 100}},
	}
	if got := Score(e, KindMention, frozen); got != 120 { // 90 base + 30 recency
		t.Fatalf("mention score = %d, want 120", got)
	}
}

func TestScore_TargetPostAddsEngagement(t *testing.T) {
	e := RawEvent{
		Source:     SourceX,
		Type:       "tweet",
		OccurredAt: iso(frozen),
		Payload:    Payload{Metrics: &Metrics{ReplyCount: 2}},
	}
	if got := Score(e, KindTargetPost, frozen); got != 55+30+10 {
		t.Fatalf("target post score = %d, want 95", got)
	}
}

func TestScore_TelegramLinkBonus(t *testing.T) {
	withLink := RawEvent{
		Source:     SourceTelegram,
		Type:       "message",
		OccurredAt: iso(frozen),
		URL:        strp("https://t.me/c/1/10"),
	}
	without := withLink
	without.URL = nil

	if got := Score(withLink, KindTGReply, frozen); got != 70+30+10 {
		t.Fatalf("tg score with link = %d, want 110", got)
	}
	if got := Score(without, KindTGReply, frozen); got != 70+30 {
		t.Fatalf("tg score without link = %d, want 100", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	e := RawEvent{
		Source:     SourceX,
		Type:       "tweet",
		OccurredAt: iso(frozen.Add(-37 * time.Minute)),
		Payload:    Payload{Metrics: &Metrics{LikeCount: 7, ReplyCount: 1}},
	}
	first := Score(e, KindTargetPost, frozen)
	for i := 0; i < 10; i++ {
		if got := Score(e, KindTargetPost, frozen); got != first {
			t.Fatalf("score drifted: %d vs %d", got, first)
		}
	}
}

func TestDecodePayload(t *testing.T) {
	p := DecodePayload(map[string]any{
		"metrics": map[string]any{"likeCount": float64(5), "replyCount": "junk"},
		"intent":  "topic",
	})
	if p.Metrics == nil || p.Metrics.LikeCount != 5 {
		t.Fatalf("likeCount not decoded: %+v", p.Metrics)
	}
	if p.Metrics.ReplyCount != 0 {
		t.Fatalf("non numeric field should default to 0, got %v", p.Metrics.ReplyCount)
	}
	if p.Intent != "topic" {
		t.Fatalf("intent = %q", p.Intent)
	}

	if got := DecodePayload(nil); got.Metrics != nil || got.Intent != "" {
		t.Fatalf("nil payload should decode to zero value")
	}
}
