package opportunity

import (
	"reflect"
	"testing"
	"time"
)

func xPost(id, actor string, age time.Duration, m *Metrics) RawEvent {
	return RawEvent{
		ID:          id,
		Source:      SourceX,
		Type:        "tweet",
		ExternalID:  id,
		OccurredAt:  iso(frozen.Add(-age)),
		ActorHandle: strp(actor),
		Payload:     Payload{Metrics: m},
	}
}

func tgMsg(id, actor, intentVal string, age time.Duration) RawEvent {
	return RawEvent{
		ID:          id,
		Source:      SourceTelegram,
		Type:        "message",
		ExternalID:  id,
		OccurredAt:  iso(frozen.Add(-age)),
		ActorHandle: strp(actor),
		Payload:     Payload{Intent: intentVal},
	}
}

func TestNormalize_FiltersShapes(t *testing.T) {
	events := []RawEvent{
		xPost("1", "alice", time.Minute, nil),
		{ID: "2", Source: SourceX, Type: "like", OccurredAt: iso(frozen)},
		{ID: "3", Source: SourceTelegram, Type: "join", OccurredAt: iso(frozen)},
		tgMsg("4", "bob", "", time.Minute),
	}
	out := Normalize(events, frozen, 24)
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
}

func TestNormalize_AgeWindow(t *testing.T) {
	for _, hours := range []int{1, 24, 72} {
		inside := xPost("in", "alice", time.Duration(hours)*time.Hour-time.Minute, nil)
		outside := xPost("out", "bob", time.Duration(hours)*time.Hour+time.Minute, nil)
		out := Normalize([]RawEvent{inside, outside}, frozen, hours)
		if len(out) != 1 || out[0].DedupeKey != DedupeKey(inside) {
			t.Fatalf("maxAge=%dh: expected only the inside event, got %+v", hours, out)
		}
	}
}

func TestNormalize_UnparseableTimestampDropped(t *testing.T) {
	e := xPost("1", "alice", 0, nil)
	e.OccurredAt = "yesterday-ish"
	if out := Normalize([]RawEvent{e}, frozen, 72); len(out) != 0 {
		t.Fatalf("unparseable occurred_at should be excluded, got %+v", out)
	}
}

func TestNormalize_TelegramIntentMapping(t *testing.T) {
	cases := []struct {
		intentVal string
		want      Kind
	}{
		{"reply", KindTGReply},
		{"topic", KindTGTopic},
		{"person", KindTGPerson},
		{"", KindTGReply},        // missing intent defaults
		{"surprise", KindTGReply}, // unknown intent defaults
	}
	for _, c := range cases {
		out := Normalize([]RawEvent{tgMsg("1", "bob", c.intentVal, time.Minute)}, frozen, 24)
		if len(out) != 1 || out[0].Kind != c.want {
			t.Fatalf("intent %q: got %+v, want kind %q", c.intentVal, out, c.want)
		}
	}
}

func TestDedupe_BestPerActor(t *testing.T) {
	// scenario: two candidates for alice, scores 10 and 20 -> one survives with 20
	cands := []Opportunity{
		{DedupeKey: "a1", Source: SourceX, ActorHandle: strp("alice"), Score: 10},
		{DedupeKey: "a2", Source: SourceX, ActorHandle: strp("Alice "), Score: 20},
	}
	out := Dedupe(cands, 12)
	if len(out) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(out))
	}
	if out[0].Score != 20 || out[0].DedupeKey != "a2" {
		t.Fatalf("kept the wrong candidate: %+v", out[0])
	}
}

func TestDedupe_TieKeepsEarliest(t *testing.T) {
	cands := []Opportunity{
		{DedupeKey: "a1", Source: SourceX, ActorHandle: strp("alice"), Score: 20},
		{DedupeKey: "a2", Source: SourceX, ActorHandle: strp("alice"), Score: 20},
	}
	out := Dedupe(cands, 12)
	if len(out) != 1 || out[0].DedupeKey != "a1" {
		t.Fatalf("tie should keep the earliest candidate, got %+v", out)
	}
}

func TestDedupe_DropsHandlelessX(t *testing.T) {
	cands := []Opportunity{
		{DedupeKey: "a", Source: SourceX, Score: 50},
		{DedupeKey: "b", Source: SourceX, ActorHandle: strp("  "), Score: 50},
	}
	if out := Dedupe(cands, 12); len(out) != 0 {
		t.Fatalf("handleless X candidates must be dropped, got %+v", out)
	}
}

func TestDedupe_TelegramNeverCollapses(t *testing.T) {
	cands := []Opportunity{
		{DedupeKey: "t1", Source: SourceTelegram, ActorHandle: strp("bob"), Score: 10},
		{DedupeKey: "t2", Source: SourceTelegram, ActorHandle: strp("bob"), Score: 20},
	}
	out := Dedupe(cands, 12)
	if len(out) != 2 {
		t.Fatalf("telegram candidates must not collapse, got %d", len(out))
	}
	if out[0].DedupeKey != "t2" || out[1].DedupeKey != "t1" {
		t.Fatalf("expected score-descending order, got %+v", out)
	}
}

func TestDedupe_Truncates(t *testing.T) {
	var cands []Opportunity
	for i := 0; i < 10; i++ {
		cands = append(cands, Opportunity{
			DedupeKey: string(rune('a' + i)), Source: SourceTelegram, Score: i,
		})
	}
	if out := Dedupe(cands, 3); len(out) != 3 {
		t.Fatalf("expected truncation to 3, got %d", len(out))
	}
	// max clamps to [1, 50]
	if out := Dedupe(cands, 0); len(out) != 1 {
		t.Fatalf("max=0 should clamp to 1, got %d", len(out))
	}
}

func TestBuild_OverlaysStateAndIsDeterministic(t *testing.T) {
	events := []RawEvent{
		xPost("1", "alice", 10*time.Minute, &Metrics{ReplyCount: 3}),
		xPost("2", "bob", 2*time.Hour, nil),
		tgMsg("3", "carol", "topic", 30*time.Minute),
	}
	doneKey := DedupeKey(events[1])
	in := BuildInput{
		Events: events,
		States: []StateRecord{
			{DedupeKey: doneKey, Status: StatusDone, GotReply: true, UpdatedAt: frozen},
		},
		MaxAgeHours: 24,
		Max:         12,
		Now:         frozen,
	}

	first := Build(in)
	if len(first) != 3 {
		t.Fatalf("expected 3 opportunities, got %d", len(first))
	}
	for _, o := range first {
		if o.DedupeKey == doneKey {
			if o.State != StatusDone || !o.GotReply {
				t.Fatalf("state overlay missing: %+v", o)
			}
		} else if o.State != StatusNew {
			t.Fatalf("default state should be new: %+v", o)
		}
	}

	for i := 0; i < 5; i++ {
		if again := Build(in); !reflect.DeepEqual(first, again) {
			t.Fatalf("Build is not deterministic:\n%+v\nvs\n%+v", first, again)
		}
	}
}

func TestBuild_KeyStableAcrossOrdering(t *testing.T) {
	a := xPost("1", "alice", 10*time.Minute, nil)
	b := tgMsg("2", "bob", "", 10*time.Minute)

	keysOf := func(events []RawEvent) map[string]bool {
		out := map[string]bool{}
		for _, o := range Build(BuildInput{Events: events, MaxAgeHours: 24, Max: 12, Now: frozen}) {
			out[o.DedupeKey] = true
		}
		return out
	}
	if !reflect.DeepEqual(keysOf([]RawEvent{a, b}), keysOf([]RawEvent{b, a})) {
		t.Fatalf("dedupe keys must not depend on event order")
	}
}
