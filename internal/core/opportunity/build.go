package opportunity

import (
	"sort"
	"strings"
	"time"
)

// Bounds on caller supplied knobs
const (
	MinAgeHours = 1
	MaxAgeHours = 72
	MinMax      = 1
	MaxMax      = 50

	DefaultAgeHours = 24
	DefaultMax      = 12
)

// Opportunity is the scored projection of a raw event
// Recomputed on every fetch, never persisted; DedupeKey is the only identity
// that survives a refresh
type Opportunity struct {
	DedupeKey    string  `json:"dedupe_key"`
	Source       Source  `json:"source"`
	Kind         Kind    `json:"kind"`
	ActorHandle  *string `json:"actor_handle"`
	TargetHandle *string `json:"target_handle"`
	OccurredAt   string  `json:"occurred_at"`
	URL          *string `json:"url"`
	Text         *string `json:"text"`
	Score        int     `json:"score"`
	State        Status  `json:"state"`
	GotReply     bool    `json:"got_reply"`
	Why          string  `json:"why"`
}

// kindOf classifies an actionable event; ok=false for shapes we ignore
func kindOf(e RawEvent) (Kind, bool) {
	switch {
	case e.isMention():
		return KindMention, true
	case e.isTargetPost():
		return KindTargetPost, true
	case e.isTelegramMessage():
		switch e.Payload.Intent {
		case "topic":
			return KindTGTopic, true
		case "person":
			return KindTGPerson, true
		default:
			// missing or unknown intent is a plain reply candidate
			return KindTGReply, true
		}
	default:
		return "", false
	}
}

// whyLine produces the display-only rationale; nothing downstream branches on it
func whyLine(e RawEvent, kind Kind) string {
	switch kind {
	case KindMention:
		return "They mentioned you - reply fast."
	case KindTGTopic:
		return "Someone is sharing their build - good thread to join."
	case KindTGPerson:
		return "Active, thoughtful sender - worth a real reply."
	case KindTGReply:
		return "Live chat message - answer while the room is warm."
	}
	if e.Type == "reply" {
		return "They're already in a thread - easy to join."
	}
	m := e.metrics()
	if m.ReplyCount >= 2 {
		return "Has replies - conversation is forming."
	}
	if m.LikeCount >= 5 {
		return "Getting attention - good time to engage."
	}
	return "Fresh post from target - respond while it's warm."
}

// clampInt bounds v to [lo, hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize filters events to actionable shapes inside the age window and
// produces scored candidates with stable dedupe keys
// State and GotReply are left at their defaults; Build overlays them
func Normalize(events []RawEvent, now time.Time, maxAgeHours int) []Opportunity {
	maxAgeHours = clampInt(maxAgeHours, MinAgeHours, MaxAgeHours)
	maxAge := float64(maxAgeHours) * 60

	out := make([]Opportunity, 0, len(events))
	for _, e := range events {
		kind, ok := kindOf(e)
		if !ok {
			continue
		}
		// unparseable timestamps degrade to infinitely old and fall out here
		if minutesAgo(now, e.OccurredAt) > maxAge {
			continue
		}
		out = append(out, Opportunity{
			DedupeKey:    DedupeKey(e),
			Source:       e.Source,
			Kind:         kind,
			ActorHandle:  e.ActorHandle,
			TargetHandle: e.TargetHandle,
			OccurredAt:   e.OccurredAt,
			URL:          e.URL,
			Text:         e.Text,
			Score:        Score(e, kind, now),
			State:        StatusNew,
			Why:          whyLine(e, kind),
		})
	}
	return out
}

// Dedupe collapses X candidates to the single best per actor, keeps every
// telegram candidate, then ranks by score descending and truncates to max
// X candidates without an actor handle are dropped: they cannot be grouped
// or attributed safely
// The sort is stable so equal scores keep their input order
func Dedupe(candidates []Opportunity, max int) []Opportunity {
	max = clampInt(max, MinMax, MaxMax)

	bestByActor := make(map[string]int) // actor -> index into xs
	var xs, tgs []Opportunity
	for _, c := range candidates {
		if c.Source != SourceX {
			tgs = append(tgs, c)
			continue
		}
		actor := ""
		if c.ActorHandle != nil {
			actor = strings.ToLower(strings.TrimSpace(*c.ActorHandle))
		}
		if actor == "" {
			continue
		}
		if i, ok := bestByActor[actor]; ok {
			// strict greater keeps the earliest candidate on ties
			if c.Score > xs[i].Score {
				xs[i] = c
			}
			continue
		}
		bestByActor[actor] = len(xs)
		xs = append(xs, c)
	}

	// deduplicated X list first, then every telegram candidate; the stable
	// sort preserves that relative order for equal scores
	merged := make([]Opportunity, 0, len(xs)+len(tgs))
	merged = append(merged, xs...)
	merged = append(merged, tgs...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

// BuildInput is the snapshot Build ranks; Now must be injected so repeated
// calls over the same snapshot are bit-identical
type BuildInput struct {
	Events      []RawEvent
	States      []StateRecord
	MaxAgeHours int
	Max         int
	Now         time.Time
}

// Build runs the full Normalize -> overlay persisted state -> Dedupe pipeline
func Build(in BuildInput) []Opportunity {
	byKey := make(map[string]StateRecord, len(in.States))
	for _, s := range in.States {
		byKey[s.DedupeKey] = s
	}

	candidates := Normalize(in.Events, in.Now, in.MaxAgeHours)
	for i := range candidates {
		st, ok := byKey[candidates[i].DedupeKey]
		if !ok {
			continue
		}
		if st.Status != "" {
			candidates[i].State = st.Status
		}
		candidates[i].GotReply = st.GotReply
	}
	return Dedupe(candidates, in.Max)
}
