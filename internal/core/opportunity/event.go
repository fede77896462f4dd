// Package opportunity turns raw platform events into a scored, deduplicated,
// ranked list of actionable opportunities
// The pipeline is pure: identical inputs plus a frozen reference time always
// produce identical output
package opportunity

import "time"

// Source identifies the platform an event came from
type Source string

// Supported event sources
const (
	SourceX        Source = "x"
	SourceTelegram Source = "telegram"
)

// Kind classifies what makes an event actionable
type Kind string

// Opportunity kinds
const (
	KindMention    Kind = "mention"
	KindTargetPost Kind = "target_post"
	KindTGReply    Kind = "tg_reply"
	KindTGTopic    Kind = "tg_topic"
	KindTGPerson   Kind = "tg_person"
)

// Status is the persisted opportunity status set by explicit user action
type Status string

// Opportunity statuses
const (
	StatusNew     Status = "new"
	StatusIgnored Status = "ignored"
	StatusDone    Status = "done"
)

// RawEvent is one unified_events row as delivered by the ingestion pipeline
// Rows are immutable once ingested; text and payload are sanitized upstream
type RawEvent struct {
	ID           string
	Source       Source
	Type         string
	ExternalID   string
	OccurredAt   string // ISO-8601; unparseable values degrade to infinitely old
	ActorHandle  *string
	TargetHandle *string
	URL          *string
	Text         *string
	Payload      Payload
}

// Metrics are the X engagement counters carried on tweet and reply payloads
// Missing or non numeric payload fields decode to zero
type Metrics struct {
	LikeCount   float64
	ReplyCount  float64
	RepostCount float64
	QuoteCount  float64
}

// Payload is the typed view over the free form event payload
// Exactly one of the optional groups applies per (source, type) pair
type Payload struct {
	Metrics *Metrics // X tweet/reply
	Intent  string   // telegram message: reply|topic|person, blank when unset
}

// DecodePayload extracts the typed payload view from a raw jsonb record
// defaulting is explicit: absent or malformed fields yield zero values
func DecodePayload(raw map[string]any) Payload {
	if raw == nil {
		return Payload{}
	}
	var p Payload
	if m, ok := raw["metrics"].(map[string]any); ok {
		p.Metrics = &Metrics{
			LikeCount:   numField(m, "likeCount"),
			ReplyCount:  numField(m, "replyCount"),
			RepostCount: numField(m, "repostCount"),
			QuoteCount:  numField(m, "quoteCount"),
		}
	}
	if s, ok := raw["intent"].(string); ok {
		p.Intent = s
	}
	return p
}

// numField coerces a payload field to float64, zero when missing or non numeric
func numField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// StateRecord is the core view of one persisted opportunity_states row
// UpdatedAt is store generated and always parseable, unlike RawEvent.OccurredAt
type StateRecord struct {
	DedupeKey string
	Status    Status
	GotReply  bool
	UpdatedAt time.Time
}

func (e RawEvent) isX() bool { return e.Source == SourceX }

func (e RawEvent) isMention() bool { return e.isX() && e.Type == "mention" }

func (e RawEvent) isTargetPost() bool {
	return e.isX() && (e.Type == "tweet" || e.Type == "reply")
}

func (e RawEvent) isTelegramMessage() bool {
	return e.Source == SourceTelegram && e.Type == "message"
}

func (e RawEvent) metrics() Metrics {
	if e.Payload.Metrics == nil {
		return Metrics{}
	}
	return *e.Payload.Metrics
}
