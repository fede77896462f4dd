package opportunity

import "strings"

// keyVersion prefixes every dedupe key so the derivation can change later
// without old persisted state silently matching new keys
const keyVersion = "v1"

// DedupeKey derives the stable identity of an event:
// v1:{source}:{type}:{lowercased actor}:{external id, or storage id when blank}
// The same (source, type, actor, external id) tuple always yields the same key
// regardless of event ordering or fetch time; it is the join key into the
// opportunity_states and work_items stores
func DedupeKey(e RawEvent) string {
	actor := ""
	if e.ActorHandle != nil {
		actor = strings.ToLower(strings.TrimSpace(*e.ActorHandle))
	}
	ext := strings.TrimSpace(e.ExternalID)
	if ext == "" {
		ext = e.ID
	}
	return keyVersion + ":" + string(e.Source) + ":" + e.Type + ":" + actor + ":" + ext
}

// KeySource parses the source segment out of a dedupe key
// Malformed keys (wrong version, unknown source, too few segments) return
// ok=false, never an error; external ids may themselves contain colons so
// only the leading segments are inspected
func KeySource(key string) (Source, bool) {
	parts := strings.SplitN(key, ":", 5)
	if len(parts) < 5 || parts[0] != keyVersion {
		return "", false
	}
	switch Source(parts[1]) {
	case SourceX:
		return SourceX, true
	case SourceTelegram:
		return SourceTelegram, true
	default:
		return "", false
	}
}
