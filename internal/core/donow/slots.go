// Package donow maintains the fixed three-slot working set of opportunity
// references with pin, swap, fill and regenerate semantics
package donow

import "strings"

// SlotCount is the fixed size of the working set; slot index is a user
// visible position
const SlotCount = 3

// Slot references one opportunity by dedupe key; a blank key means empty
// Invariant: Pinned implies a non blank key
type Slot struct {
	DedupeKey string `json:"dedupe_key"`
	Pinned    bool   `json:"pinned"`
}

// Empty reports whether the slot holds no reference
func (s Slot) Empty() bool { return s.DedupeKey == "" }

// NormalizeSlots coerces arbitrary input (short, long, or corrupted persisted
// slot arrays) to exactly SlotCount well formed slots: keys are trimmed,
// blanks cleared, and a pin without a key is dropped rather than kept
func NormalizeSlots(in []Slot) []Slot {
	out := make([]Slot, SlotCount)
	for i := 0; i < SlotCount && i < len(in); i++ {
		key := strings.TrimSpace(in[i].DedupeKey)
		out[i] = Slot{DedupeKey: key, Pinned: in[i].Pinned && key != ""}
	}
	return out
}
