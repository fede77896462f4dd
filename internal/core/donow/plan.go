package donow

import (
	"sort"
	"strings"
	"time"

	"cockpit/internal/core/opportunity"
	"cockpit/internal/core/triage"
)

// Plan-specific boosts layered on top of the base opportunity score so
// in-progress items surface ahead of equally scored fresh ones
const (
	boostReady    = 12
	boostDrafting = 6
	boostMention  = 4
)

// StageFn resolves the merged triage stage for a key, falling back to the
// opportunity status when no work item exists
type StageFn func(dedupeKey string, fallback opportunity.Status) triage.Stage

// PlanInput is everything BuildPlan needs; slots and filters are explicit
// caller supplied snapshots, never read from ambient state
type PlanInput struct {
	Slots           []Slot
	Candidates      []opportunity.Opportunity
	IncludeMentions bool
	QueueOnly       bool
	StageFor        StageFn
}

// Plan pairs the resolved slots with the materialized opportunity per slot
// (nil when the pool could not fill a slot)
type Plan struct {
	Slots []Slot
	Items []*opportunity.Opportunity
}

func stageBoost(s triage.Stage) int {
	switch s {
	case triage.StageReady:
		return boostReady
	case triage.StageDrafting:
		return boostDrafting
	default:
		return 0
	}
}

// PlanScore re-ranks a candidate for slot filling
func PlanScore(o opportunity.Opportunity, stage triage.Stage) int {
	s := o.Score + stageBoost(stage)
	if o.Kind == opportunity.KindMention {
		s += boostMention
	}
	return s
}

// eligible filters the candidate pool by the plan toggles
func eligible(in PlanInput) []opportunity.Opportunity {
	out := make([]opportunity.Opportunity, 0, len(in.Candidates))
	for _, o := range in.Candidates {
		if !in.IncludeMentions && o.Kind == opportunity.KindMention {
			continue
		}
		if in.QueueOnly && triage.Terminal(in.StageFor(o.DedupeKey, o.State)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// rank orders candidates by plan score descending; the stable sort keeps the
// incoming (already score ranked) order for ties
func rank(in PlanInput, pool []opportunity.Opportunity) []opportunity.Opportunity {
	out := make([]opportunity.Opportunity, len(pool))
	copy(out, pool)
	sort.SliceStable(out, func(i, j int) bool {
		return PlanScore(out[i], in.StageFor(out[i].DedupeKey, out[i].State)) >
			PlanScore(out[j], in.StageFor(out[j].DedupeKey, out[j].State))
	})
	return out
}

// BuildPlan resolves the next slot assignment:
//  1. coerce to exactly three slots
//  2. clear slots referencing keys outside the eligible pool (stale pins included)
//  3. clear duplicate keys, keeping the lowest slot index
//  4. fill remaining empties greedily in slot order by plan score
//
// Greedy fill with no backtracking is intentional; do not replace it with an
// optimal assignment, the observable order matters
func BuildPlan(in PlanInput) Plan {
	slots := NormalizeSlots(in.Slots)
	pool := eligible(in)

	byKey := make(map[string]opportunity.Opportunity, len(pool))
	for _, o := range pool {
		byKey[o.DedupeKey] = o
	}

	for i := range slots {
		if slots[i].Empty() {
			continue
		}
		if _, ok := byKey[slots[i].DedupeKey]; !ok {
			slots[i] = Slot{}
		}
	}

	seen := make(map[string]bool, SlotCount)
	for i := range slots {
		if slots[i].Empty() {
			continue
		}
		if seen[slots[i].DedupeKey] {
			slots[i] = Slot{}
			continue
		}
		seen[slots[i].DedupeKey] = true
	}

	ranked := rank(in, pool)
	for i := range slots {
		if !slots[i].Empty() {
			continue
		}
		for _, o := range ranked {
			if seen[o.DedupeKey] {
				continue
			}
			slots[i] = Slot{DedupeKey: o.DedupeKey}
			seen[o.DedupeKey] = true
			break
		}
	}

	items := make([]*opportunity.Opportunity, SlotCount)
	for i, s := range slots {
		if s.Empty() {
			continue
		}
		if o, ok := byKey[s.DedupeKey]; ok {
			oc := o
			items[i] = &oc
		}
	}
	return Plan{Slots: slots, Items: items}
}

// Swap recomputes the plan, then replaces the slot at index with the best
// eligible candidate not occupying any slot in the recomputed plan
// The swapped slot always loses its pin; with the pool exhausted the plan
// is returned unchanged
func Swap(in PlanInput, index int) []Slot {
	index = clampIndex(index)
	plan := BuildPlan(in)

	taken := make(map[string]bool, SlotCount)
	for _, s := range plan.Slots {
		if !s.Empty() {
			taken[s.DedupeKey] = true
		}
	}

	for _, o := range rank(in, eligible(in)) {
		if taken[o.DedupeKey] {
			continue
		}
		out := make([]Slot, SlotCount)
		copy(out, plan.Slots)
		out[index] = Slot{DedupeKey: o.DedupeKey}
		return out
	}
	return plan.Slots
}

// Add places a key into the working set: no-op when already present, else
// first empty slot, else first unpinned slot, else no-op (pins are a hard floor)
func Add(slots []Slot, dedupeKey string) []Slot {
	out := NormalizeSlots(slots)
	key := strings.TrimSpace(dedupeKey)
	if key == "" {
		return out
	}
	for _, s := range out {
		if s.DedupeKey == key {
			return out
		}
	}
	for i := range out {
		if out[i].Empty() {
			out[i] = Slot{DedupeKey: key}
			return out
		}
	}
	for i := range out {
		if !out[i].Pinned {
			out[i] = Slot{DedupeKey: key}
			return out
		}
	}
	return out
}

// Pin sets or clears the pin on a slot; pinning an empty slot is a no-op
func Pin(slots []Slot, index int, pinned bool) []Slot {
	out := NormalizeSlots(slots)
	i := clampIndex(index)
	if out[i].Empty() {
		return out
	}
	out[i].Pinned = pinned
	return out
}

// Regenerate clears every non pinned slot; a subsequent BuildPlan refills them
func Regenerate(slots []Slot) []Slot {
	out := NormalizeSlots(slots)
	for i := range out {
		if !out[i].Pinned {
			out[i] = Slot{}
		}
	}
	return out
}

// DayStamp is the calendar day marker used for the daily reset
func DayStamp(now time.Time) string { return now.Format("2006-01-02") }

// ResetDaily applies the once-per-calendar-day regenerate: when lastDay
// differs from today's stamp the non pinned slots are cleared
// Returns the (possibly reset) slots and the stamp callers should persist
func ResetDaily(slots []Slot, lastDay string, now time.Time) ([]Slot, string) {
	today := DayStamp(now)
	out := NormalizeSlots(slots)
	if lastDay == today {
		return out, today
	}
	return Regenerate(out), today
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= SlotCount {
		return SlotCount - 1
	}
	return i
}
