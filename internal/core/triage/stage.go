// Package triage merges the two independently written persisted records
// (opportunity state and work item) into one unified stage per opportunity,
// and counts weekly reply outcomes
package triage

import (
	"time"

	"cockpit/internal/core/opportunity"
)

// Stage is the unified triage stage of an opportunity
type Stage string

// Triage stages, roughly in lifecycle order
const (
	StageNew      Stage = "new"
	StageDrafting Stage = "drafting"
	StageReady    Stage = "ready"
	StageDone     Stage = "done"
	StageIgnored  Stage = "ignored"
)

// WorkItem is the core view of one work_items row
// Stage is blank when the row exists but the user never picked a stage
type WorkItem struct {
	DedupeKey    string
	Stage        Stage
	Draft        *string
	Notes        *string
	LastOpenedAt *time.Time
	LastCopiedAt *time.Time
	UpdatedAt    time.Time
}

// ItemsByKey indexes work items for ResolveStage lookups
func ItemsByKey(items []WorkItem) map[string]WorkItem {
	m := make(map[string]WorkItem, len(items))
	for _, it := range items {
		m[it.DedupeKey] = it
	}
	return m
}

// ResolveStage merges the two persisted records at read time, highest
// precedence first:
//  1. an explicit WorkItem stage wins verbatim
//  2. a WorkItem that was opened but never staged counts as drafting
//  3. otherwise the opportunity status maps done->done, ignored->ignored,
//     anything else -> new
//
// The work item is authoritative when present because it tracks finer grained
// progress; an opportunity ignored in one store can legitimately resolve to
// drafting here if work later resumed
func ResolveStage(dedupeKey string, fallback opportunity.Status, items map[string]WorkItem) Stage {
	if it, ok := items[dedupeKey]; ok {
		if it.Stage != "" {
			return it.Stage
		}
		if it.LastOpenedAt != nil {
			return StageDrafting
		}
	}
	switch fallback {
	case opportunity.StatusDone:
		return StageDone
	case opportunity.StatusIgnored:
		return StageIgnored
	default:
		return StageNew
	}
}

// Terminal reports whether a stage is out of the active queue
func Terminal(s Stage) bool { return s == StageDone || s == StageIgnored }
