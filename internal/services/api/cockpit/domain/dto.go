// Package domain holds DTOs for cockpit http and service contracts
package domain

import (
	"cockpit/internal/core/donow"
	"cockpit/internal/core/opportunity"
	"cockpit/internal/core/triage"
)

// Opportunity is the ranked feed row with its merged triage stage
type Opportunity struct {
	opportunity.Opportunity
	Stage triage.Stage `json:"stage" example:"drafting"`
}

// OpportunitiesInput selects the feed window and size
// zero values fall back to the core defaults and out of range values clamp
type OpportunitiesInput struct {
	MaxAgeHours int `json:"max_age_hours,omitempty" validate:"omitempty,min=1,max=72" example:"24"`
	Max         int `json:"max,omitempty" validate:"omitempty,min=1,max=50" example:"12"`
	// Now pins the reference time for deterministic reads, RFC3339
	Now string `json:"now,omitempty" example:"2025-06-02T12:00:00Z"`
}

// PlanInput carries the client side slot snapshot plus feed knobs
type PlanInput struct {
	Slots           []donow.Slot `json:"slots"`
	IncludeMentions bool         `json:"include_mentions" example:"true"`
	QueueOnly       bool         `json:"queue_only" example:"true"`
	MaxAgeHours     int          `json:"max_age_hours,omitempty" validate:"omitempty,min=1,max=72" example:"24"`
	Max             int          `json:"max,omitempty" validate:"omitempty,min=1,max=50" example:"12"`
	// LastResetDay is the YYYY-MM-DD stamp of the last daily reset
	LastResetDay string `json:"last_reset_day,omitempty" example:"2025-06-02"`
	Now          string `json:"now,omitempty" example:"2025-06-02T12:00:00Z"`
}

// PlanOutput is the filled plan aligned slot by slot with its items
type PlanOutput struct {
	Slots    []donow.Slot   `json:"slots"`
	Items    []*Opportunity `json:"items"`
	ResetDay string         `json:"reset_day" example:"2025-06-02"`
}

// SwapInput replaces the item in one slot with the next best unused candidate
type SwapInput struct {
	PlanInput
	SlotIndex int `json:"slot_index" validate:"min=0,max=2" example:"1"`
}

// AddInput places a specific opportunity into the plan
type AddInput struct {
	Slots     []donow.Slot `json:"slots"`
	DedupeKey string       `json:"dedupe_key" validate:"required,max=300" example:"v1:x:mention:alice:123"`
}

// PinInput toggles the pin on one slot
type PinInput struct {
	Slots     []donow.Slot `json:"slots"`
	SlotIndex int          `json:"slot_index" validate:"min=0,max=2" example:"0"`
	Pinned    bool         `json:"pinned" example:"true"`
}

// RegenerateInput clears every non pinned slot
type RegenerateInput struct {
	Slots []donow.Slot `json:"slots"`
}

// SlotsOutput returns an updated slot snapshot
type SlotsOutput struct {
	Slots []donow.Slot `json:"slots"`
}

// StateInput upserts the persisted status of one opportunity
// GotReply merges into the stored outcome instead of replacing it
type StateInput struct {
	DedupeKey string `json:"dedupe_key" validate:"required,max=300" example:"v1:x:mention:alice:123"`
	Status    string `json:"status" validate:"required,oneof=new ignored done" example:"done"`
	GotReply  *bool  `json:"got_reply,omitempty" example:"true"`
}

// WorkInput upserts the drafting state of one opportunity
// nil fields keep the stored values
type WorkInput struct {
	DedupeKey string  `json:"dedupe_key" validate:"required,max=300" example:"v1:x:mention:alice:123"`
	Stage     *string `json:"stage,omitempty" validate:"omitempty,oneof=new drafting ready done ignored" example:"ready"`
	Draft     *string `json:"draft,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// WorkTouchInput stamps an interaction time on a work item
type WorkTouchInput struct {
	DedupeKey string `json:"dedupe_key" validate:"required,max=300" example:"v1:x:mention:alice:123"`
}

// WeeklyOutput reports progress against the weekly reply goal
type WeeklyOutput struct {
	Count     int    `json:"count" example:"1"`
	Goal      int    `json:"goal" example:"2"`
	WeekStart string `json:"week_start" example:"2025-06-02T00:00:00Z"`
}
