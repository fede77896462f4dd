// Package domain holds DTOs for ingest http and service contracts
package domain

// EventInput is one raw platform event pushed by a companion poller
type EventInput struct {
	Source       string         `json:"source" validate:"required,oneof=x telegram" example:"x"`
	Type         string         `json:"type" validate:"required,min=1,max=40" example:"mention"`
	ExternalID   string         `json:"external_id" validate:"required,min=1,max=200" example:"1936452001"`
	OccurredAt   string         `json:"occurred_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00" example:"2025-06-02T11:45:00Z"`
	ActorHandle  *string        `json:"actor_handle,omitempty" validate:"omitempty,max=120" example:"alice"`
	TargetHandle *string        `json:"target_handle,omitempty" validate:"omitempty,max=120" example:"me"`
	URL          *string        `json:"url,omitempty" validate:"omitempty,url,max=500"`
	Text         *string        `json:"text,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// BatchInput is a push of events from one poller run
type BatchInput struct {
	Events []EventInput `json:"events" validate:"required,min=1,max=500,dive"`
}

// BatchResult reports how many rows were new
// duplicates fall out on the unique event key, skipped counts telegram
// messages the intent classifier deemed not worth surfacing
type BatchResult struct {
	Received int `json:"received" example:"20"`
	Inserted int `json:"inserted" example:"15"`
	Skipped  int `json:"skipped" example:"2"`
}
