package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Opportunities(ctx context.Context, in OpportunitiesInput) ([]Opportunity, error)
	Plan(ctx context.Context, in PlanInput) (PlanOutput, error)
	Swap(ctx context.Context, in SwapInput) (SlotsOutput, error)
	Add(ctx context.Context, in AddInput) (SlotsOutput, error)
	Pin(ctx context.Context, in PinInput) (SlotsOutput, error)
	Regenerate(ctx context.Context, in RegenerateInput) (SlotsOutput, error)
	SetState(ctx context.Context, in StateInput) error
	UpsertWork(ctx context.Context, in WorkInput) error
	MarkOpened(ctx context.Context, in WorkTouchInput) error
	MarkCopied(ctx context.Context, in WorkTouchInput) error
	Weekly(ctx context.Context) (WeeklyOutput, error)
}
