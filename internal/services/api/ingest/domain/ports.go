package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	IngestEvents(ctx context.Context, in BatchInput) (BatchResult, error)
}
