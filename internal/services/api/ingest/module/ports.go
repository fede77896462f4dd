package module

import (
	"context"

	"cockpit/internal/services/api/ingest/domain"
	ingestsvc "cockpit/internal/services/api/ingest/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptIngestPort struct{ svc ingestsvc.Service }

// IngestEvents pushes a batch of raw platform events
func (a adaptIngestPort) IngestEvents(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	return a.svc.IngestEvents(ctx, in)
}
