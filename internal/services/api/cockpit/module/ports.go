package module

import (
	"context"

	"cockpit/internal/services/api/cockpit/domain"
	cockpitsvc "cockpit/internal/services/api/cockpit/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptCockpitPort struct{ svc cockpitsvc.Service }

// Opportunities returns the ranked feed annotated with triage stages
func (a adaptCockpitPort) Opportunities(ctx context.Context, in domain.OpportunitiesInput) ([]domain.Opportunity, error) {
	return a.svc.Opportunities(ctx, in)
}

// Plan builds the three slot do-now plan
func (a adaptCockpitPort) Plan(ctx context.Context, in domain.PlanInput) (domain.PlanOutput, error) {
	return a.svc.Plan(ctx, in)
}

// Weekly reports progress against the weekly reply goal
func (a adaptCockpitPort) Weekly(ctx context.Context) (domain.WeeklyOutput, error) {
	return a.svc.Weekly(ctx)
}
