// Package http provides http transport for cockpit
package http

import (
	stdhttp "net/http"

	"cockpit/internal/modkit/httpkit"
	"cockpit/internal/services/api/cockpit/domain"
	svc "cockpit/internal/services/api/cockpit/service"
)

// Register mounts cockpit endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// ranked feed
	httpkit.PostJSON[domain.OpportunitiesInput](r, "/opportunities", h.opportunities)

	// do-now plan
	httpkit.PostJSON[domain.PlanInput](r, "/plan", h.plan)
	httpkit.PostJSON[domain.SwapInput](r, "/plan/swap", h.swap)
	httpkit.PostJSON[domain.AddInput](r, "/plan/add", h.add)
	httpkit.PostJSON[domain.PinInput](r, "/plan/pin", h.pin)
	httpkit.PostJSON[domain.RegenerateInput](r, "/plan/regenerate", h.regenerate)

	// triage writes go through bind validation
	httpkit.PostBindJSON[domain.StateInput](r, "/state", h.state)
	httpkit.PostBindJSON[domain.WorkInput](r, "/work", h.work)
	httpkit.PostBindJSON[domain.WorkTouchInput](r, "/work/opened", h.workOpened)
	httpkit.PostBindJSON[domain.WorkTouchInput](r, "/work/copied", h.workCopied)

	// weekly goal
	httpkit.Get(r, "/weekly", h.weekly)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /cockpit/opportunities Cockpit cockpitOpportunities
// @Summary Ranked opportunity feed
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.OpportunitiesInput true "Window"
// @Success 200 {array} domain.Opportunity "ok"
// @Router /cockpit/opportunities [post]
func (h *handlers) opportunities(r *stdhttp.Request, in domain.OpportunitiesInput) (any, error) {
	return h.svc.Opportunities(r.Context(), in)
}

// swagger:route POST /cockpit/plan Cockpit cockpitPlan
// @Summary Build the three slot do-now plan
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.PlanInput true "Slots and knobs"
// @Success 200 {object} domain.PlanOutput "ok"
// @Router /cockpit/plan [post]
func (h *handlers) plan(r *stdhttp.Request, in domain.PlanInput) (any, error) {
	return h.svc.Plan(r.Context(), in)
}

// swagger:route POST /cockpit/plan/swap Cockpit cockpitPlanSwap
// @Summary Swap one slot for the next best candidate
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.SwapInput true "Slots and index"
// @Success 200 {object} domain.SlotsOutput "ok"
// @Router /cockpit/plan/swap [post]
func (h *handlers) swap(r *stdhttp.Request, in domain.SwapInput) (any, error) {
	return h.svc.Swap(r.Context(), in)
}

// swagger:route POST /cockpit/plan/add Cockpit cockpitPlanAdd
// @Summary Add a specific opportunity to the plan
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.AddInput true "Slots and key"
// @Success 200 {object} domain.SlotsOutput "ok"
// @Router /cockpit/plan/add [post]
func (h *handlers) add(r *stdhttp.Request, in domain.AddInput) (any, error) {
	return h.svc.Add(r.Context(), in)
}

// swagger:route POST /cockpit/plan/pin Cockpit cockpitPlanPin
// @Summary Pin or unpin a slot
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.PinInput true "Slots, index, pinned"
// @Success 200 {object} domain.SlotsOutput "ok"
// @Router /cockpit/plan/pin [post]
func (h *handlers) pin(r *stdhttp.Request, in domain.PinInput) (any, error) {
	return h.svc.Pin(r.Context(), in)
}

// swagger:route POST /cockpit/plan/regenerate Cockpit cockpitPlanRegenerate
// @Summary Clear non pinned slots
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.RegenerateInput true "Slots"
// @Success 200 {object} domain.SlotsOutput "ok"
// @Router /cockpit/plan/regenerate [post]
func (h *handlers) regenerate(r *stdhttp.Request, in domain.RegenerateInput) (any, error) {
	return h.svc.Regenerate(r.Context(), in)
}

// swagger:route POST /cockpit/state Cockpit cockpitState
// @Summary Upsert an opportunity status
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.StateInput true "Status change"
// @Success 200 {object} any "ok"
// @Router /cockpit/state [post]
func (h *handlers) state(r *stdhttp.Request, in domain.StateInput) (any, error) {
	if err := h.svc.SetState(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

// swagger:route POST /cockpit/work Cockpit cockpitWork
// @Summary Upsert a work item
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.WorkInput true "Work item fields"
// @Success 200 {object} any "ok"
// @Router /cockpit/work [post]
func (h *handlers) work(r *stdhttp.Request, in domain.WorkInput) (any, error) {
	if err := h.svc.UpsertWork(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

// swagger:route POST /cockpit/work/opened Cockpit cockpitWorkOpened
// @Summary Stamp last_opened_at on a work item
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.WorkTouchInput true "Key"
// @Success 200 {object} any "ok"
// @Router /cockpit/work/opened [post]
func (h *handlers) workOpened(r *stdhttp.Request, in domain.WorkTouchInput) (any, error) {
	if err := h.svc.MarkOpened(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

// swagger:route POST /cockpit/work/copied Cockpit cockpitWorkCopied
// @Summary Stamp last_copied_at on a work item
// @Tags Cockpit
// @Accept json
// @Produce json
// @Param payload body domain.WorkTouchInput true "Key"
// @Success 200 {object} any "ok"
// @Router /cockpit/work/copied [post]
func (h *handlers) workCopied(r *stdhttp.Request, in domain.WorkTouchInput) (any, error) {
	if err := h.svc.MarkCopied(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

// swagger:route GET /cockpit/weekly Cockpit cockpitWeekly
// @Summary Weekly reply goal progress
// @Tags Cockpit
// @Produce json
// @Success 200 {object} domain.WeeklyOutput "ok"
// @Router /cockpit/weekly [get]
func (h *handlers) weekly(r *stdhttp.Request) (any, error) {
	return h.svc.Weekly(r.Context())
}
