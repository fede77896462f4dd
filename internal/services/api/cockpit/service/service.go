// Package service contains the cockpit feed and planning workflows
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"cockpit/internal/core/donow"
	"cockpit/internal/core/opportunity"
	"cockpit/internal/core/triage"
	"cockpit/internal/modkit/repokit"
	perr "cockpit/internal/platform/errors"
	"cockpit/internal/services/api/cockpit/domain"
	"cockpit/internal/services/api/cockpit/repo"
)

// Service defines the cockpit service contract
type Service interface {
	domain.ServicePort
}

// Options configure the single user scope and the weekly goal
type Options struct {
	// OwnerID scopes every query; there is no auth flow, the service is single user
	OwnerID string
	// WeeklyGoal is the displayed reply target per ISO week
	WeeklyGoal int
}

// Svc implements the cockpit service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	opts   Options

	// clock is a test seam, defaults to time.Now
	clock func() time.Time
}

// New constructs a cockpit service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("cockpit.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("cockpit.Service requires a non nil Repo binder")
	}
	if opts.OwnerID == "" {
		panic("cockpit.Service requires an owner id")
	}
	if opts.WeeklyGoal <= 0 {
		opts.WeeklyGoal = 2
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, opts: opts, clock: time.Now}
}

// refTime resolves the optional client pinned reference time
func (s *Svc) refTime(raw string) (time.Time, error) {
	if raw == "" {
		return s.clock().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, perr.InvalidArgf("now must be RFC3339: %v", err)
	}
	return t.UTC(), nil
}

// snapshot fetches events, states, and work items concurrently
// the three reads are independent so a torn snapshot is acceptable
func (s *Svc) snapshot(ctx context.Context, since time.Time) (
	events []repo.EventRow, states []repo.StateRow, work []repo.WorkRow, err error,
) {
	var wg sync.WaitGroup
	var errs [3]error
	wg.Add(3)
	go func() {
		defer wg.Done()
		events, errs[0] = s.Repo.ListEvents(ctx, s.opts.OwnerID, since, 0)
	}()
	go func() {
		defer wg.Done()
		states, errs[1] = s.Repo.ListStates(ctx, s.opts.OwnerID, 0)
	}()
	go func() {
		defer wg.Done()
		work, errs[2] = s.Repo.ListWorkItems(ctx, s.opts.OwnerID)
	}()
	wg.Wait()
	return events, states, work, errors.Join(errs[:]...)
}

func rawEvent(r repo.EventRow) opportunity.RawEvent {
	var raw map[string]any
	if len(r.Payload) > 0 {
		// malformed payloads decode to the zero view, never an error
		_ = json.Unmarshal(r.Payload, &raw)
	}
	return opportunity.RawEvent{
		ID:           r.ID,
		Source:       opportunity.Source(r.Source),
		Type:         r.Type,
		ExternalID:   r.ExternalID,
		OccurredAt:   r.OccurredAt.UTC().Format(time.RFC3339),
		ActorHandle:  r.ActorHandle,
		TargetHandle: r.TargetHandle,
		URL:          r.URL,
		Text:         r.Text,
		Payload:      opportunity.DecodePayload(raw),
	}
}

func stateRecord(r repo.StateRow) opportunity.StateRecord {
	var outcome struct {
		GotReply bool `json:"got_reply"`
	}
	if len(r.Outcome) > 0 {
		_ = json.Unmarshal(r.Outcome, &outcome)
	}
	return opportunity.StateRecord{
		DedupeKey: r.DedupeKey,
		Status:    opportunity.Status(r.Status),
		GotReply:  outcome.GotReply,
		UpdatedAt: r.UpdatedAt,
	}
}

func workItem(r repo.WorkRow) triage.WorkItem {
	w := triage.WorkItem{
		DedupeKey:    r.DedupeKey,
		Draft:        r.Draft,
		Notes:        r.Notes,
		LastOpenedAt: r.LastOpenedAt,
		LastCopiedAt: r.LastCopiedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Stage != nil {
		w.Stage = triage.Stage(*r.Stage)
	}
	return w
}

// pool builds the ranked candidate list plus the work item index for one read
func (s *Svc) pool(ctx context.Context, now time.Time, maxAgeHours, max int) (
	[]opportunity.Opportunity, map[string]triage.WorkItem, error,
) {
	if maxAgeHours <= 0 {
		maxAgeHours = opportunity.DefaultAgeHours
	}
	if max <= 0 {
		max = opportunity.DefaultMax
	}
	since := now.Add(-time.Duration(opportunity.MaxAgeHours) * time.Hour)

	eventRows, stateRows, workRows, err := s.snapshot(ctx, since)
	if err != nil {
		return nil, nil, err
	}

	events := make([]opportunity.RawEvent, 0, len(eventRows))
	for _, r := range eventRows {
		events = append(events, rawEvent(r))
	}
	states := make([]opportunity.StateRecord, 0, len(stateRows))
	for _, r := range stateRows {
		states = append(states, stateRecord(r))
	}
	items := make([]triage.WorkItem, 0, len(workRows))
	for _, r := range workRows {
		items = append(items, workItem(r))
	}

	ranked := opportunity.Build(opportunity.BuildInput{
		Events:      events,
		States:      states,
		MaxAgeHours: maxAgeHours,
		Max:         max,
		Now:         now,
	})
	return ranked, triage.ItemsByKey(items), nil
}

// Opportunities returns the ranked feed annotated with merged triage stages
func (s *Svc) Opportunities(ctx context.Context, in domain.OpportunitiesInput) ([]domain.Opportunity, error) {
	now, err := s.refTime(in.Now)
	if err != nil {
		return nil, err
	}
	ranked, items, err := s.pool(ctx, now, in.MaxAgeHours, in.Max)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Opportunity, 0, len(ranked))
	for _, o := range ranked {
		out = append(out, domain.Opportunity{
			Opportunity: o,
			Stage:       triage.ResolveStage(o.DedupeKey, o.State, items),
		})
	}
	return out, nil
}

// planInput assembles the core planner input for the current pool
func (s *Svc) planInput(ctx context.Context, in domain.PlanInput, now time.Time) (donow.PlanInput, string, error) {
	slots, day := donow.ResetDaily(in.Slots, in.LastResetDay, now)
	ranked, items, err := s.pool(ctx, now, in.MaxAgeHours, in.Max)
	if err != nil {
		return donow.PlanInput{}, "", err
	}
	return donow.PlanInput{
		Slots:           slots,
		Candidates:      ranked,
		IncludeMentions: in.IncludeMentions,
		QueueOnly:       in.QueueOnly,
		StageFor: func(key string, fallback opportunity.Status) triage.Stage {
			return triage.ResolveStage(key, fallback, items)
		},
	}, day, nil
}

// Plan applies the daily reset and fills the three do-now slots
func (s *Svc) Plan(ctx context.Context, in domain.PlanInput) (domain.PlanOutput, error) {
	now, err := s.refTime(in.Now)
	if err != nil {
		return domain.PlanOutput{}, err
	}
	pin, day, err := s.planInput(ctx, in, now)
	if err != nil {
		return domain.PlanOutput{}, err
	}
	plan := donow.BuildPlan(pin)

	items := make([]*domain.Opportunity, len(plan.Items))
	for i, it := range plan.Items {
		if it == nil {
			continue
		}
		items[i] = &domain.Opportunity{
			Opportunity: *it,
			Stage:       pin.StageFor(it.DedupeKey, it.State),
		}
	}
	return domain.PlanOutput{Slots: plan.Slots, Items: items, ResetDay: day}, nil
}

// Swap replaces one slot with the next best candidate not already planned
func (s *Svc) Swap(ctx context.Context, in domain.SwapInput) (domain.SlotsOutput, error) {
	now, err := s.refTime(in.Now)
	if err != nil {
		return domain.SlotsOutput{}, err
	}
	pin, _, err := s.planInput(ctx, in.PlanInput, now)
	if err != nil {
		return domain.SlotsOutput{}, err
	}
	return domain.SlotsOutput{Slots: donow.Swap(pin, in.SlotIndex)}, nil
}

// Add places a specific opportunity into the slot snapshot
func (s *Svc) Add(ctx context.Context, in domain.AddInput) (domain.SlotsOutput, error) {
	return domain.SlotsOutput{Slots: donow.Add(in.Slots, in.DedupeKey)}, nil
}

// Pin toggles the pin flag on one slot
func (s *Svc) Pin(ctx context.Context, in domain.PinInput) (domain.SlotsOutput, error) {
	return domain.SlotsOutput{Slots: donow.Pin(in.Slots, in.SlotIndex, in.Pinned)}, nil
}

// Regenerate clears every non pinned slot
func (s *Svc) Regenerate(ctx context.Context, in domain.RegenerateInput) (domain.SlotsOutput, error) {
	return domain.SlotsOutput{Slots: donow.Regenerate(in.Slots)}, nil
}

// SetState upserts the persisted status, merging got_reply into the outcome
func (s *Svc) SetState(ctx context.Context, in domain.StateInput) error {
	var outcome []byte
	if in.GotReply != nil {
		b, err := json.Marshal(map[string]bool{"got_reply": *in.GotReply})
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode outcome")
		}
		outcome = b
	}
	return s.Repo.UpsertState(ctx, s.opts.OwnerID, in.DedupeKey, in.Status, outcome)
}

// UpsertWork upserts the drafting state; nil fields keep stored values
func (s *Svc) UpsertWork(ctx context.Context, in domain.WorkInput) error {
	return s.Repo.UpsertWork(ctx, s.opts.OwnerID, repo.WorkUpsert{
		DedupeKey: in.DedupeKey,
		Stage:     in.Stage,
		Draft:     in.Draft,
		Notes:     in.Notes,
	})
}

// MarkOpened stamps last_opened_at, creating the work item when absent
func (s *Svc) MarkOpened(ctx context.Context, in domain.WorkTouchInput) error {
	return s.Repo.TouchWorkOpened(ctx, s.opts.OwnerID, in.DedupeKey)
}

// MarkCopied stamps last_copied_at, creating the work item when absent
func (s *Svc) MarkCopied(ctx context.Context, in domain.WorkTouchInput) error {
	return s.Repo.TouchWorkCopied(ctx, s.opts.OwnerID, in.DedupeKey)
}

// Weekly counts X replies landed since Monday 00:00 UTC
func (s *Svc) Weekly(ctx context.Context) (domain.WeeklyOutput, error) {
	rows, err := s.Repo.ListStates(ctx, s.opts.OwnerID, repo.MaxStateLimit)
	if err != nil {
		return domain.WeeklyOutput{}, err
	}
	states := make([]opportunity.StateRecord, 0, len(rows))
	for _, r := range rows {
		states = append(states, stateRecord(r))
	}
	weekStart := triage.WeekStartUTC(s.clock().UTC())
	return domain.WeeklyOutput{
		Count:     triage.CountWeeklyReplies(states, weekStart),
		Goal:      s.opts.WeeklyGoal,
		WeekStart: weekStart.Format(time.RFC3339),
	}, nil
}
