// Package repo provides postgres access for the cockpit feed and triage state
package repo

import (
	"context"
	"time"

	"cockpit/internal/modkit/repokit"
)

// List bounds mirror the caller facing defaults
const (
	DefaultEventLimit = 60
	MaxEventLimit     = 200
	DefaultStateLimit = 200
	MaxStateLimit     = 500
)

// Repo is the minimal persistence surface for cockpit
type Repo interface {
	ListEvents(ctx context.Context, userID string, since time.Time, limit int) ([]EventRow, error)
	ListStates(ctx context.Context, userID string, limit int) ([]StateRow, error)
	ListWorkItems(ctx context.Context, userID string) ([]WorkRow, error)
	UpsertState(ctx context.Context, userID, dedupeKey, status string, outcome []byte) error
	UpsertWork(ctx context.Context, userID string, w WorkUpsert) error
	TouchWorkOpened(ctx context.Context, userID, dedupeKey string) error
	TouchWorkCopied(ctx context.Context, userID, dedupeKey string) error
}

// EventRow is one unified_events row
type EventRow struct {
	ID           string
	Source       string
	Type         string
	ExternalID   string
	OccurredAt   time.Time
	ActorHandle  *string
	TargetHandle *string
	URL          *string
	Text         *string
	Payload      []byte
}

// StateRow is one opportunity_states row
type StateRow struct {
	DedupeKey string
	Status    string
	Outcome   []byte
	UpdatedAt time.Time
}

// WorkRow is one work_items row
type WorkRow struct {
	DedupeKey    string
	Stage        *string
	Draft        *string
	Notes        *string
	LastOpenedAt *time.Time
	LastCopiedAt *time.Time
	UpdatedAt    time.Time
}

// WorkUpsert carries the writable work item fields
// nil fields keep the stored values
type WorkUpsert struct {
	DedupeKey string
	Stage     *string
	Draft     *string
	Notes     *string
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (r *queries) ListEvents(ctx context.Context, userID string, since time.Time, limit int) ([]EventRow, error) {
	const sql = `
select id::text, source, type, external_id, occurred_at,
       actor_handle, target_handle, url, text, payload
from unified_events
where user_id = $1
and occurred_at >= $2
order by occurred_at desc
limit $3
`
	rows, err := r.q.Query(ctx, sql, userID, since, clampLimit(limit, DefaultEventLimit, MaxEventLimit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EventRow
	for rows.Next() {
		var er EventRow
		if err := rows.Scan(
			&er.ID, &er.Source, &er.Type, &er.ExternalID, &er.OccurredAt,
			&er.ActorHandle, &er.TargetHandle, &er.URL, &er.Text, &er.Payload,
		); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}

func (r *queries) ListStates(ctx context.Context, userID string, limit int) ([]StateRow, error) {
	const sql = `
select dedupe_key, status, outcome, updated_at
from opportunity_states
where user_id = $1
order by updated_at desc
limit $2
`
	rows, err := r.q.Query(ctx, sql, userID, clampLimit(limit, DefaultStateLimit, MaxStateLimit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StateRow
	for rows.Next() {
		var sr StateRow
		if err := rows.Scan(&sr.DedupeKey, &sr.Status, &sr.Outcome, &sr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *queries) ListWorkItems(ctx context.Context, userID string) ([]WorkRow, error) {
	const sql = `
select dedupe_key, stage, draft, notes, last_opened_at, last_copied_at, updated_at
from work_items
where user_id = $1
`
	rows, err := r.q.Query(ctx, sql, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WorkRow
	for rows.Next() {
		var wr WorkRow
		if err := rows.Scan(
			&wr.DedupeKey, &wr.Stage, &wr.Draft, &wr.Notes,
			&wr.LastOpenedAt, &wr.LastCopiedAt, &wr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, wr)
	}
	return out, rows.Err()
}

func (r *queries) UpsertState(ctx context.Context, userID, dedupeKey, status string, outcome []byte) error {
	// outcome merges so setting a status never clobbers a recorded got_reply
	const sql = `
insert into opportunity_states (user_id, dedupe_key, status, outcome, updated_at)
values ($1, $2, $3, $4::jsonb, now())
on conflict (user_id, dedupe_key) do update
set status = excluded.status,
    outcome = coalesce(opportunity_states.outcome, '{}'::jsonb) || excluded.outcome,
    updated_at = now()
`
	if len(outcome) == 0 {
		outcome = []byte(`{}`)
	}
	_, err := r.q.Exec(ctx, sql, userID, dedupeKey, status, outcome)
	return err
}

func (r *queries) UpsertWork(ctx context.Context, userID string, w WorkUpsert) error {
	const sql = `
insert into work_items (user_id, dedupe_key, stage, draft, notes, updated_at)
values ($1, $2, $3, $4, $5, now())
on conflict (user_id, dedupe_key) do update
set stage = coalesce(excluded.stage, work_items.stage),
    draft = coalesce(excluded.draft, work_items.draft),
    notes = coalesce(excluded.notes, work_items.notes),
    updated_at = now()
`
	_, err := r.q.Exec(ctx, sql, userID, w.DedupeKey, w.Stage, w.Draft, w.Notes)
	return err
}

func (r *queries) TouchWorkOpened(ctx context.Context, userID, dedupeKey string) error {
	const sql = `
insert into work_items (user_id, dedupe_key, last_opened_at, updated_at)
values ($1, $2, now(), now())
on conflict (user_id, dedupe_key) do update
set last_opened_at = now(), updated_at = now()
`
	_, err := r.q.Exec(ctx, sql, userID, dedupeKey)
	return err
}

func (r *queries) TouchWorkCopied(ctx context.Context, userID, dedupeKey string) error {
	const sql = `
insert into work_items (user_id, dedupe_key, last_copied_at, updated_at)
values ($1, $2, now(), now())
on conflict (user_id, dedupe_key) do update
set last_copied_at = now(), updated_at = now()
`
	_, err := r.q.Exec(ctx, sql, userID, dedupeKey)
	return err
}
