// Package repo provides postgres access for event ingestion
package repo

import (
	"context"
	"time"

	"cockpit/internal/modkit/repokit"
)

// Repo is the minimal persistence surface for ingest
type Repo interface {
	// InsertEvent writes one row, returns false when the unique event key
	// already exists
	InsertEvent(ctx context.Context, userID string, e EventRow) (bool, error)

	// SenderStats counts prior telegram messages from one sender, used by the
	// intent classifier
	SenderStats(ctx context.Context, userID, actorHandle string) (total, long int, err error)
}

// EventRow carries the writable unified_events columns
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

func (r *queries) InsertEvent(ctx context.Context, userID string, e EventRow) (bool, error) {
	// rows are immutable, replays of the same poller window are no-ops
	const sql = `
insert into unified_events
  (id, user_id, source, type, external_id, occurred_at,
   actor_handle, target_handle, url, text, payload)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb)
on conflict (user_id, source, type, external_id) do nothing
`
	payload := e.Payload
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}
	tag, err := r.q.Exec(ctx, sql,
		e.ID, userID, e.Source, e.Type, e.ExternalID, e.OccurredAt,
		e.ActorHandle, e.TargetHandle, e.URL, e.Text, payload,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) SenderStats(ctx context.Context, userID, actorHandle string) (int, int, error) {
	const sql = `
select count(*)::int,
       (count(*) filter (where length(coalesce(text, '')) >= 120))::int
from unified_events
where user_id = $1
and source = 'telegram'
and type = 'message'
and lower(coalesce(actor_handle, '')) = lower($2)
`
	var total, long int
	if err := r.q.QueryRow(ctx, sql, userID, actorHandle).Scan(&total, &long); err != nil {
		return 0, 0, err
	}
	return total, long, nil
}
