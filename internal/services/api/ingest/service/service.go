// Package service contains the event ingestion workflow
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"cockpit/internal/core/intent"
	"cockpit/internal/modkit/repokit"
	perr "cockpit/internal/platform/errors"
	"cockpit/internal/platform/logger"
	"cockpit/internal/services/api/ingest/domain"
	"cockpit/internal/services/api/ingest/repo"
)

// Service defines the ingest service contract
type Service interface {
	domain.ServicePort
}

// Options configure the single user scope
type Options struct {
	// OwnerID scopes every write; the companion pollers all feed one user
	OwnerID string
}

// Svc implements the ingest service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	opts   Options
}

// New constructs an ingest service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if opts.OwnerID == "" {
		panic("ingest.Service requires an owner id")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, opts: opts}
}

// IngestEvents validates, sanitizes, classifies, and inserts a poller batch
// duplicate events count as received but not inserted
func (s *Svc) IngestEvents(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	log := logger.C(ctx)

	res := domain.BatchResult{Received: len(in.Events)}
	for _, ev := range in.Events {
		row, keep, err := s.eventRow(ctx, ev)
		if err != nil {
			return domain.BatchResult{}, err
		}
		if !keep {
			res.Skipped++
			continue
		}
		inserted, err := s.Repo.InsertEvent(ctx, s.opts.OwnerID, row)
		if err != nil {
			return domain.BatchResult{}, err
		}
		if inserted {
			res.Inserted++
		}
	}

	log.Info().
		Int("received", res.Received).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Msg("event batch ingested")
	return res, nil
}

// eventRow converts one validated input into a storable row
// keep is false when the intent classifier rules the message out
func (s *Svc) eventRow(ctx context.Context, ev domain.EventInput) (repo.EventRow, bool, error) {
	occurred, err := time.Parse(time.RFC3339, ev.OccurredAt)
	if err != nil {
		return repo.EventRow{}, false, perr.InvalidArgf("occurred_at must be RFC3339: %v", err)
	}

	text := sanitizeText(ev.Text)
	payload := ev.Payload

	if ev.Source == "telegram" && ev.Type == "message" {
		var keep bool
		payload, keep, err = s.classifyIntent(ctx, ev, text, payload)
		if err != nil || !keep {
			return repo.EventRow{}, false, err
		}
	}

	var raw []byte
	if payload != nil {
		raw, err = json.Marshal(payload)
		if err != nil {
			return repo.EventRow{}, false, perr.Wrap(err, perr.ErrorCodeJSON, "encode payload")
		}
	}

	return repo.EventRow{
		ID:           uuid.NewString(),
		Source:       ev.Source,
		Type:         ev.Type,
		ExternalID:   ev.ExternalID,
		OccurredAt:   occurred.UTC(),
		ActorHandle:  ev.ActorHandle,
		TargetHandle: ev.TargetHandle,
		URL:          ev.URL,
		Text:         text,
		Payload:      raw,
	}, true, nil
}

// classifyIntent fills payload.intent for telegram messages when the poller
// did not provide one
// messages the classifier rules out are dropped before storage; a poller
// supplied intent is trusted as is
func (s *Svc) classifyIntent(
	ctx context.Context, ev domain.EventInput, text *string, payload map[string]any,
) (map[string]any, bool, error) {
	if v, ok := payload["intent"].(string); ok && v != "" {
		return payload, true, nil
	}

	var body string
	if text != nil {
		body = *text
	}

	stats := intent.SenderStats{}
	if ev.ActorHandle != nil && *ev.ActorHandle != "" {
		total, long, err := s.Repo.SenderStats(ctx, s.opts.OwnerID, *ev.ActorHandle)
		if err != nil {
			return nil, false, err
		}
		stats = intent.SenderStats{MessageCount: total, LongMessageCount: long}
	}

	r := intent.Classify(body, stats)
	if !r.Include {
		return nil, false, nil
	}
	if payload == nil {
		payload = map[string]any{}
	}
	payload["intent"] = string(r.Intent)
	return payload, true, nil
}
