// Package http provides http transport for ingest
package http

import (
	stdhttp "net/http"

	"cockpit/internal/modkit/httpkit"
	"cockpit/internal/services/api/ingest/domain"
	svc "cockpit/internal/services/api/ingest/service"
)

// Register mounts ingest endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// poller push, bind validation covers the whole batch
	httpkit.PostBindJSON[domain.BatchInput](r, "/events", h.postEvents)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /ingest/events Ingest ingestEvents
// @Summary Ingest a batch of raw platform events
// @Tags Ingest
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Events"
// @Success 200 {object} domain.BatchResult "ok"
// @Router /ingest/events [post]
func (h *handlers) postEvents(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.IngestEvents(r.Context(), in)
}
