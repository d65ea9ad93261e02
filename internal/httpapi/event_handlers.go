package httpapi

import (
	"net/http"
	"time"

	"backdesk.app/internal/sla"
)

type eventView struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	SLA            sla.Badge  `json:"sla"`
}

// handleEvents serves /v1/events: the tenant's events decorated with a
// deadline badge computed at response time.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	principal, ok := a.requireAdministrator(w, r)
	if !ok {
		return
	}

	events, err := a.events.ListByTenant(r.Context(), principal.Tenant())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now().UTC()
	items := make([]eventView, 0, len(events))
	for _, ev := range events {
		items = append(items, eventView{
			ID:             ev.ID,
			Title:          ev.Title,
			Status:         ev.Status,
			Deadline:       ev.Deadline,
			CompletionDate: ev.CompletionDate,
			SLA:            sla.ClassifyAt(ev.Deadline, ev.Status, ev.CompletionDate, now),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"as_of": now.Format(time.RFC3339),
	})
}
