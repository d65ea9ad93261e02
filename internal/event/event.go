package event

import (
	"context"
	"time"
)

// Event is a deadline-bearing back-office item (fiscal obligation, client
// meeting, filing). The dashboard renders each one with an SLA badge
// computed at response time.
type Event struct {
	ID             string
	Tenant         string
	Title          string
	Status         string
	Deadline       *time.Time
	CompletionDate *time.Time
	CreatedAt      time.Time
}

// Store lists a tenant's events. Event authoring happens elsewhere; this
// service only reads.
type Store interface {
	ListByTenant(ctx context.Context, tenant string) ([]*Event, error)
}
