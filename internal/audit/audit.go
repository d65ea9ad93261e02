package audit

import (
	"context"
	"time"
)

// Entry is an append-only record of a token lifecycle transition.
// Entries are never updated or deleted.
type Entry struct {
	ID        string
	TokenJTI  string
	UserID    string
	Action    string
	Details   map[string]string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// Store appends immutable entries. There is deliberately no read-modify
// surface here; reporting runs straight against the table.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
}
