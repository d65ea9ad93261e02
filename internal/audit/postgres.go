package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"backdesk.app/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details, _ := json.Marshal(entry.Details)
	_, err := s.db.ExecContext(ctx,
		`insert into audit_log(id, token_jti, user_id, action, details, ip_address, user_agent, created_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.ID, entry.TokenJTI, entry.UserID, entry.Action, details,
		entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	)
	return err
}
