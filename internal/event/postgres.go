package event

import (
	"context"
	"database/sql"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) ListByTenant(ctx context.Context, tenant string) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, tenant, title, status, deadline, completion_date, created_at
		from events where tenant=$1
		order by deadline asc nulls last, created_at asc
	`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Event
	for rows.Next() {
		var (
			ev         Event
			deadline   sql.NullTime
			completion sql.NullTime
		)
		if err := rows.Scan(&ev.ID, &ev.Tenant, &ev.Title, &ev.Status, &deadline, &completion, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if deadline.Valid {
			t := deadline.Time
			ev.Deadline = &t
		}
		if completion.Valid {
			t := completion.Time
			ev.CompletionDate = &t
		}
		res = append(res, &ev)
	}
	return res, rows.Err()
}
