package token

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const tokenColumns = `jti, user_id, tenant, nome, scopes, status, expires_at, created_at, updated_at, last_used_at, revoked_at, coalesce(revoked_by, '')`

func (s *PGStore) Find(ctx context.Context, jti, userID, tenant string) (*AccessToken, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+tokenColumns+` from access_tokens where jti=$1 and user_id=$2 and tenant=$3`,
		jti, userID, tenant,
	)
	tok, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tok, nil
}

func (s *PGStore) Revoke(ctx context.Context, jti, userID, tenant, revokedBy string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		update access_tokens
		set status='revoked', revoked_at=$4, revoked_by=$5, updated_at=$4
		where jti=$1 and user_id=$2 and tenant=$3 and status='active'
	`, jti, userID, tenant, at, revokedBy)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Zero rows means either the token is gone or another request won the
	// race. Distinguish the two for the caller.
	var exists bool
	err = s.db.QueryRowContext(ctx,
		`select exists(select 1 from access_tokens where jti=$1 and user_id=$2 and tenant=$3)`,
		jti, userID, tenant,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyRevoked
	}
	return ErrNotFound
}

func (s *PGStore) List(ctx context.Context, userID, tenant string, f ListFilter) ([]*AccessToken, int, error) {
	where := []string{"user_id=$1", "tenant=$2"}
	args := []any{userID, tenant}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("nome ilike $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	cond := strings.Join(where, " and ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		`select count(*) from access_tokens where `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	// f is normalized, so the order column comes from the whitelist and the
	// direction is a known literal; neither reaches the query as raw input.
	query := fmt.Sprintf(
		`select %s from access_tokens where %s order by %s %s nulls last limit $%d offset $%d`,
		tokenColumns, cond, orderColumns[f.OrderBy], f.Order, len(args)+1, len(args)+2,
	)
	args = append(args, f.PerPage, f.offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []*AccessToken
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, tok)
	}
	return res, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToken(row rowScanner) (*AccessToken, error) {
	var (
		tok        AccessToken
		scopes     []byte
		lastUsedAt sql.NullTime
		revokedAt  sql.NullTime
	)
	err := row.Scan(
		&tok.JTI, &tok.UserID, &tok.Tenant, &tok.Name, &scopes, &tok.Status,
		&tok.ExpiresAt, &tok.CreatedAt, &tok.UpdatedAt, &lastUsedAt, &revokedAt, &tok.RevokedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(scopes) > 0 {
		_ = json.Unmarshal(scopes, &tok.Scopes)
	}
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		tok.LastUsedAt = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		tok.RevokedAt = &t
	}
	return &tok, nil
}
