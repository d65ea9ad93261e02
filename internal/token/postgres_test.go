package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var pgNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

var tokenRowColumns = []string{
	"jti", "user_id", "tenant", "nome", "scopes", "status",
	"expires_at", "created_at", "updated_at", "last_used_at", "revoked_at", "coalesce",
}

func TestPGFindScansToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(tokenRowColumns).AddRow(
		"jti-1", "user-1", "acme.com", "ci token", []byte(`["reports:read"]`), "active",
		pgNow.AddDate(0, 1, 0), pgNow.AddDate(0, 0, -10), pgNow.AddDate(0, 0, -10), nil, nil, "",
	)
	mock.ExpectQuery("select jti, user_id, tenant, nome, scopes, status.*from access_tokens where jti=").
		WithArgs("jti-1", "user-1", "acme.com").
		WillReturnRows(rows)

	store := NewPGStore(db)
	tok, err := store.Find(context.Background(), "jti-1", "user-1", "acme.com")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if tok.JTI != "jti-1" || tok.Status != StatusActive {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if len(tok.Scopes) != 1 || tok.Scopes[0] != "reports:read" {
		t.Fatalf("scopes not decoded: %v", tok.Scopes)
	}
	if tok.LastUsedAt != nil || tok.RevokedAt != nil {
		t.Fatalf("null timestamps should stay nil: %+v", tok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select .*from access_tokens where jti=").
		WithArgs("missing", "user-1", "acme.com").
		WillReturnRows(sqlmock.NewRows(tokenRowColumns))

	store := NewPGStore(db)
	if _, err := store.Find(context.Background(), "missing", "user-1", "acme.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRevokeConditionalUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update access_tokens.*set status='revoked'.*status='active'").
		WithArgs("jti-1", "user-1", "acme.com", pgNow, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGStore(db)
	if err := store.Revoke(context.Background(), "jti-1", "user-1", "acme.com", "user-1", pgNow); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGRevokeLostRaceIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Zero rows touched but the token still exists: another request won.
	mock.ExpectExec("update access_tokens.*status='active'").
		WithArgs("jti-1", "user-1", "acme.com", pgNow, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists").
		WithArgs("jti-1", "user-1", "acme.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	store := NewPGStore(db)
	if err := store.Revoke(context.Background(), "jti-1", "user-1", "acme.com", "user-1", pgNow); !errors.Is(err, ErrAlreadyRevoked) {
		t.Fatalf("expected ErrAlreadyRevoked, got %v", err)
	}
}

func TestPGRevokeMissingTokenIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update access_tokens.*status='active'").
		WithArgs("ghost", "user-1", "acme.com", pgNow, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists").
		WithArgs("ghost", "user-1", "acme.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	store := NewPGStore(db)
	if err := store.Revoke(context.Background(), "ghost", "user-1", "acme.com", "user-1", pgNow); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGListWithFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	f := ListFilter{Page: 2, PerPage: 10, Search: "report", Status: "active", OrderBy: "nome", Order: "asc"}.Normalize()

	mock.ExpectQuery("select count.* from access_tokens where user_id=.* and tenant=.* and nome ilike .* and status=").
		WithArgs("user-1", "acme.com", "%report%", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	rows := sqlmock.NewRows(tokenRowColumns).AddRow(
		"jti-9", "user-1", "acme.com", "reporting token", []byte(`[]`), "active",
		pgNow.AddDate(0, 1, 0), pgNow.AddDate(0, 0, -1), pgNow.AddDate(0, 0, -1), pgNow, nil, "",
	)
	mock.ExpectQuery("select jti, .*from access_tokens where .*order by nome asc nulls last limit").
		WithArgs("user-1", "acme.com", "%report%", "active", 10, 10).
		WillReturnRows(rows)

	store := NewPGStore(db)
	items, total, err := store.List(context.Background(), "user-1", "acme.com", f)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 11 {
		t.Fatalf("expected total 11, got %d", total)
	}
	if len(items) != 1 || items[0].JTI != "jti-9" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].LastUsedAt == nil {
		t.Fatalf("expected last_used_at to be scanned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
