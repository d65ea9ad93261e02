package token

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ Store = (*MemStore)(nil)

// MemStore is a mutex-guarded in-memory Store with the same semantics as the
// PostgreSQL implementation, including the conditional revoke. Used by
// handler tests and local development without a database.
type MemStore struct {
	mu     sync.Mutex
	tokens map[string]*AccessToken
}

func NewMemStore() *MemStore {
	return &MemStore{tokens: make(map[string]*AccessToken)}
}

func key(jti, userID, tenant string) string {
	return tenant + "\x00" + userID + "\x00" + jti
}

// Put inserts or replaces a token. Defaults the status to active.
func (s *MemStore) Put(tok AccessToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.Status == "" {
		tok.Status = StatusActive
	}
	s.tokens[key(tok.JTI, tok.UserID, tok.Tenant)] = &tok
}

func (s *MemStore) Find(_ context.Context, jti, userID, tenant string) (*AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[key(jti, userID, tenant)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tok
	return &cp, nil
}

func (s *MemStore) Revoke(_ context.Context, jti, userID, tenant, revokedBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[key(jti, userID, tenant)]
	if !ok {
		return ErrNotFound
	}
	if tok.Status != StatusActive {
		return ErrAlreadyRevoked
	}
	tok.Status = StatusRevoked
	revokedAt := at
	tok.RevokedAt = &revokedAt
	tok.RevokedBy = revokedBy
	tok.UpdatedAt = at
	return nil
}

func (s *MemStore) List(_ context.Context, userID, tenant string, f ListFilter) ([]*AccessToken, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*AccessToken
	for _, tok := range s.tokens {
		if tok.UserID != userID || tok.Tenant != tenant {
			continue
		}
		if f.Status != "" && tok.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(tok.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *tok
		matched = append(matched, &cp)
	}

	sortTokens(matched, f.OrderBy, f.Order)

	total := len(matched)
	start := f.offset()
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func sortTokens(list []*AccessToken, orderBy, order string) {
	less := func(a, b *AccessToken) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch orderBy {
	case "expires_at":
		less = func(a, b *AccessToken) bool { return a.ExpiresAt.Before(b.ExpiresAt) }
	case "nome":
		less = func(a, b *AccessToken) bool { return a.Name < b.Name }
	case "status":
		less = func(a, b *AccessToken) bool { return a.Status < b.Status }
	case "last_used_at":
		less = func(a, b *AccessToken) bool {
			switch {
			case a.LastUsedAt == nil:
				return false
			case b.LastUsedAt == nil:
				return true
			default:
				return a.LastUsedAt.Before(*b.LastUsedAt)
			}
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if order == "asc" {
			return less(list[i], list[j])
		}
		return less(list[j], list[i])
	})
}
