package token

import (
	"context"
	"strings"
	"time"

	"backdesk.app/internal/audit"
	"backdesk.app/internal/auth"
)

// RequestMeta carries caller network metadata into the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// RevokeResult is the success payload of a revocation.
type RevokeResult struct {
	Revoked   bool      `json:"revoked"`
	JTI       string    `json:"jti"`
	RevokedAt time.Time `json:"revoked_at"`
}

// View is the wire shape of a listed token. Expired is derived against the
// response-time clock, never persisted.
type View struct {
	JTI        string     `json:"jti"`
	Name       string     `json:"nome"`
	Scopes     []string   `json:"scopes"`
	Status     string     `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	Expired    bool       `json:"expired"`
}

// Page is one page of tokens plus pagination metadata.
type Page struct {
	Items      []View     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Service implements the token lifecycle: listing and the single
// active-to-revoked transition. It holds no state between calls.
type Service struct {
	store Store
	audit audit.Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the lifecycle service.
func NewService(store Store, auditStore audit.Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		audit: auditStore,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revoke transitions the caller's token from active to revoked.
//
// The lookup predicate combines existence, ownership and tenant: a token
// owned by someone else reports ErrNotFound, never an authorization error.
// The audit append after the transition is best effort; once the store
// mutation succeeded the revocation is reported as successful regardless of
// whether the audit entry made it in.
func (s *Service) Revoke(ctx context.Context, caller auth.Principal, jti string, meta RequestMeta) (RevokeResult, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return RevokeResult{}, ErrInvalidInput
	}

	tenant := caller.Tenant()
	tok, err := s.store.Find(ctx, jti, caller.ID, tenant)
	if err != nil {
		return RevokeResult{}, err
	}
	if tok.Status == StatusRevoked {
		return RevokeResult{}, ErrAlreadyRevoked
	}

	now := s.now().UTC()
	if err := s.store.Revoke(ctx, jti, caller.ID, tenant, caller.ID, now); err != nil {
		return RevokeResult{}, err
	}

	entry := &audit.Entry{
		TokenJTI:  jti,
		UserID:    caller.ID,
		Action:    "revoked",
		Details:   revokeDetails(tok),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		// The transition already committed; losing the audit row must not
		// undo it. Surface the failure on the audit log stream instead.
		_ = audit.LogEvent(ctx, "token.audit_append_failed", map[string]any{
			"jti":   jti,
			"error": err.Error(),
		})
	}
	_ = audit.LogEvent(ctx, "token.revoked", map[string]any{
		"jti":  jti,
		"nome": tok.Name,
	})

	return RevokeResult{Revoked: true, JTI: jti, RevokedAt: now}, nil
}

// List returns one owner-scoped page of tokens with derived expiry and
// pagination metadata computed from the exact filtered count.
func (s *Service) List(ctx context.Context, caller auth.Principal, f ListFilter) (Page, error) {
	f = f.Normalize()
	items, total, err := s.store.List(ctx, caller.ID, caller.Tenant(), f)
	if err != nil {
		return Page{}, err
	}

	now := s.now().UTC()
	views := make([]View, 0, len(items))
	for _, tok := range items {
		views = append(views, newView(tok, now))
	}
	return Page{
		Items:      views,
		Pagination: NewPagination(f.Page, f.PerPage, total),
	}, nil
}

func newView(tok *AccessToken, now time.Time) View {
	return View{
		JTI:        tok.JTI,
		Name:       tok.Name,
		Scopes:     tok.Scopes,
		Status:     tok.Status,
		ExpiresAt:  tok.ExpiresAt,
		CreatedAt:  tok.CreatedAt,
		LastUsedAt: tok.LastUsedAt,
		RevokedAt:  tok.RevokedAt,
		Expired:    tok.Expired(now),
	}
}

func revokeDetails(tok *AccessToken) map[string]string {
	return map[string]string{
		"nome":   tok.Name,
		"scopes": strings.Join(tok.Scopes, " "),
	}
}
