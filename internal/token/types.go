package token

import "time"

// Token status values. Revoked is terminal; there is no way back to active.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// AccessToken is an issued API credential scoped to one user inside one
// tenant. Tokens are created by the issuance flow elsewhere; this service
// only reads and soft-deletes them.
type AccessToken struct {
	JTI        string
	UserID     string
	Tenant     string
	Name       string
	Scopes     []string
	Status     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastUsedAt *time.Time
	RevokedAt  *time.Time
	RevokedBy  string
}

// Expired reports whether the token lifetime has passed at the given instant.
// Expiry is derived at read time and never stored.
func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
