package token

import (
	"context"
	"time"
)

// Store describes the persistence operations the lifecycle service needs.
// Every operation is scoped by the owning (user, tenant) pair; a token owned
// by someone else behaves exactly like a missing one.
type Store interface {
	// Find returns the token identified by (jti, userID, tenant), or
	// ErrNotFound.
	Find(ctx context.Context, jti, userID, tenant string) (*AccessToken, error)

	// Revoke flips an active token to revoked in a single conditional
	// update. The status=active predicate is the concurrency contract:
	// of two racing revocations exactly one observes a row change, the
	// other gets ErrAlreadyRevoked. Returns ErrNotFound when no such
	// token exists for the owner.
	Revoke(ctx context.Context, jti, userID, tenant, revokedBy string, at time.Time) error

	// List returns one page of the owner's tokens matching the normalized
	// filter, plus the exact total count of the filtered set.
	List(ctx context.Context, userID, tenant string, f ListFilter) ([]*AccessToken, int, error)
}
