package token

import "errors"

var (
	// ErrNotFound covers both an absent token and one owned by a different
	// user or tenant; callers get no distinct "exists but forbidden" signal.
	ErrNotFound = errors.New("token: not found")
	// ErrAlreadyRevoked rejects a second revocation of the same token.
	ErrAlreadyRevoked = errors.New("token: already revoked")
	// ErrInvalidInput flags a missing or malformed request parameter.
	ErrInvalidInput = errors.New("token: invalid input")
)
