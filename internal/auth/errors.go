package auth

import "errors"

var (
	// ErrInvalidToken indicates the bearer credential failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrUnauthorized indicates the caller lacks the required role.
	ErrUnauthorized = errors.New("auth: unauthorized")
)
