package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier resolves a bearer credential into a Principal. The service only
// consumes credentials; issuance belongs to the identity provider.
type Verifier interface {
	Verify(ctx context.Context, bearer string) (Principal, error)
}

// Claims are the JWT claims the verifier understands.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256-signed bearer tokens.
type JWTVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ Verifier = (*JWTVerifier)(nil)

// VerifierOption configures JWTVerifier behavior.
type VerifierOption func(*JWTVerifier)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) VerifierOption {
	return func(v *JWTVerifier) {
		if fn != nil {
			v.now = fn
		}
	}
}

// NewJWTVerifier constructs a verifier for the given shared secret and issuer.
func NewJWTVerifier(secret, issuer string, opts ...VerifierOption) (*JWTVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	v := &JWTVerifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify parses and validates the token and returns the caller identity.
func (v *JWTVerifier) Verify(_ context.Context, bearer string) (Principal, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return Principal{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(bearer, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		ID:    claims.Subject,
		Email: strings.TrimSpace(strings.ToLower(claims.Email)),
		Role:  strings.TrimSpace(strings.ToLower(claims.Role)),
	}, nil
}

// SignToken mints an HS256 token for the given identity. Used by tests and
// the local-dev token command; production credentials come from the identity
// provider.
func SignToken(secret, issuer string, p Principal, ttl time.Duration) (string, error) {
	if strings.TrimSpace(p.ID) == "" {
		return "", errors.New("auth: principal id is required")
	}
	if ttl <= 0 {
		return "", errors.New("auth: ttl must be greater than zero")
	}

	now := time.Now().UTC()
	claims := Claims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
