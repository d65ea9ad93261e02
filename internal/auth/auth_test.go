package auth

import (
	"context"
	"testing"
	"time"
)

const (
	testSecret = "test-secret"
	testIssuer = "backdesk"
)

func TestSignAndVerify(t *testing.T) {
	token, err := SignToken(testSecret, testIssuer, Principal{
		ID:    "user-42",
		Email: "Admin@Acme.COM",
		Role:  "Administrator",
	}, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	v, err := NewJWTVerifier(testSecret, testIssuer)
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	p, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.ID != "user-42" {
		t.Fatalf("unexpected subject: %s", p.ID)
	}
	if p.Email != "admin@acme.com" {
		t.Fatalf("email not normalized: %s", p.Email)
	}
	if !p.IsAdministrator() {
		t.Fatalf("expected administrator role, got %q", p.Role)
	}
	if p.Tenant() != "acme.com" {
		t.Fatalf("unexpected tenant: %s", p.Tenant())
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := SignToken("other-secret", testIssuer, Principal{ID: "user-1"}, time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	v, err := NewJWTVerifier(testSecret, testIssuer)
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	token, err := SignToken(testSecret, "someone-else", Principal{ID: "user-1"}, time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	v, err := NewJWTVerifier(testSecret, testIssuer)
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := SignToken(testSecret, testIssuer, Principal{ID: "user-1"}, time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	v, err := NewJWTVerifier(testSecret, testIssuer, WithClock(func() time.Time {
		return time.Now().Add(2 * time.Minute)
	}))
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, testIssuer)
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := v.Verify(context.Background(), raw); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestTenantDerivation(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"user@acme.com", "acme.com"},
		{"USER@ACME.COM", "acme.com"},
		{"no-at-sign", ""},
		{"", ""},
		{"trailing@", ""},
	}
	for _, tc := range cases {
		p := Principal{Email: tc.email}
		if got := p.Tenant(); got != tc.want {
			t.Fatalf("Tenant(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := PrincipalFromContext(ctx); ok {
		t.Fatal("expected no principal in empty context")
	}
	want := Principal{ID: "user-7", Email: "ops@acme.com", Role: RoleAdministrator}
	ctx = ContextWithPrincipal(ctx, want)
	got, ok := PrincipalFromContext(ctx)
	if !ok || got != want {
		t.Fatalf("unexpected principal: %+v, ok=%v", got, ok)
	}
}
