package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := NewJWTVerifier("test-secret")
	tok, err := v.Issue("ops@superfunded", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !p.IsAdmin() || p.Subject != "ops@superfunded" {
		t.Fatalf("principal=%+v", p)
	}
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier("test-secret")
	other := NewJWTVerifier("other-secret")
	foreign, _ := other.Issue("x", RoleAdmin, time.Hour)

	expired := NewJWTVerifier("test-secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue("x", RoleAdmin, time.Hour)

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      old,
	}
	for name, tok := range cases {
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: err=%v", name, err)
		}
	}
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("empty: err=%v", err)
	}
	if _, err := NewJWTVerifier("").Verify(context.Background(), "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unconfigured verifier must reject")
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := WithPrincipal(context.Background(), &Principal{Subject: "a", Role: "viewer"})
	p := PrincipalFrom(ctx)
	if p == nil || p.IsAdmin() {
		t.Fatalf("principal=%+v", p)
	}
	if PrincipalFrom(context.Background()) != nil {
		t.Fatalf("expected nil principal")
	}
}
