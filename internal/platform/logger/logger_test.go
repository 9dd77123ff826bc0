package logger

import "testing"

func TestRedactionApply(t *testing.T) {
	r := &redaction{
		enabled: true,
		salt:    "pepper",
		drop:    []string{"api_key", "authorization"},
		digest:  []string{"session_id"},
	}
	in := []interface{}{
		"api_key", "sk-live-123",
		"Authorization", "Bearer abc",
		"session_id", "sess-1",
		"status", 429,
		"dangling",
	}
	out := r.apply(in)
	if len(out) != len(in) {
		t.Fatalf("len=%d want %d", len(out), len(in))
	}
	if out[1] != redacted || out[3] != redacted {
		t.Fatalf("credentials not redacted: %v", out)
	}
	hashed, ok := out[5].(string)
	if !ok || hashed == "sess-1" || len(hashed) != len("hash:")+12 {
		t.Fatalf("session_id not hashed: %v", out[5])
	}
	if again := r.apply(in)[5]; again != hashed {
		t.Fatalf("digest must be stable, got %v and %v", hashed, again)
	}
	if out[7] != 429 || out[8] != "dangling" {
		t.Fatalf("other values changed: %v", out)
	}
	if in[1] != "sk-live-123" {
		t.Fatalf("input slice was mutated")
	}
}

func TestRedactionDisabled(t *testing.T) {
	r := &redaction{enabled: false, drop: []string{"api_key"}}
	out := r.apply([]interface{}{"api_key", "sk"})
	if out[1] != "sk" {
		t.Fatalf("disabled redaction changed %v", out)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4ifQ.sig") {
		t.Fatalf("expected jwt")
	}
	if looksLikeJWT("a.b.c") {
		t.Fatalf("short segments are not a jwt")
	}
}
