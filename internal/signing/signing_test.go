package signing

import (
	"testing"
	"time"
)

func TestSigner(t *testing.T) {
	secret := []byte("topsecret")
	s := NewSigner(secret)
	sig := s.Sign("admin", 1700000000)
	if len(sig) == 0 {
		t.Fatalf("expected signature")
	}
	if !s.Validate("admin", "1700000000", sig) {
		t.Fatalf("expected signature to validate")
	}
	if s.Validate("wrong", "1700000000", sig) {
		t.Fatalf("expected validation to fail for wrong subject")
	}
	if s.Validate("admin", "42", sig) {
		t.Fatalf("expected validation to fail for wrong expiry")
	}
}

func TestTokenLifecycle(t *testing.T) {
	s := NewSigner([]byte("topsecret"))
	token := s.IssueToken("admin", time.Now().Add(time.Hour))
	if !s.VerifyToken("admin", token) {
		t.Fatalf("expected fresh token to verify")
	}
	if s.VerifyToken("editor", token) {
		t.Fatalf("expected token to be bound to its subject")
	}
	if s.VerifyToken("admin", token+"x") {
		t.Fatalf("expected tampered token to fail")
	}

	expired := s.IssueToken("admin", time.Now().Add(-time.Minute))
	if s.VerifyToken("admin", expired) {
		t.Fatalf("expected expired token to fail")
	}

	other := NewSigner([]byte("rotated"))
	if other.VerifyToken("admin", token) {
		t.Fatalf("expected token to fail after secret rotation")
	}
}
