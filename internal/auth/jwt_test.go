package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Generate(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id: got %d want 42", claims.UserID)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("expected a future expiry")
	}
}

func TestTokenUniqueJTI(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		token, err := svc.Generate(1)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		claims, err := svc.Parse(token)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate jti %s", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Generate(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Generate(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenService("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Parse(tok); err == nil {
			t.Fatalf("expected error for %q", tok)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2secret" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "hunter2secret") {
		t.Fatal("expected match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch")
	}
}
