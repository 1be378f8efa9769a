package token

import (
	"context"
	"testing"
	"time"

	"dog-registry/internal/ports/auth"
)

func TestService_IssueAndVerify_RoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	tok, err := svc.Issue(context.Background(), auth.Claims{
		UserID:   "user-1",
		Username: "admin",
		Role:     "ADMIN",
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected non-empty token")
	}

	c, err := svc.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if c.UserID != "user-1" || c.Username != "admin" || c.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %#v", c)
	}
}

func TestService_Verify_RejectsExpired(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	base := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	tok, err := svc.Issue(context.Background(), auth.Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.Verify(context.Background(), tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestService_Verify_RejectsOtherSecret(t *testing.T) {
	a := NewService("secret-a", time.Hour)
	b := NewService("secret-b", time.Hour)

	tok, err := a.Issue(context.Background(), auth.Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := b.Verify(context.Background(), tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestService_Issue_RequiresUserID(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	if _, err := svc.Issue(context.Background(), auth.Claims{}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
