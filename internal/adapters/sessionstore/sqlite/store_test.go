package sqlite

import (
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("token"); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	if err := s.Set("token", "tok-1"); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if err := s.Set("token", "tok-2"); err != nil {
		t.Fatalf("unexpected overwrite error: %v", err)
	}

	v, ok, err := s.Get("token")
	if err != nil || !ok || v != "tok-2" {
		t.Fatalf("expected tok-2, got %q ok=%v err=%v", v, ok, err)
	}

	if err := s.Remove("token"); err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}
	if _, ok, _ := s.Get("token"); ok {
		t.Fatalf("expected key removed")
	}

	// remove de algo inexistente no falla
	if err := s.Remove("token"); err != nil {
		t.Fatalf("expected idempotent remove, got %v", err)
	}
}
