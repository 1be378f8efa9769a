package session

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Doubles
// -------------------------

type testStore struct {
	kv map[string]string
}

func newTestStore() *testStore {
	return &testStore{kv: make(map[string]string)}
}

func (s *testStore) Get(key string) (string, bool, error) {
	v, ok := s.kv[key]
	return v, ok, nil
}

func (s *testStore) Set(key, value string) error {
	s.kv[key] = value
	return nil
}

func (s *testStore) Remove(key string) error {
	delete(s.kv, key)
	return nil
}

type testAuthErr struct {
	msg string
}

func (e *testAuthErr) Error() string         { return e.msg }
func (e *testAuthErr) ServerMessage() string { return e.msg }

type testAuthService struct {
	loginToken string
	loginUser  User
	loginErr   error

	signupErr   error
	signupCalls int
}

func (s *testAuthService) Login(ctx context.Context, username, password string) (string, User, error) {
	if s.loginErr != nil {
		return "", User{}, s.loginErr
	}
	return s.loginToken, s.loginUser, nil
}

func (s *testAuthService) Signup(ctx context.Context, profile Signup) error {
	s.signupCalls++
	return s.signupErr
}

// -------------------------
// Bootstrap
// -------------------------

func TestBootstrap_RestoresValidSession(t *testing.T) {
	st := newTestStore()
	st.kv[keyToken] = "tok-1"
	st.kv[keyUser] = `{"id":"u1","username":"admin","role":"ADMIN"}`

	s := New(st, &testAuthService{})
	if s.State() != StateLoading {
		t.Fatalf("expected initial state Loading, got %v", s.State())
	}

	s.Bootstrap()

	if s.State() != StateAuthenticated {
		t.Fatalf("expected Authenticated after bootstrap, got %v", s.State())
	}
	u, ok := s.User()
	if !ok || u.Username != "admin" {
		t.Fatalf("unexpected user after bootstrap: %+v ok=%v", u, ok)
	}
	if s.Token() != "tok-1" {
		t.Fatalf("expected restored token, got %q", s.Token())
	}
}

func TestBootstrap_MissingToken(t *testing.T) {
	st := newTestStore()
	st.kv[keyUser] = `{"id":"u1","username":"admin","role":"ADMIN"}`

	s := New(st, &testAuthService{})
	s.Bootstrap()

	if s.State() != StateAnonymous {
		t.Fatalf("expected Anonymous without token, got %v", s.State())
	}
}

func TestBootstrap_MissingUser(t *testing.T) {
	st := newTestStore()
	st.kv[keyToken] = "tok-1"

	s := New(st, &testAuthService{})
	s.Bootstrap()

	if s.State() != StateAnonymous {
		t.Fatalf("expected Anonymous without user, got %v", s.State())
	}
}

func TestBootstrap_CorruptUserClearsStore(t *testing.T) {
	st := newTestStore()
	st.kv[keyToken] = "tok-1"
	st.kv[keyUser] = `{not json`

	s := New(st, &testAuthService{})
	s.Bootstrap()

	if s.State() != StateAnonymous {
		t.Fatalf("expected Anonymous after corrupt session, got %v", s.State())
	}
	if len(st.kv) != 0 {
		t.Fatalf("expected store cleared after corrupt session, got %v", st.kv)
	}
}

func TestBootstrap_RunsOnce(t *testing.T) {
	st := newTestStore()
	s := New(st, &testAuthService{})
	s.Bootstrap()

	// una restauración tardía no debe revivir la sesión
	st.kv[keyToken] = "tok-1"
	st.kv[keyUser] = `{"id":"u1","username":"admin","role":"ADMIN"}`
	s.Bootstrap()

	if s.State() != StateAnonymous {
		t.Fatalf("expected second bootstrap to be a no-op, got %v", s.State())
	}
}

// -------------------------
// Login / Logout / Signup
// -------------------------

func TestLogin_SuccessPersistsSession(t *testing.T) {
	st := newTestStore()
	svc := &testAuthService{
		loginToken: "tok-9",
		loginUser:  User{ID: "u1", Username: "admin", Role: "ADMIN"},
	}
	s := New(st, svc)
	s.Bootstrap()

	if err := s.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	if s.State() != StateAuthenticated {
		t.Fatalf("expected Authenticated, got %v", s.State())
	}
	if st.kv[keyToken] != "tok-9" {
		t.Fatalf("expected token persisted, got %q", st.kv[keyToken])
	}
	if st.kv[keyUser] == "" {
		t.Fatalf("expected user profile persisted")
	}
}

func TestLogin_WrongCredentials_UsesServerMessage(t *testing.T) {
	st := newTestStore()
	svc := &testAuthService{loginErr: &testAuthErr{msg: "Invalid credentials"}}
	s := New(st, svc)
	s.Bootstrap()

	err := s.Login(context.Background(), "admin", "nope")
	if err == nil {
		t.Fatalf("expected login error")
	}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", err.Error())
	}
	if s.State() != StateAnonymous {
		t.Fatalf("expected Anonymous after failed login, got %v", s.State())
	}
	if len(st.kv) != 0 {
		t.Fatalf("expected nothing persisted after failed login, got %v", st.kv)
	}
}

func TestLogin_GenericFallbackMessage(t *testing.T) {
	st := newTestStore()
	svc := &testAuthService{loginErr: errors.New("dial tcp: connection refused")}
	s := New(st, svc)
	s.Bootstrap()

	err := s.Login(context.Background(), "admin", "admin123")
	if err == nil || err.Error() != "Login failed" {
		t.Fatalf("expected fallback message, got %v", err)
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	st := newTestStore()
	svc := &testAuthService{
		loginToken: "tok-9",
		loginUser:  User{ID: "u1", Username: "admin", Role: "ADMIN"},
	}
	s := New(st, svc)
	s.Bootstrap()
	if err := s.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	s.Logout()

	if s.State() != StateAnonymous {
		t.Fatalf("expected Anonymous after logout, got %v", s.State())
	}
	if s.Token() != "" {
		t.Fatalf("expected empty token after logout")
	}
	if len(st.kv) != 0 {
		t.Fatalf("expected store cleared after logout, got %v", st.kv)
	}
}

func TestSignup_DoesNotChangeState(t *testing.T) {
	st := newTestStore()
	svc := &testAuthService{}
	s := New(st, svc)
	s.Bootstrap()

	if err := s.Signup(context.Background(), Signup{Username: "nuevo", Password: "x"}); err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}
	if svc.signupCalls != 1 {
		t.Fatalf("expected 1 signup call, got %d", svc.signupCalls)
	}
	if s.State() != StateAnonymous {
		t.Fatalf("signup must not authenticate, got %v", s.State())
	}
}

func TestSignup_FallbackMessage(t *testing.T) {
	st := newTestStore()
	svc := &testAuthService{signupErr: errors.New("boom")}
	s := New(st, svc)
	s.Bootstrap()

	err := s.Signup(context.Background(), Signup{Username: "nuevo"})
	if err == nil || err.Error() != "Signup failed" {
		t.Fatalf("expected fallback signup message, got %v", err)
	}
}
