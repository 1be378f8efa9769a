package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
)

// -------------------------
// Tipos
// -------------------------

// User es el perfil que el servidor devuelve en el login: es inmutable
// durante la sesión, se reemplaza completo en cada login.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Signup son los datos para registrar una cuenta nueva.
type Signup struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthService es lo que la sesión necesita del servicio de auth remoto.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user User, err error)
	Signup(ctx context.Context, profile Signup) error
}

const (
	fallbackLoginMessage  = "Login failed"
	fallbackSignupMessage = "Signup failed"
)

// -------------------------
// Sesión
// -------------------------

// Session es el dueño único del estado de autenticación del proceso.
// Arranca en Loading y recién Bootstrap la mueve a Anonymous o
// Authenticated; ninguna vista protegida debería montarse antes.
type Session struct {
	store Store
	svc   AuthService

	mu     sync.Mutex
	state  State
	user   User
	token  string
	booted bool
}

func New(store Store, svc AuthService) *Session {
	return &Session{
		store: store,
		svc:   svc,
		state: StateLoading,
	}
}

// Bootstrap restaura la sesión persistida. Un perfil guardado que no
// parsea se trata como sesión ausente y se limpia el store. Corre una
// sola vez; llamadas posteriores no hacen nada.
func (s *Session) Bootstrap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.booted {
		return
	}
	s.booted = true

	token, okTok, err := s.store.Get(keyToken)
	if err != nil || !okTok || strings.TrimSpace(token) == "" {
		s.state = StateAnonymous
		return
	}

	raw, okUser, err := s.store.Get(keyUser)
	if err != nil || !okUser {
		s.state = StateAnonymous
		return
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Username == "" {
		// datos corruptos: equivale a logout, sin molestar al usuario
		_ = s.store.Remove(keyToken)
		_ = s.store.Remove(keyUser)
		s.state = StateAnonymous
		return
	}

	s.token = token
	s.user = u
	s.state = StateAuthenticated
}

// Login autentica contra el servicio remoto. En error la sesión queda
// Anonymous y devuelve el mensaje del servidor (o uno genérico).
func (s *Session) Login(ctx context.Context, username, password string) error {
	token, user, err := s.svc.Login(ctx, username, password)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.user = User{}
		s.token = ""
		s.mu.Unlock()
		return errors.New(messageOrDefault(err, fallbackLoginMessage))
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return errors.New(fallbackLoginMessage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.store.Set(keyToken, token)
	_ = s.store.Set(keyUser, string(raw))

	s.token = token
	s.user = user
	s.state = StateAuthenticated
	return nil
}

// Logout nunca falla: limpia el store y vuelve a Anonymous.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.store.Remove(keyToken)
	_ = s.store.Remove(keyUser)

	s.token = ""
	s.user = User{}
	s.state = StateAnonymous
}

// Signup registra una cuenta nueva. No toca el estado de la sesión:
// el usuario tiene que loguearse explícitamente después.
func (s *Session) Signup(ctx context.Context, profile Signup) error {
	if err := s.svc.Signup(ctx, profile); err != nil {
		return errors.New(messageOrDefault(err, fallbackSignupMessage))
	}
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == StateAuthenticated
}

// Token se pasa como callback al cliente HTTP: se consulta por request
// porque cambia con login/logout.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// -------------------------
// Mensajes de error del servidor
// -------------------------

type serverMessager interface {
	ServerMessage() string
}

func messageOrDefault(err error, fallback string) string {
	var sm serverMessager
	if errors.As(err, &sm) {
		if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}
