package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dog-registry/internal/ports/auth"
)

const bcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("user account is deactivated")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
)

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, issuer auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		now:    time.Now,
	}
}

// LoginResult: token firmado + el usuario (el handler arma el DTO).
type LoginResult struct {
	Token string
	User  User
}

func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		// mismo error que password incorrecto: no filtramos qué usuarios existen
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.Active {
		return LoginResult{}, ErrAccountInactive
	}

	token, err := s.issuer.Issue(ctx, auth.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: u}, nil
}

type SignupInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Signup crea una cuenta STANDARD. No emite token: el alta exige un
// login explícito después.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Password) == "" {
		return User{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         RoleStandard,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}
