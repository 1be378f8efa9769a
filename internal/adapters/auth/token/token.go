// Package token implementa los ports de auth con JWT HS256 locales.
// El registro verifica sus propios tokens; no hay verifier remoto.
package token

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dog-registry/internal/ports/auth"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

type claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service emite y verifica tokens con un secreto compartido.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

var _ auth.AuthVerifier = (*Service)(nil)
var _ auth.TokenIssuer = (*Service)(nil)

func (s *Service) Issue(ctx context.Context, c auth.Claims) (string, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return "", errors.New("user id required")
	}

	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return auth.Claims{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
	}, nil
}
