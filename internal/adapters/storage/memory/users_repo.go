package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"dog-registry/internal/domain/users"
)

type userRepo struct {
	mu         sync.RWMutex
	byUsername map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byUsername: make(map[string]users.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(u.Username))
	if key == "" {
		return errors.New("username required")
	}
	if _, exists := r.byUsername[key]; exists {
		return users.ErrUsernameTaken
	}
	r.byUsername[key] = u
	return nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}
