package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dog-registry/internal/domain/dogs"
)

type dogRepo struct {
	mu   sync.RWMutex
	byID map[string]dogs.Dog
}

func NewDogRepo() dogs.Repository {
	return &dogRepo{
		byID: make(map[string]dogs.Dog),
	}
}

func (r *dogRepo) Create(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dog already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dogRepo) Update(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; !exists {
		return dogs.ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dogRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

func (r *dogRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return dogs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *dogRepo) List(ctx context.Context, f dogs.ListFilter) ([]dogs.Dog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]dogs.Dog, 0)
	for _, d := range r.byID {
		if !matches(d, f) {
			continue
		}
		matched = append(matched, d)
	}

	// Orden estable por created_at asc (consistente entre páginas)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)

	if f.Offset >= total {
		return []dogs.Dog{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *dogRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// matches: el filtro por clasificación, si viene, gana sobre la
// búsqueda de texto.
func matches(d dogs.Dog, f dogs.ListFilter) bool {
	if f.Prediction != "" {
		return d.IsSafeToPet == f.Prediction
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Breed), term)
	}
	return true
}
