package dogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dog-registry/internal/ports/classifier"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dog not found")
)

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

type Service struct {
	repo      Repository
	predictor classifier.Predictor
	now       func() time.Time
}

func NewService(repo Repository, predictor classifier.Predictor) *Service {
	return &Service{
		repo:      repo,
		predictor: predictor,
		now:       time.Now,
	}
}

type ListInput struct {
	Page       int
	Size       int
	Search     string
	Prediction string
}

type Page struct {
	Items []Dog
	Total int
	Page  int
	Size  int
}

func (s *Service) List(ctx context.Context, in ListInput) (Page, error) {
	if in.Page < 0 {
		in.Page = 0
	}
	if in.Size <= 0 {
		in.Size = defaultPageSize
	}
	if in.Size > maxPageSize {
		in.Size = maxPageSize
	}

	prediction := strings.TrimSpace(in.Prediction)
	if prediction == "All" {
		prediction = ""
	}

	items, total, err := s.repo.List(ctx, ListFilter{
		Search:     strings.TrimSpace(in.Search),
		Prediction: prediction,
		Offset:     in.Page * in.Size,
		Limit:      in.Size,
	})
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items: items,
		Total: total,
		Page:  in.Page,
		Size:  in.Size,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	if strings.TrimSpace(id) == "" {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// CreateInput admite clasificación opcional: si viene vacía, el
// clasificador decide; si viene (p.ej. datos de carga inicial), se respeta.
type CreateInput struct {
	Draft
	IsSafeToPet       string
	SafetyExplanation string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Dog, error) {
	if err := validateDraft(in.Draft); err != nil {
		return Dog{}, err
	}

	safety := strings.TrimSpace(in.IsSafeToPet)
	explanation := strings.TrimSpace(in.SafetyExplanation)
	if safety == "" {
		p := s.predictor.Predict(ctx, toProfile(in.Draft))
		safety = p.IsSafeToPet
		explanation = p.SafetyExplanation
	}

	now := s.now()
	d := Dog{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Breed:             strings.TrimSpace(in.Breed),
		Age:               in.Age,
		Color:             strings.TrimSpace(in.Color),
		Weight:            in.Weight,
		Temperament:       strings.TrimSpace(in.Temperament),
		IsSafeToPet:       safety,
		SafetyExplanation: explanation,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// Update reemplaza los campos editables y SIEMPRE reclasifica con los
// valores nuevos. De esto depende el refresco de predicción del cliente:
// un update con clasificación nula es su manera de pedir recálculo.
func (s *Service) Update(ctx context.Context, id string, in Draft) (Dog, error) {
	if err := validateDraft(in); err != nil {
		return Dog{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	p := s.predictor.Predict(ctx, toProfile(in))

	current.Name = strings.TrimSpace(in.Name)
	current.Breed = strings.TrimSpace(in.Breed)
	current.Age = in.Age
	current.Color = strings.TrimSpace(in.Color)
	current.Weight = in.Weight
	current.Temperament = strings.TrimSpace(in.Temperament)
	current.IsSafeToPet = p.IsSafeToPet
	current.SafetyExplanation = p.SafetyExplanation
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Dog{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Stats devuelve contadores agregados (hoy solo TOTAL).
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{"TOTAL": total}, nil
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(d.Breed) == "" {
		return ErrInvalidInput
	}
	if d.Age < 0 {
		return ErrInvalidInput
	}
	if d.Weight != nil && *d.Weight <= 0 {
		return ErrInvalidInput
	}
	return nil
}

func toProfile(d Draft) classifier.DogProfile {
	return classifier.DogProfile{
		Name:        strings.TrimSpace(d.Name),
		Breed:       strings.TrimSpace(d.Breed),
		Age:         d.Age,
		Color:       strings.TrimSpace(d.Color),
		Weight:      d.Weight,
		Temperament: strings.TrimSpace(d.Temperament),
	}
}
