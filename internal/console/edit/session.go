// Package edit compone el estado del formulario, el workflow de
// predicción y el submit en un ciclo de edición por registro.
package edit

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"dog-registry/internal/console/predict"
	"dog-registry/internal/domain/dogs"
)

// Service es lo que la sesión de edición necesita del record store.
type Service interface {
	GetDog(ctx context.Context, id string) (dogs.Dog, error)
	CreateDog(ctx context.Context, d dogs.Draft) (dogs.Dog, error)
	UpdateDog(ctx context.Context, id string, d dogs.Draft) (dogs.Dog, error)
}

var (
	ErrReadOnly  = errors.New("record is read-only for this user")
	ErrCancelled = errors.New("edit session was cancelled")
)

// Form son los campos tal como los tipea el usuario. La conversión a
// tipos pasa recién en la validación del submit.
type Form struct {
	Name        string
	Breed       string
	Age         string
	Color       string
	Weight      string
	Temperament string
}

type Session struct {
	svc      Service
	workflow *predict.Workflow

	id        string // vacío => borrador
	readOnly  bool
	cancelled bool

	Form Form
}

// NewDraft arranca una sesión para un registro todavía no persistido.
func NewDraft(svc Service, privileged bool) *Session {
	return &Session{
		svc:      svc,
		workflow: predict.New(svc, ""),
		readOnly: !privileged,
	}
}

// Load arranca una sesión sobre un registro existente. Si el fetch
// falla, no hay sesión: el caller muestra el error a nivel de página.
func Load(ctx context.Context, svc Service, id string, privileged bool) (*Session, error) {
	dog, err := svc.GetDog(ctx, id)
	if err != nil {
		return nil, err
	}

	s := &Session{
		svc:      svc,
		workflow: predict.New(svc, dog.ID),
		id:       dog.ID,
		readOnly: !privileged,
		Form:     formFromDog(dog),
	}

	if dog.IsSafeToPet != "" {
		s.workflow.Seed(predict.Prediction{
			Classification: dog.IsSafeToPet,
			Explanation:    dog.SafetyExplanation,
		})
	}

	return s, nil
}

func (s *Session) IsNew() bool    { return s.id == "" }
func (s *Session) ReadOnly() bool { return s.readOnly }

// Prediction expone el estado del badge: último valor y si hay una
// recomputación en vuelo.
func (s *Session) Prediction() (predict.Prediction, bool) { return s.workflow.Last() }
func (s *Session) PredictionPending() bool                { return s.workflow.Pending() }

// OnPredictionChange registra el callback de refresco de la vista.
// Debe setearse antes del primer FieldBlurred.
func (s *Session) OnPredictionChange(fn func()) {
	s.workflow.OnChange = fn
}

// FieldBlurred avisa al workflow que un campo monitoreado perdió el
// foco con los valores actuales del formulario.
func (s *Session) FieldBlurred(ctx context.Context) {
	if s.readOnly || s.cancelled {
		return
	}
	s.workflow.FieldBlurred(ctx, predict.Fields{
		Name:        s.Form.Name,
		Breed:       s.Form.Breed,
		Age:         s.Form.Age,
		Color:       s.Form.Color,
		Weight:      s.Form.Weight,
		Temperament: s.Form.Temperament,
	})
}

// Validate chequea los campos requeridos y numéricos sin tocar la red.
func (s *Session) Validate() error {
	_, err := s.draft()
	return err
}

// Submit valida y crea o actualiza según corresponda. En error el
// formulario queda intacto para reintentar.
func (s *Session) Submit(ctx context.Context) (dogs.Dog, error) {
	if s.readOnly {
		return dogs.Dog{}, ErrReadOnly
	}
	if s.cancelled {
		return dogs.Dog{}, ErrCancelled
	}

	draft, err := s.draft()
	if err != nil {
		return dogs.Dog{}, err
	}

	if s.id == "" {
		return s.svc.CreateDog(ctx, draft)
	}
	return s.svc.UpdateDog(ctx, s.id, draft)
}

// Cancel descarta la edición sin llamar al record store.
func (s *Session) Cancel() {
	s.cancelled = true
}

func (s *Session) draft() (dogs.Draft, error) {
	name := strings.TrimSpace(s.Form.Name)
	breed := strings.TrimSpace(s.Form.Breed)
	ageStr := strings.TrimSpace(s.Form.Age)

	if name == "" {
		return dogs.Draft{}, errors.New("name is required")
	}
	if breed == "" {
		return dogs.Draft{}, errors.New("breed is required")
	}
	if ageStr == "" {
		return dogs.Draft{}, errors.New("age is required")
	}

	age, err := strconv.Atoi(ageStr)
	if err != nil || age < 0 {
		return dogs.Draft{}, errors.New("age must be a non-negative number")
	}

	d := dogs.Draft{
		Name:        name,
		Breed:       breed,
		Age:         age,
		Color:       strings.TrimSpace(s.Form.Color),
		Temperament: strings.TrimSpace(s.Form.Temperament),
	}

	if ws := strings.TrimSpace(s.Form.Weight); ws != "" {
		w, err := strconv.ParseFloat(ws, 64)
		if err != nil || w < 0 {
			return dogs.Draft{}, errors.New("weight must be a non-negative number")
		}
		d.Weight = &w
	}

	return d, nil
}

func formFromDog(d dogs.Dog) Form {
	f := Form{
		Name:        d.Name,
		Breed:       d.Breed,
		Age:         strconv.Itoa(d.Age),
		Color:       d.Color,
		Temperament: d.Temperament,
	}
	if d.Weight != nil {
		f.Weight = strconv.FormatFloat(*d.Weight, 'f', -1, 64)
	}
	return f
}
