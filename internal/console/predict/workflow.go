// Package predict mantiene la clasificación de seguridad mostrada en
// un formulario de edición consistente con los campos que el usuario
// va tocando, sin inundar al clasificador con un request por tecla.
package predict

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"dog-registry/internal/domain/dogs"
)

// Prediction es el último valor computado que muestra el badge.
type Prediction struct {
	Classification string
	Explanation    string
}

// Updater es la única operación remota que el workflow usa: el update
// del registro con clasificación nula, que obliga al servidor a
// recomputarla y devolverla.
type Updater interface {
	UpdateDog(ctx context.Context, id string, d dogs.Draft) (dogs.Dog, error)
}

// Fields son los valores crudos del formulario al momento del blur.
type Fields struct {
	Name        string
	Breed       string
	Age         string
	Color       string
	Weight      string
	Temperament string
}

const (
	// Un borrador sin id no existe todavía en el servidor, así que la
	// recomputación se simula localmente con estos valores fijos.
	PlaceholderClassification = "Yes"
	PlaceholderExplanation    = "Dog appears safe based on provided information"

	failureClassification = "Error"
	failureExplanation    = "Failed to get updated prediction"
)

// Workflow guarda el estado de predicción de una sesión de edición.
// recordID vacío significa borrador: nunca sale a la red.
type Workflow struct {
	updater  Updater
	recordID string

	mu      sync.Mutex
	epoch   uint64
	pending bool
	last    *Prediction

	// OnChange, si está seteado, se invoca después de cada mutación
	// aplicada (fuera del lock). Útil para sincronizar el render.
	OnChange func()
}

func New(updater Updater, recordID string) *Workflow {
	return &Workflow{
		updater:  updater,
		recordID: recordID,
	}
}

// Seed fija el último valor conocido (el que vino con el registro).
func (w *Workflow) Seed(p Prediction) {
	w.mu.Lock()
	w.last = &p
	w.mu.Unlock()
	w.notify()
}

// Last devuelve la última clasificación computada, si hay.
func (w *Workflow) Last() (Prediction, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return Prediction{}, false
	}
	return *w.last, true
}

// Pending indica si hay una recomputación en vuelo: el badge muestra
// un spinner, pero la explicación anterior sigue disponible vía Last.
func (w *Workflow) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// FieldBlurred es la entrada del workflow: un campo monitoreado perdió
// el foco con estos valores. Solo dispara recomputación si nombre,
// raza y edad están todos presentes; si falta alguno, el valor que se
// venía mostrando queda intacto.
func (w *Workflow) FieldBlurred(ctx context.Context, f Fields) {
	if strings.TrimSpace(f.Name) == "" ||
		strings.TrimSpace(f.Breed) == "" ||
		strings.TrimSpace(f.Age) == "" {
		return
	}

	if w.recordID == "" {
		w.mu.Lock()
		w.last = &Prediction{
			Classification: PlaceholderClassification,
			Explanation:    PlaceholderExplanation,
		}
		w.mu.Unlock()
		w.notify()
		return
	}

	draft, ok := toDraft(f)
	if !ok {
		// campos numéricos ilegibles: la validación del submit los va
		// a rebotar, acá no hay nada que recomputar
		return
	}

	w.mu.Lock()
	w.epoch++
	myEpoch := w.epoch
	w.pending = true
	w.mu.Unlock()
	w.notify()

	go func() {
		dog, err := w.updater.UpdateDog(ctx, w.recordID, draft)

		w.mu.Lock()
		if myEpoch != w.epoch {
			// respuesta de un request superado: se descarta en
			// silencio, sin tocar pending (el más nuevo lo resuelve)
			w.mu.Unlock()
			return
		}
		if err != nil {
			w.last = &Prediction{
				Classification: failureClassification,
				Explanation:    failureExplanation,
			}
		} else {
			w.last = &Prediction{
				Classification: dog.IsSafeToPet,
				Explanation:    dog.SafetyExplanation,
			}
		}
		w.pending = false
		w.mu.Unlock()
		w.notify()
	}()
}

func (w *Workflow) notify() {
	if w.OnChange != nil {
		w.OnChange()
	}
}

func toDraft(f Fields) (dogs.Draft, bool) {
	age, err := strconv.Atoi(strings.TrimSpace(f.Age))
	if err != nil || age < 0 {
		return dogs.Draft{}, false
	}

	d := dogs.Draft{
		Name:        strings.TrimSpace(f.Name),
		Breed:       strings.TrimSpace(f.Breed),
		Age:         age,
		Color:       strings.TrimSpace(f.Color),
		Temperament: strings.TrimSpace(f.Temperament),
	}

	if ws := strings.TrimSpace(f.Weight); ws != "" {
		v, err := strconv.ParseFloat(ws, 64)
		if err != nil || v < 0 {
			return dogs.Draft{}, false
		}
		d.Weight = &v
	}

	return d, true
}
