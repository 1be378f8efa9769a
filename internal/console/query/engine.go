// Package query proyecta filtro, orden y paginación sobre un snapshot
// inmutable de registros. Cada Refresh reemplaza el snapshot entero;
// ninguna proyección lo muta.
package query

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"dog-registry/internal/domain/dogs"
)

type SortKey string

const (
	SortNone   SortKey = ""
	SortName   SortKey = "name"
	SortBreed  SortKey = "breed"
	SortWeight SortKey = "weight"
)

const DefaultPageSize = 10

// Page es la vista lista para renderizar: la porción pedida más los
// totales para armar los controles de paginación.
type Page struct {
	Items      []dogs.Dog
	Total      int
	Number     int
	Size       int
	TotalPages int
}

// FetchFunc trae el snapshot completo desde el record store.
type FetchFunc func(ctx context.Context) ([]dogs.Dog, error)

type Engine struct {
	fetch FetchFunc
	coll  *collate.Collator

	mu       sync.Mutex
	epoch    uint64
	snapshot []dogs.Dog

	search     string
	prediction string
	sortKey    SortKey
	page       int
	pageSize   int
}

func NewEngine(fetch FetchFunc) *Engine {
	return &Engine{
		fetch:    fetch,
		coll:     collate.New(language.English, collate.Loose),
		pageSize: DefaultPageSize,
	}
}

// Refresh trae un snapshot nuevo. Está guardado por epoch: si mientras
// el fetch estaba en vuelo alguien disparó otro Refresh, el resultado
// viejo se descarta en silencio en vez de pisar al más nuevo.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.epoch++
	myEpoch := e.epoch
	e.mu.Unlock()

	items, err := e.fetch(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if myEpoch != e.epoch {
		return nil
	}
	e.snapshot = items
	return nil
}

// SetTextFilter filtra por substring (case-insensitive) sobre nombre
// o raza. Vacío = sin filtro.
func (e *Engine) SetTextFilter(term string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search = strings.TrimSpace(term)
	e.page = 0
}

// SetPredictionFilter filtra por clasificación exacta. "All" o vacío
// = sin filtro. Cuando hay filtro de clasificación, gana sobre el de
// texto.
func (e *Engine) SetPredictionFilter(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if strings.EqualFold(value, "All") {
		value = ""
	}
	e.prediction = strings.TrimSpace(value)
	e.page = 0
}

func (e *Engine) SetSort(key SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sortKey = key
}

func (e *Engine) SetPage(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 0 {
		n = 0
	}
	e.page = n
}

// SetPageSize cambia el tamaño de página y resetea la página a 0.
func (e *Engine) SetPageSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 1 {
		n = DefaultPageSize
	}
	e.pageSize = n
	e.page = 0
}

// View computa filtro → orden → paginación sobre el snapshot actual.
// Siempre trabaja sobre una copia; el snapshot no se toca.
func (e *Engine) View() Page {
	e.mu.Lock()
	defer e.mu.Unlock()

	filtered := make([]dogs.Dog, 0, len(e.snapshot))
	for _, d := range e.snapshot {
		if e.matches(d) {
			filtered = append(filtered, d)
		}
	}

	e.sortDogs(filtered)

	total := len(filtered)
	totalPages := 0
	if e.pageSize > 0 {
		totalPages = (total + e.pageSize - 1) / e.pageSize
	}

	start := e.page * e.pageSize
	if start > total {
		start = total
	}
	end := start + e.pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      filtered[start:end],
		Total:      total,
		Number:     e.page,
		Size:       e.pageSize,
		TotalPages: totalPages,
	}
}

func (e *Engine) matches(d dogs.Dog) bool {
	if e.prediction != "" {
		return d.IsSafeToPet == e.prediction
	}
	if e.search == "" {
		return true
	}
	term := strings.ToLower(e.search)
	return strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.Breed), term)
}

func (e *Engine) sortDogs(items []dogs.Dog) {
	switch e.sortKey {
	case SortName:
		sort.SliceStable(items, func(i, j int) bool {
			return e.coll.CompareString(items[i].Name, items[j].Name) < 0
		})
	case SortBreed:
		sort.SliceStable(items, func(i, j int) bool {
			return e.coll.CompareString(items[i].Breed, items[j].Breed) < 0
		})
	case SortWeight:
		// descendente; sin peso cuenta como cero
		sort.SliceStable(items, func(i, j int) bool {
			return weightOrZero(items[i]) > weightOrZero(items[j])
		})
	}
}

func weightOrZero(d dogs.Dog) float64 {
	if d.Weight == nil {
		return 0
	}
	return *d.Weight
}

// Ellipsis recorta texto libre (temperamento) para vistas compactas.
func Ellipsis(s string, max int) string {
	if max <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
