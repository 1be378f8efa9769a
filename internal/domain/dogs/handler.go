package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dog-registry/internal/domain/users"
	"dog-registry/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/dogs", func(dr chi.Router) {
		dr.Get("/", listDogsHandler(svc))
		dr.Get("/stats", statsHandler(svc))
		dr.Get("/{dogID}", getDogHandler(svc))

		// Escrituras: solo ADMIN
		dr.Post("/", createDogHandler(svc))
		dr.Put("/{dogID}", updateDogHandler(svc))
		dr.Delete("/{dogID}", deleteDogHandler(svc))
	})
}

type dogRequest struct {
	Name              string   `json:"name"`
	Breed             string   `json:"breed"`
	Age               int      `json:"age"`
	Color             string   `json:"color"`
	Weight            *float64 `json:"weight"`
	Temperament       string   `json:"temperament"`
	IsSafeToPet       *string  `json:"isSafeToPet"`
	SafetyExplanation *string  `json:"safetyExplanation"`
}

type dogResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Breed             string    `json:"breed"`
	Age               int       `json:"age"`
	Color             string    `json:"color,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	Temperament       string    `json:"temperament,omitempty"`
	IsSafeToPet       string    `json:"isSafeToPet,omitempty"`
	SafetyExplanation string    `json:"safetyExplanation,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// pageResponse replica el envelope de paginación que el cliente espera.
type pageResponse struct {
	Content       []dogResponse `json:"content"`
	TotalElements int           `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Number        int           `json:"number"`
	Size          int           `json:"size"`
}

// listDogsHandler godoc
// @Summary  Lista perros paginados
// @Tags     dogs
// @Param    page query int false "página (base 0)"
// @Param    size query int false "tamaño de página"
// @Param    search query string false "substring sobre nombre o raza"
// @Param    prediction query string false "filtro exacto por clasificación, o All"
// @Success  200 {object} pageResponse
// @Router   /api/dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("size"))

		result, err := svc.List(r.Context(), ListInput{
			Page:       page,
			Size:       size,
			Search:     q.Get("search"),
			Prediction: q.Get("prediction"),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		content := make([]dogResponse, 0, len(result.Items))
		for _, d := range result.Items {
			content = append(content, toDogResponse(d))
		}

		totalPages := 0
		if result.Size > 0 {
			totalPages = (result.Total + result.Size - 1) / result.Size
		}

		writeJSON(w, http.StatusOK, pageResponse{
			Content:       content,
			TotalElements: result.Total,
			TotalPages:    totalPages,
			Number:        result.Page,
			Size:          result.Size,
		})
	}
}

// getDogHandler godoc
// @Summary  Perfil de un perro
// @Tags     dogs
// @Param    dogID path string true "id"
// @Success  200 {object} dogResponse
// @Failure  404 {object} map[string]string
// @Router   /api/dogs/{dogID} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "dog not found")
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// createDogHandler godoc
// @Summary  Alta de perro (ADMIN)
// @Tags     dogs
// @Param    dog body dogRequest true "perro"
// @Success  201 {object} dogResponse
// @Router   /api/dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req dogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := CreateInput{Draft: toDraft(req)}
		if req.IsSafeToPet != nil {
			in.IsSafeToPet = *req.IsSafeToPet
		}
		if req.SafetyExplanation != nil {
			in.SafetyExplanation = *req.SafetyExplanation
		}

		d, err := svc.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// updateDogHandler godoc
// @Summary  Actualiza un perro y reclasifica (ADMIN)
// @Tags     dogs
// @Param    dogID path string true "id"
// @Param    dog body dogRequest true "campos nuevos; isSafeToPet se ignora: siempre se reclasifica"
// @Success  200 {object} dogResponse
// @Router   /api/dogs/{dogID} [put]
func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req dogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Update(r.Context(), chi.URLParam(r, "dogID"), toDraft(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "dog not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// deleteDogHandler godoc
// @Summary  Baja de perro (ADMIN)
// @Tags     dogs
// @Param    dogID path string true "id"
// @Success  204
// @Router   /api/dogs/{dogID} [delete]
func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "dogID")); err != nil {
			writeError(w, http.StatusNotFound, "dog not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler godoc
// @Summary  Contadores agregados (ADMIN)
// @Tags     dogs
// @Success  200 {object} map[string]int
// @Router   /api/dogs/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if claims.Role != users.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func toDraft(req dogRequest) Draft {
	return Draft{
		Name:        req.Name,
		Breed:       req.Breed,
		Age:         req.Age,
		Color:       req.Color,
		Weight:      req.Weight,
		Temperament: req.Temperament,
	}
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:                d.ID,
		Name:              d.Name,
		Breed:             d.Breed,
		Age:               d.Age,
		Color:             d.Color,
		Weight:            d.Weight,
		Temperament:       d.Temperament,
		IsSafeToPet:       d.IsSafeToPet,
		SafetyExplanation: d.SafetyExplanation,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
