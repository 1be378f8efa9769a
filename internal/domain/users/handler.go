package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))
		ar.Post("/signup", signupHandler(svc))
		ar.Post("/logout", logoutHandler())
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
}

type loginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	User        userResponse `json:"user"`
}

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// loginHandler godoc
// @Summary  Login con usuario y password
// @Tags     auth
// @Param    credentials body loginRequest true "credenciales"
// @Success  200 {object} loginResponse
// @Failure  401 {object} map[string]string
// @Router   /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		result, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrAccountInactive):
				writeError(w, http.StatusUnauthorized, ErrAccountInactive.Error())
			case errors.Is(err, ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			AccessToken: result.Token,
			TokenType:   "Bearer",
			User:        toUserResponse(result.User),
		})
	}
}

// signupHandler godoc
// @Summary  Alta de cuenta STANDARD
// @Tags     auth
// @Param    profile body signupRequest true "perfil"
// @Success  201 {object} userResponse
// @Failure  409 {object} map[string]string
// @Router   /api/auth/signup [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Signup(r.Context(), SignupInput{
			Username:  req.Username,
			Password:  req.Password,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrUsernameTaken):
				writeError(w, http.StatusConflict, ErrUsernameTaken.Error())
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "username and password are required")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// logoutHandler godoc
// @Summary  Logout (stateless: el cliente descarta su token)
// @Tags     auth
// @Success  200 {object} map[string]string
// @Router   /api/auth/logout [post]
func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
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
