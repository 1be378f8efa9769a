// Package api es el adaptador HTTP de la consola contra el registro
// remoto. Implementa (estructuralmente) los puertos que consumen la
// sesión, el motor de listado y la edición.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dog-registry/internal/console/session"
	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/platform/httpclient"
)

// ServerError es una respuesta no-2xx con el mensaje del body
// {"message": ...} ya extraído.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status=%d", e.Status)
	}
	return fmt.Sprintf("server error: status=%d message=%s", e.Status, e.Message)
}

// ServerMessage expone el mensaje para mostrarlo inline tal cual.
func (e *ServerError) ServerMessage() string { return e.Message }

func (e *ServerError) NotFound() bool { return e.Status == http.StatusNotFound }

type Client struct {
	http *httpclient.Client
}

// New arma el cliente. token se consulta por request porque el valor
// cambia con login/logout.
func New(baseURL string, timeout time.Duration, token func() string) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	hc.AuthToken = token
	return &Client{http: hc}, nil
}

// NewWithHTTPClient permite inyectar el httpclient armado (tests).
func NewWithHTTPClient(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

// -------------------------
// Auth
// -------------------------

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	User        session.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (string, session.User, error) {
	var resp loginResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/api/auth/login", nil,
		loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", session.User{}, wrap(err)
	}
	return resp.AccessToken, resp.User, nil
}

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *Client) Signup(ctx context.Context, p session.Signup) error {
	err := c.http.DoJSON(ctx, http.MethodPost, "/api/auth/signup", nil,
		signupRequest{
			Username:  p.Username,
			Password:  p.Password,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		}, nil)
	return wrap(err)
}

// -------------------------
// Dogs
// -------------------------

type wireDog struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Breed             string    `json:"breed"`
	Age               int       `json:"age"`
	Color             string    `json:"color"`
	Weight            *float64  `json:"weight"`
	Temperament       string    `json:"temperament"`
	IsSafeToPet       string    `json:"isSafeToPet"`
	SafetyExplanation string    `json:"safetyExplanation"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (w wireDog) toDomain() dogs.Dog {
	return dogs.Dog{
		ID:                w.ID,
		Name:              w.Name,
		Breed:             w.Breed,
		Age:               w.Age,
		Color:             w.Color,
		Weight:            w.Weight,
		Temperament:       w.Temperament,
		IsSafeToPet:       w.IsSafeToPet,
		SafetyExplanation: w.SafetyExplanation,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

// dogPayload es el body de create/update. La clasificación viaja
// explícitamente en null: el servidor la recomputa.
type dogPayload struct {
	Name              string   `json:"name"`
	Breed             string   `json:"breed"`
	Age               int      `json:"age"`
	Color             string   `json:"color"`
	Weight            *float64 `json:"weight"`
	Temperament       string   `json:"temperament"`
	IsSafeToPet       *string  `json:"isSafeToPet"`
	SafetyExplanation *string  `json:"safetyExplanation"`
}

func payloadFromDraft(d dogs.Draft) dogPayload {
	return dogPayload{
		Name:        d.Name,
		Breed:       d.Breed,
		Age:         d.Age,
		Color:       d.Color,
		Weight:      d.Weight,
		Temperament: d.Temperament,
	}
}

type wirePage struct {
	Content       []wireDog `json:"content"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// Page es el envelope de paginación deserializado a dominio.
type Page struct {
	Content       []dogs.Dog
	TotalElements int
	TotalPages    int
	Number        int
	Size          int
}

type ListParams struct {
	Page       int
	Size       int
	Search     string
	Prediction string
}

func (c *Client) ListDogs(ctx context.Context, p ListParams) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Prediction != "" {
		q.Set("prediction", p.Prediction)
	}

	var wp wirePage
	err := c.http.DoJSON(ctx, http.MethodGet, "/api/dogs/?"+q.Encode(), nil, nil, &wp)
	if err != nil {
		return Page{}, wrap(err)
	}

	out := Page{
		Content:       make([]dogs.Dog, 0, len(wp.Content)),
		TotalElements: wp.TotalElements,
		TotalPages:    wp.TotalPages,
		Number:        wp.Number,
		Size:          wp.Size,
	}
	for _, wd := range wp.Content {
		out.Content = append(out.Content, wd.toDomain())
	}
	return out, nil
}

// FetchAll trae el snapshot completo para el motor de listado local.
func (c *Client) FetchAll(ctx context.Context) ([]dogs.Dog, error) {
	page, err := c.ListDogs(ctx, ListParams{Page: 0, Size: 1000})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) GetDog(ctx context.Context, id string) (dogs.Dog, error) {
	var wd wireDog
	err := c.http.DoJSON(ctx, http.MethodGet, "/api/dogs/"+url.PathEscape(id), nil, nil, &wd)
	if err != nil {
		return dogs.Dog{}, wrap(err)
	}
	return wd.toDomain(), nil
}

func (c *Client) CreateDog(ctx context.Context, d dogs.Draft) (dogs.Dog, error) {
	var wd wireDog
	err := c.http.DoJSON(ctx, http.MethodPost, "/api/dogs/", nil, payloadFromDraft(d), &wd)
	if err != nil {
		return dogs.Dog{}, wrap(err)
	}
	return wd.toDomain(), nil
}

func (c *Client) UpdateDog(ctx context.Context, id string, d dogs.Draft) (dogs.Dog, error) {
	var wd wireDog
	err := c.http.DoJSON(ctx, http.MethodPut, "/api/dogs/"+url.PathEscape(id), nil, payloadFromDraft(d), &wd)
	if err != nil {
		return dogs.Dog{}, wrap(err)
	}
	return wd.toDomain(), nil
}

func (c *Client) DeleteDog(ctx context.Context, id string) error {
	err := c.http.DoJSON(ctx, http.MethodDelete, "/api/dogs/"+url.PathEscape(id), nil, nil, nil)
	return wrap(err)
}

func (c *Client) Stats(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	err := c.http.DoJSON(ctx, http.MethodGet, "/api/dogs/stats", nil, nil, &out)
	if err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

// wrap traduce errores HTTP crudos a ServerError con el mensaje del
// body ya parseado. Respuestas malformadas quedan con mensaje vacío
// (y el caller cae al fallback genérico) en vez de romper.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return err
	}

	se := &ServerError{Status: he.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(he.Body), &body) == nil {
		se.Message = body.Message
	}
	return se
}
