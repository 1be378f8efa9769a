package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dog-registry/internal/adapters/auth/token"
	"dog-registry/internal/router"
)

func TestHTTP_EndToEnd_SeededRegistry(t *testing.T) {
	tokenSvc := token.NewService("test-secret", time.Hour)
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: tokenSvc,
		TokenIssuer:  tokenSvc,
	}))
	defer ts.Close()

	// 1) Health sin auth
	{
		st, _ := doReq(t, ts.URL, "GET", "/health", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on /health, got %d", st)
		}
	}

	// 2) Listado sin token => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/dogs/", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}

	// 3) Login con la cuenta seed
	var adminToken string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"username": "admin",
			"password": "admin123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 on login, got %d body=%s", st, string(body))
		}
		var resp struct {
			AccessToken string `json:"accessToken"`
			TokenType   string `json:"tokenType"`
			User        struct {
				Role string `json:"role"`
			} `json:"user"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("bad login response: %v", err)
		}
		if resp.TokenType != "Bearer" || resp.AccessToken == "" || resp.User.Role != "ADMIN" {
			t.Fatalf("unexpected login envelope: %+v", resp)
		}
		adminToken = resp.AccessToken
	}

	// 4) Login incorrecto => 401 con message
	{
		st, body := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"username": "admin",
			"password": "nope",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 on bad login, got %d", st)
		}
		var resp map[string]string
		_ = json.Unmarshal(body, &resp)
		if resp["message"] != "Invalid credentials" {
			t.Fatalf("expected Invalid credentials message, got %v", resp)
		}
	}

	// 5) Listado seed completo
	{
		st, body := doReq(t, ts.URL, "GET", "/api/dogs/?size=100", adminToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing dogs, got %d body=%s", st, string(body))
		}
		var page struct {
			Content       []map[string]any `json:"content"`
			TotalElements int              `json:"totalElements"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			t.Fatalf("bad page envelope: %v", err)
		}
		if page.TotalElements != 8 || len(page.Content) != 8 {
			t.Fatalf("expected the 8 seeded dogs, got %d/%d", page.TotalElements, len(page.Content))
		}
	}

	// 6) El filtro por clasificación gana sobre el de texto
	{
		st, body := doReq(t, ts.URL, "GET", "/api/dogs/?search=Rocky&prediction=Cautiously", adminToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var page struct {
			Content []struct {
				IsSafeToPet string `json:"isSafeToPet"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			t.Fatalf("bad page envelope: %v", err)
		}
		if len(page.Content) != 2 {
			t.Fatalf("expected the 2 Cautiously dogs despite the search, got %d", len(page.Content))
		}
		for _, d := range page.Content {
			if d.IsSafeToPet != "Cautiously" {
				t.Fatalf("unexpected classification %q", d.IsSafeToPet)
			}
		}
	}

	// 7) Escrituras con cuenta STANDARD => 403
	var guestToken string
	{
		_, body := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"username": "guest",
			"password": "guest123",
		})
		var resp struct {
			AccessToken string `json:"accessToken"`
		}
		_ = json.Unmarshal(body, &resp)
		guestToken = resp.AccessToken

		st, _ := doReq(t, ts.URL, "POST", "/api/dogs/", guestToken, map[string]any{
			"name": "Nuevo", "breed": "Mix", "age": 1,
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for STANDARD create, got %d", st)
		}
	}

	// 8) Admin crea (clasificación provista => no pasa por el clasificador)
	var newID string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/dogs/", adminToken, map[string]any{
			"name": "Nuevo", "breed": "Mix", "age": 1,
			"isSafeToPet": "Yes", "safetyExplanation": "friendly",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating dog, got %d body=%s", st, string(body))
		}
		var d struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &d)
		if d.ID == "" {
			t.Fatalf("expected server-assigned id")
		}
		newID = d.ID
	}

	// 9) Detalle y borrado
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/dogs/"+newID, guestToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 reading as guest, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "DELETE", "/api/dogs/"+newID, adminToken, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "GET", "/api/dogs/"+newID, adminToken, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}

	// 10) Signup + login con la cuenta nueva
	{
		st, body := doReq(t, ts.URL, "POST", "/api/auth/signup", "", map[string]any{
			"username": "nueva", "password": "clave123", "firstName": "Nueva", "lastName": "Cuenta",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 on signup, got %d body=%s", st, string(body))
		}
		var u struct {
			Role string `json:"role"`
		}
		_ = json.Unmarshal(body, &u)
		if u.Role != "STANDARD" {
			t.Fatalf("expected STANDARD role on signup, got %q", u.Role)
		}

		st, _ = doReq(t, ts.URL, "POST", "/api/auth/signup", "", map[string]any{
			"username": "nueva", "password": "otra",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on duplicate signup, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"username": "nueva", "password": "clave123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected login after signup, got %d", st)
		}
	}
}

func doReq(t *testing.T, base, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, base+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}
