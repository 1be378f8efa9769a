package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dog-registry/internal/domain/dogs"
)

func newClient(t *testing.T, ts *httptest.Server, token string) *Client {
	t.Helper()
	c, err := New(ts.URL, 2*time.Second, func() string { return token })
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}
	return c
}

func TestLogin_ParsesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "admin123" {
			t.Fatalf("unexpected credentials: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"accessToken": "tok-1",
			"tokenType": "Bearer",
			"user": {"id":"u1","username":"admin","role":"ADMIN"}
		}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, "")
	token, user, err := c.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected token tok-1, got %q", token)
	}
	if user.Username != "admin" || user.Role != "ADMIN" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLogin_ServerMessageSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, "")
	_, _, err := c.Login(context.Background(), "admin", "nope")
	if err == nil {
		t.Fatalf("expected login error")
	}

	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if se.Status != http.StatusUnauthorized || se.ServerMessage() != "Invalid credentials" {
		t.Fatalf("unexpected server error: %+v", se)
	}
}

func TestListDogs_SendsQueryAndBearerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("expected bearer token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("page") != "1" || q.Get("size") != "5" || q.Get("search") != "rex" {
			t.Fatalf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [{"id":"1","name":"Rex","breed":"Lab","age":3,"weight":50.5,"isSafeToPet":"Yes"}],
			"totalElements": 11,
			"totalPages": 3,
			"number": 1,
			"size": 5
		}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, "tok-1")
	page, err := c.ListDogs(context.Background(), ListParams{Page: 1, Size: 5, Search: "rex"})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if page.TotalElements != 11 || page.TotalPages != 3 || page.Number != 1 {
		t.Fatalf("unexpected page envelope: %+v", page)
	}
	if len(page.Content) != 1 || page.Content[0].Name != "Rex" {
		t.Fatalf("unexpected content: %+v", page.Content)
	}
	if page.Content[0].Weight == nil || *page.Content[0].Weight != 50.5 {
		t.Fatalf("expected weight decoded, got %+v", page.Content[0].Weight)
	}
}

func TestUpdateDog_SendsNullClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/dogs/42" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)

		var body map[string]json.RawMessage
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("unreadable body: %v", err)
		}
		// la clave tiene que viajar explícitamente en null
		v, present := body["isSafeToPet"]
		if !present || string(v) != "null" {
			t.Fatalf("expected isSafeToPet:null in body, got %s", raw)
		}
		if v, present := body["safetyExplanation"]; !present || string(v) != "null" {
			t.Fatalf("expected safetyExplanation:null in body, got %s", raw)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","name":"Rex","breed":"Lab","age":4,"isSafeToPet":"Cautiously","safetyExplanation":"Approach slowly"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, "tok-1")
	dog, err := c.UpdateDog(context.Background(), "42", draftFixture())
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if dog.IsSafeToPet != "Cautiously" || dog.SafetyExplanation != "Approach slowly" {
		t.Fatalf("expected recomputed classification, got %+v", dog)
	}
}

func TestGetDog_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"dog not found"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, "tok-1")
	_, err := c.GetDog(context.Background(), "missing")

	var se *ServerError
	if !errors.As(err, &se) || !se.NotFound() {
		t.Fatalf("expected not-found server error, got %v", err)
	}
}

func TestDeleteDog_NoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/dogs/42" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := newClient(t, ts, "tok-1")
	if err := c.DeleteDog(context.Background(), "42"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
}

func TestWrap_MalformedErrorBodyFallsBackToEmptyMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer ts.Close()

	c := newClient(t, ts, "")
	_, _, err := c.Login(context.Background(), "admin", "admin123")

	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.ServerMessage() != "" {
		t.Fatalf("expected empty message for malformed body, got %q", se.ServerMessage())
	}
}

func draftFixture() dogs.Draft {
	w := 50.5
	return dogs.Draft{Name: "Rex", Breed: "Lab", Age: 4, Weight: &w}
}
