package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

func get(t *testing.T, srv *httptest.Server, path, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestAuth_MissingHeader(t *testing.T) {
	srv := httptest.NewServer(New("secret").Handler())
	defer srv.Close()

	resp, body := get(t, srv, "/api/booking", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "missing authorization header" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestAuth_MalformedToken(t *testing.T) {
	srv := httptest.NewServer(New("secret").Handler())
	defer srv.Close()

	resp, body := get(t, srv, "/api/booking", "not.a.token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "invalid token" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestAuth_TokenSignedWithWrongSecret(t *testing.T) {
	mine := New("secret")
	theirs := New("other-secret")
	srv := httptest.NewServer(mine.Handler())
	defer srv.Close()

	user := theirs.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	resp, _ := get(t, srv, "/api/booking", theirs.TokenFor(user))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for foreign signature", resp.StatusCode)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	backend := New("secret")
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	user := backend.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	resp, _ := get(t, srv, "/api/booking", backend.TokenFor(user))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestForceUnauthorized_OverridesValidTokens(t *testing.T) {
	backend := New("secret")
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	user := backend.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	token := backend.TokenFor(user)

	backend.ForceUnauthorized(true)
	resp, body := get(t, srv, "/api/booking", token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "jwt expired" {
		t.Errorf("message = %v", body["message"])
	}

	backend.ForceUnauthorized(false)
	resp, _ = get(t, srv, "/api/booking", token)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status after reset = %d, want 200", resp.StatusCode)
	}
}
