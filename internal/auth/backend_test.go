package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/desertthunder/tempo/internal/shared"
)

// tokenEndpoint is an httptest-backed token endpoint that records the form
// body and Authorization header of each request.
type tokenEndpoint struct {
	mu       sync.Mutex
	calls    int
	lastForm url.Values
	lastAuth string
	response string
	status   int
}

func newTokenEndpoint(response string) (*tokenEndpoint, *httptest.Server) {
	ep := &tokenEndpoint{response: response, status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ep.mu.Lock()
		ep.calls++
		ep.lastForm = r.PostForm
		ep.lastAuth = r.Header.Get("Authorization")
		status, response := ep.status, ep.response
		ep.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	return ep, srv
}

const validTokenBody = `{"access_token": "new_token", "token_type": "Bearer", "expires_in": 3600, "scope": "user-read-email", "refresh_token": "new_refresh"}`

func TestCodeBackend(t *testing.T) {
	ep, srv := newTokenEndpoint(validTokenBody)
	defer srv.Close()

	backend := &CodeBackend{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL}

	t.Run("RequestTokens", func(t *testing.T) {
		grant := Grant{Code: "auth_code", RedirectURI: "http://localhost/callback"}
		body, resp, err := backend.RequestTokens(context.Background(), grant)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if string(body) != validTokenBody {
			t.Errorf("backend should return the raw body untouched")
		}

		if got := ep.lastForm.Get("grant_type"); got != "authorization_code" {
			t.Errorf("expected grant_type authorization_code, got %s", got)
		}
		if got := ep.lastForm.Get("code"); got != "auth_code" {
			t.Errorf("expected code auth_code, got %s", got)
		}
		if got := ep.lastForm.Get("redirect_uri"); got != "http://localhost/callback" {
			t.Errorf("unexpected redirect_uri %s", got)
		}

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:secret"))
		if ep.lastAuth != want {
			t.Errorf("expected Basic auth header, got %q", ep.lastAuth)
		}
	})

	t.Run("RefreshTokens", func(t *testing.T) {
		_, _, err := backend.RefreshTokens(context.Background(), "stored_refresh")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := ep.lastForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("expected grant_type refresh_token, got %s", got)
		}
		if got := ep.lastForm.Get("refresh_token"); got != "stored_refresh" {
			t.Errorf("expected refresh_token stored_refresh, got %s", got)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		down := &CodeBackend{ClientID: "id", ClientSecret: "secret", TokenURL: "http://127.0.0.1:1/token"}
		_, _, err := down.RequestTokens(context.Background(), Grant{})
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected network error, got %v", err)
		}
	})

	t.Run("Error Payload Passed Through", func(t *testing.T) {
		ep.mu.Lock()
		ep.status = http.StatusBadRequest
		ep.response = `{"error": "invalid_grant"}`
		ep.mu.Unlock()

		body, resp, err := backend.RefreshTokens(context.Background(), "revoked")
		if err != nil {
			t.Fatalf("backends should not interpret error payloads, got %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
		if string(body) != `{"error": "invalid_grant"}` {
			t.Errorf("expected raw error body, got %s", body)
		}
	})
}

func TestPKCEBackend(t *testing.T) {
	ep, srv := newTokenEndpoint(validTokenBody)
	defer srv.Close()

	backend := &PKCEBackend{ClientID: "public_id", TokenURL: srv.URL}

	t.Run("RequestTokens", func(t *testing.T) {
		grant := Grant{Code: "code", RedirectURI: "http://localhost/callback", CodeVerifier: "verifier123"}
		if _, _, err := backend.RequestTokens(context.Background(), grant); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := ep.lastForm.Get("code_verifier"); got != "verifier123" {
			t.Errorf("expected code_verifier in body, got %q", got)
		}
		if got := ep.lastForm.Get("client_id"); got != "public_id" {
			t.Errorf("expected client_id in body, got %q", got)
		}
		if ep.lastForm.Has("client_secret") {
			t.Error("PKCE requests must not carry a client secret")
		}
		if ep.lastAuth != "" {
			t.Errorf("PKCE requests must not carry an Authorization header, got %q", ep.lastAuth)
		}
	})

	t.Run("RefreshTokens", func(t *testing.T) {
		if _, _, err := backend.RefreshTokens(context.Background(), "rt"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := ep.lastForm.Get("client_id"); got != "public_id" {
			t.Errorf("expected client_id in refresh body, got %q", got)
		}
		if ep.lastAuth != "" {
			t.Error("PKCE refresh must not carry an Authorization header")
		}
	})
}

func TestClientCredentialsBackend(t *testing.T) {
	ep, srv := newTokenEndpoint(validTokenBody)
	defer srv.Close()

	backend := &ClientCredentialsBackend{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL}

	t.Run("RequestTokens", func(t *testing.T) {
		if _, _, err := backend.RequestTokens(context.Background(), Grant{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := ep.lastForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %s", got)
		}
		if ep.lastAuth == "" {
			t.Error("expected Basic auth header")
		}
	})

	t.Run("Refresh Re-Requests", func(t *testing.T) {
		// The flow has no refresh tokens; refreshing re-runs the grant.
		if _, _, err := backend.RefreshTokens(context.Background(), ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := ep.lastForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %s", got)
		}
	})
}

func TestProxyBackends(t *testing.T) {
	t.Run("ProxyCodeBackend", func(t *testing.T) {
		ep, srv := newTokenEndpoint(validTokenBody)
		defer srv.Close()

		backend := &ProxyCodeBackend{
			ClientID:   "id",
			TokensURL:  srv.URL + "/tokens",
			RefreshURL: srv.URL + "/refresh",
		}

		grant := Grant{Code: "code", RedirectURI: "http://localhost/callback"}
		if _, _, err := backend.RequestTokens(context.Background(), grant); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if ep.lastForm.Has("client_secret") {
			t.Error("proxy requests must never carry the client secret")
		}
		if ep.lastAuth != "" {
			t.Error("proxy requests must not carry an Authorization header")
		}

		if _, _, err := backend.RefreshTokens(context.Background(), "rt"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := ep.lastForm.Get("refresh_token"); got != "rt" {
			t.Errorf("expected refresh_token rt, got %q", got)
		}
	})

	t.Run("ProxyClientCredentialsBackend", func(t *testing.T) {
		ep, srv := newTokenEndpoint(validTokenBody)
		defer srv.Close()

		backend := &ProxyClientCredentialsBackend{TokensURL: srv.URL}

		if _, _, err := backend.RequestTokens(context.Background(), Grant{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if ep.lastForm.Has("client_secret") || ep.lastForm.Has("client_id") {
			t.Error("proxy client-credentials requests carry no credentials at all")
		}
		if got := ep.lastForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %s", got)
		}
	})
}
