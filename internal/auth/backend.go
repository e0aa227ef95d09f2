package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/tempo/internal/shared"
)

const (
	// AccountsAuthURL is the Spotify authorization (consent) endpoint.
	AccountsAuthURL = "https://accounts.spotify.com/authorize"
	// AccountsTokenURL is the canonical Spotify token endpoint.
	AccountsTokenURL = "https://accounts.spotify.com/api/token"
)

// Backend kind discriminators, used in the encoded form of a [Manager].
const (
	KindAuthorizationCode     = "authorization_code"
	KindPKCE                  = "authorization_code_pkce"
	KindClientCredentials     = "client_credentials"
	KindProxyAuthorizationCode = "proxy_authorization_code"
	KindProxyClientCredentials = "proxy_client_credentials"
)

// Grant is a credential presented to obtain tokens: an authorization code
// with its redirect URI, optionally a PKCE code verifier. Client-credential
// backends ignore it entirely.
type Grant struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// Backend is a stateless strategy that exchanges authorization grants for
// tokens and refreshes existing refresh tokens against a token endpoint.
//
// Backends perform the network call only. They return the raw response body
// and metadata without decoding or validating it; interpreting success and
// OAuth error payloads is the [Manager]'s job. Transport failures wrap
// [shared.ErrNetwork].
type Backend interface {
	// RequestTokens exchanges an authorization grant for a token response.
	RequestTokens(ctx context.Context, grant Grant) ([]byte, *http.Response, error)

	// RefreshTokens exchanges a refresh token for a new access token.
	// Client-credential backends re-request using their stored credentials
	// instead, since that flow never issues refresh tokens.
	RefreshTokens(ctx context.Context, refreshToken string) ([]byte, *http.Response, error)

	// Kind returns the stable identifier used when encoding a manager.
	Kind() string

	// Equal reports whether the other backend has the same configuration.
	Equal(other Backend) bool
}

// postForm issues an application/x-www-form-urlencoded POST and returns the
// raw body plus response metadata. The body is returned for non-2xx statuses
// too; token endpoints deliver OAuth error payloads with 4xx codes.
func postForm(ctx context.Context, client *http.Client, endpoint string, form url.Values, header http.Header) ([]byte, *http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, values := range header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("%w: reading token response: %v", shared.ErrNetwork, err)
	}

	return body, resp, nil
}

// basicAuthHeader builds the Basic-auth header confidential clients attach
// to token requests.
func basicAuthHeader(clientID, clientSecret string) http.Header {
	credentials := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
	return http.Header{"Authorization": []string{"Basic " + credentials}}
}

// CodeBackend implements the confidential authorization-code flow. The
// client secret is attached directly via Basic auth.
type CodeBackend struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	// TokenURL overrides the canonical token endpoint; used in tests.
	TokenURL   string       `json:"-"`
	HTTPClient *http.Client `json:"-"`
}

func (b *CodeBackend) endpoint() string {
	if b.TokenURL != "" {
		return b.TokenURL
	}
	return AccountsTokenURL
}

func (b *CodeBackend) RequestTokens(ctx context.Context, grant Grant) ([]byte, *http.Response, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {grant.Code},
		"redirect_uri": {grant.RedirectURI},
	}
	return postForm(ctx, b.HTTPClient, b.endpoint(), form, basicAuthHeader(b.ClientID, b.ClientSecret))
}

func (b *CodeBackend) RefreshTokens(ctx context.Context, refreshToken string) ([]byte, *http.Response, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return postForm(ctx, b.HTTPClient, b.endpoint(), form, basicAuthHeader(b.ClientID, b.ClientSecret))
}

func (b *CodeBackend) Kind() string { return KindAuthorizationCode }

func (b *CodeBackend) Equal(other Backend) bool {
	o, ok := other.(*CodeBackend)
	return ok && b.ClientID == o.ClientID && b.ClientSecret == o.ClientSecret
}

// PKCEBackend implements the authorization-code flow with PKCE for public
// clients. No client secret is ever attached; the code verifier proves
// possession of the original authorization request.
type PKCEBackend struct {
	ClientID string `json:"client_id"`

	TokenURL   string       `json:"-"`
	HTTPClient *http.Client `json:"-"`
}

func (b *PKCEBackend) endpoint() string {
	if b.TokenURL != "" {
		return b.TokenURL
	}
	return AccountsTokenURL
}

func (b *PKCEBackend) RequestTokens(ctx context.Context, grant Grant) ([]byte, *http.Response, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {grant.Code},
		"redirect_uri":  {grant.RedirectURI},
		"client_id":     {b.ClientID},
		"code_verifier": {grant.CodeVerifier},
	}
	return postForm(ctx, b.HTTPClient, b.endpoint(), form, nil)
}

func (b *PKCEBackend) RefreshTokens(ctx context.Context, refreshToken string) ([]byte, *http.Response, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {b.ClientID},
	}
	return postForm(ctx, b.HTTPClient, b.endpoint(), form, nil)
}

func (b *PKCEBackend) Kind() string { return KindPKCE }

func (b *PKCEBackend) Equal(other Backend) bool {
	o, ok := other.(*PKCEBackend)
	return ok && b.ClientID == o.ClientID
}

// ClientCredentialsBackend implements the client-credentials flow for
// app-only access. The flow never issues refresh tokens, so refreshing
// simply re-requests with the stored credentials.
type ClientCredentialsBackend struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	TokenURL   string       `json:"-"`
	HTTPClient *http.Client `json:"-"`
}

func (b *ClientCredentialsBackend) endpoint() string {
	if b.TokenURL != "" {
		return b.TokenURL
	}
	return AccountsTokenURL
}

func (b *ClientCredentialsBackend) RequestTokens(ctx context.Context, _ Grant) ([]byte, *http.Response, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	return postForm(ctx, b.HTTPClient, b.endpoint(), form, basicAuthHeader(b.ClientID, b.ClientSecret))
}

func (b *ClientCredentialsBackend) RefreshTokens(ctx context.Context, _ string) ([]byte, *http.Response, error) {
	return b.RequestTokens(ctx, Grant{})
}

func (b *ClientCredentialsBackend) Kind() string { return KindClientCredentials }

func (b *ClientCredentialsBackend) Equal(other Backend) bool {
	o, ok := other.(*ClientCredentialsBackend)
	return ok && b.ClientID == o.ClientID && b.ClientSecret == o.ClientSecret
}
