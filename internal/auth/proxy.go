package auth

import (
	"context"
	"net/http"
	"net/url"
)

// ProxyCodeBackend implements the authorization-code flow against a trusted
// intermediary server that holds the client secret on the application's
// behalf. Requests carry no client_secret at all; the proxy attaches it
// before forwarding to the canonical token endpoint.
type ProxyCodeBackend struct {
	ClientID   string `json:"client_id"`
	TokensURL  string `json:"tokens_url"`
	RefreshURL string `json:"refresh_url"`

	HTTPClient *http.Client `json:"-"`
}

func (b *ProxyCodeBackend) RequestTokens(ctx context.Context, grant Grant) ([]byte, *http.Response, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {grant.Code},
		"redirect_uri": {grant.RedirectURI},
		"client_id":    {b.ClientID},
	}
	return postForm(ctx, b.HTTPClient, b.TokensURL, form, nil)
}

func (b *ProxyCodeBackend) RefreshTokens(ctx context.Context, refreshToken string) ([]byte, *http.Response, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {b.ClientID},
	}
	return postForm(ctx, b.HTTPClient, b.RefreshURL, form, nil)
}

func (b *ProxyCodeBackend) Kind() string { return KindProxyAuthorizationCode }

func (b *ProxyCodeBackend) Equal(other Backend) bool {
	o, ok := other.(*ProxyCodeBackend)
	return ok && b.ClientID == o.ClientID && b.TokensURL == o.TokensURL && b.RefreshURL == o.RefreshURL
}

// ProxyClientCredentialsBackend implements the client-credentials flow via a
// trusted intermediary. The proxy holds both credentials; requests carry
// nothing but the grant type.
type ProxyClientCredentialsBackend struct {
	TokensURL string `json:"tokens_url"`

	HTTPClient *http.Client `json:"-"`
}

func (b *ProxyClientCredentialsBackend) RequestTokens(ctx context.Context, _ Grant) ([]byte, *http.Response, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	return postForm(ctx, b.HTTPClient, b.TokensURL, form, nil)
}

func (b *ProxyClientCredentialsBackend) RefreshTokens(ctx context.Context, _ string) ([]byte, *http.Response, error) {
	return b.RequestTokens(ctx, Grant{})
}

func (b *ProxyClientCredentialsBackend) Kind() string { return KindProxyClientCredentials }

func (b *ProxyClientCredentialsBackend) Equal(other Backend) bool {
	o, ok := other.(*ProxyClientCredentialsBackend)
	return ok && b.TokensURL == o.TokensURL
}
