package auth

import (
	"golang.org/x/oauth2"
)

// oauthConfig builds the [oauth2.Config] used for authorization-URL
// construction. Token exchange itself goes through a [Backend], not through
// the oauth2 package, so only the auth endpoint matters here.
func oauthConfig(clientID, redirectURI string, scopes ScopeSet) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes.Strings(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  AccountsAuthURL,
			TokenURL: AccountsTokenURL,
		},
	}
}

// AuthorizationURL returns the Spotify consent-page URL for the
// authorization-code flow. The state token should be cryptographically
// random for CSRF protection; see [shared.GenerateID].
func AuthorizationURL(clientID, redirectURI, state string, scopes ScopeSet) string {
	return oauthConfig(clientID, redirectURI, scopes).AuthCodeURL(state)
}

// PKCEAuthorizationURL returns the consent-page URL for the PKCE flow along
// with the generated code verifier. The verifier must be presented in the
// [Grant] when exchanging the resulting authorization code.
func PKCEAuthorizationURL(clientID, redirectURI, state string, scopes ScopeSet) (url, verifier string) {
	verifier = oauth2.GenerateVerifier()
	url = oauthConfig(clientID, redirectURI, scopes).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	return url, verifier
}
